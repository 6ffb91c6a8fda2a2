package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/stagereport/internal/runner"
)

// handleReport processes stage_report tool calls.
func (s *Server) handleReport(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ReportInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateReportInput(input)
	if err != nil {
		return errorResult(err)
	}

	outcome, err := s.runner.Render(ctx, runner.Job{
		ResultsPath: input.ResultsPath,
		CutPath:     input.CutPath,
		OutputPath:  input.OutputPath,
		SummaryPath: input.SummaryPath,
		Links:       input.Links,
		Extras:      toExtras(input.Extras),
		Thumbnails:  toNamedFiles(input.Thumbnails),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "stage_report failed", "error", err)

		return errorResult(err)
	}

	return jsonResult(ReportResult{ReportPath: outcome.ReportPath, Summary: outcome.Summary})
}

// handleSummary processes stage_summary tool calls.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SummaryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateSummaryInput(input)
	if err != nil {
		return errorResult(err)
	}

	summary, err := s.runner.Summarize(ctx, runner.Job{
		ResultsPath: input.ResultsPath,
		CutPath:     input.CutPath,
		Extras:      toExtras(input.Extras),
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(summary)
}
