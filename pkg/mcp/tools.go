package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/stagereport/internal/runner"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
)

// Tool name constants.
const (
	ToolNameReport  = "stage_report"
	ToolNameSummary = "stage_summary"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyResultsPath indicates the results_path parameter is empty.
	ErrEmptyResultsPath = errors.New("results_path parameter is required and must not be empty")
	// ErrPathNotAbsolute indicates a path parameter is not absolute.
	ErrPathNotAbsolute = errors.New("path must be absolute")
	// ErrPathNotFound indicates an input file does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrEmptyName indicates a named entry has no name.
	ErrEmptyName = errors.New("name must not be empty")
)

// Input types (auto-generate JSON schemas via struct tags).

// NamedValue is a labeled free-text note.
type NamedValue struct {
	Name  string `json:"name"  jsonschema:"entry name"`
	Value string `json:"value" jsonschema:"entry text"`
}

// NamedPath is a labeled image file.
type NamedPath struct {
	Name string `json:"name" jsonschema:"thumbnail caption"`
	Path string `json:"path" jsonschema:"absolute path to a PNG or JPEG image"`
}

// ReportInput is the input schema for the stage_report tool.
type ReportInput struct {
	CutPath     string       `json:"cut_path,omitempty"     jsonschema:"optional absolute path to a cut analysis file (JSON or YAML)"`
	Extras      []NamedValue `json:"extras,omitempty"       jsonschema:"optional notes shown in the Extras block"`
	Links       []string     `json:"links,omitempty"        jsonschema:"optional raw data paths shown in the Raw Pictures block"`
	OutputPath  string       `json:"output_path,omitempty"  jsonschema:"optional absolute output path (default: timestamped name in the output dir)"`
	ResultsPath string       `json:"results_path"           jsonschema:"absolute path to a classification results file (JSON or YAML)"`
	SummaryPath string       `json:"summary_path,omitempty" jsonschema:"optional absolute path for a JSON or YAML summary"`
	Thumbnails  []NamedPath  `json:"thumbnails,omitempty"   jsonschema:"optional images to show instead of auto-collected ones"`
}

// SummaryInput is the input schema for the stage_summary tool.
type SummaryInput struct {
	CutPath     string       `json:"cut_path,omitempty" jsonschema:"optional absolute path to a cut analysis file (JSON or YAML)"`
	Extras      []NamedValue `json:"extras,omitempty"   jsonschema:"optional notes merged with the changing costs"`
	ResultsPath string       `json:"results_path"       jsonschema:"absolute path to a classification results file (JSON or YAML)"`
}

// ReportResult is the data returned by stage_report.
type ReportResult struct {
	ReportPath string          `json:"report_path"`
	Summary    *report.Summary `json:"summary"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateReportInput checks paths and named entries of a stage_report call.
func validateReportInput(input ReportInput) error {
	err := validateSources(input.ResultsPath, input.CutPath)
	if err != nil {
		return err
	}

	for _, p := range []string{input.OutputPath, input.SummaryPath} {
		if p != "" && !filepath.IsAbs(p) {
			return fmt.Errorf("%w: %s", ErrPathNotAbsolute, p)
		}
	}

	for _, t := range input.Thumbnails {
		if t.Name == "" {
			return fmt.Errorf("thumbnail %s: %w", t.Path, ErrEmptyName)
		}

		err = validateExisting(t.Path)
		if err != nil {
			return err
		}
	}

	return validateExtras(input.Extras)
}

func validateSummaryInput(input SummaryInput) error {
	err := validateSources(input.ResultsPath, input.CutPath)
	if err != nil {
		return err
	}

	return validateExtras(input.Extras)
}

func validateSources(resultsPath, cutPath string) error {
	if resultsPath == "" {
		return ErrEmptyResultsPath
	}

	err := validateExisting(resultsPath)
	if err != nil {
		return err
	}

	if cutPath != "" {
		return validateExisting(cutPath)
	}

	return nil
}

func validateExisting(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}

	_, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	return nil
}

func validateExtras(extras []NamedValue) error {
	for _, e := range extras {
		if e.Name == "" {
			return fmt.Errorf("extra: %w", ErrEmptyName)
		}
	}

	return nil
}

func toExtras(in []NamedValue) []report.Extra {
	out := make([]report.Extra, len(in))
	for i, e := range in {
		out[i] = report.Extra{Name: e.Name, Value: e.Value}
	}

	return out
}

func toNamedFiles(in []NamedPath) []runner.NamedFile {
	out := make([]runner.NamedFile, len(in))
	for i, t := range in {
		out[i] = runner.NamedFile{Name: t.Name, Path: t.Path}
	}

	return out
}
