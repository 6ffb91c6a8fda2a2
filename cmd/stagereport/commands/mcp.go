package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/stagereport/pkg/mcp"
	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
)

const mcpHTTPFlag = "http"

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		httpAddr   string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport, or on
streamable HTTP when --http is set.

The MCP server exposes report generation as tools that AI agents
can discover and invoke:
  - stage_report: Render classification results into an HTML report
  - stage_summary: Summarize stage durations and changing costs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cmd, configPath, observability.ModeMCP, debug, nil)
			if err != nil {
				return err
			}
			defer sess.close(cmd.Context())

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  sess.providers.Logger,
				Metrics: sess.metrics,
				Tracer:  sess.providers.Tracer,
				Runner:  sess.runner(),
			})

			if httpAddr != "" {
				return srv.RunHTTP(cmd.Context(), httpAddr)
			}

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, configFlag, "", configUsage)
	cmd.Flags().StringVar(&httpAddr, mcpHTTPFlag, "", "serve streamable HTTP on this address (e.g. :8080) instead of stdio")
	cmd.Flags().BoolVar(&debug, debugFlag, false, debugUsage)

	return cmd
}
