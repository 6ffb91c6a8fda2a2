package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/stagereport/internal/runner"
	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/renderer"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

const (
	summaryCmdUse     = "summary <results-file>"
	summaryCmdShort   = "Print stage durations and changing costs"
	summaryArgCount   = 1
	summaryFormatFlag = "format"
	formatText        = "text"
)

// NewSummaryCommand creates the summary subcommand.
func NewSummaryCommand() *cobra.Command {
	var (
		configPath string
		cutPath    string
		extras     []string
		format     string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   summaryCmdUse,
		Short: summaryCmdShort,
		Args:  cobra.ExactArgs(summaryArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseExtras(extras)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd, configPath, observability.ModeCLI, debug, nil)
			if err != nil {
				return err
			}
			defer sess.close(cmd.Context())

			summary, err := sess.runner().Summarize(cmd.Context(), runner.Job{
				ResultsPath: args[0],
				CutPath:     cutPath,
				Extras:      parsed,
			})
			if err != nil {
				return err
			}

			return writeSummary(cmd.OutOrStdout(), summary, format)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, configFlag, "", configUsage)
	flags.StringVar(&cutPath, cutFlag, "", cutUsage)
	flags.StringArrayVar(&extras, extraFlag, nil, extraUsage)
	flags.StringVar(&format, summaryFormatFlag, formatText, "output format: text, json or yaml")
	flags.BoolVar(&debug, debugFlag, false, debugUsage)

	return cmd
}

func writeSummary(w io.Writer, summary *report.Summary, format string) error {
	if format != formatText {
		data, err := renderer.Render(summary, format)
		if err != nil {
			return err
		}

		_, err = w.Write(data)
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}

		return nil
	}

	header := color.New(color.FgCyan, color.Bold)

	header.Fprintf(w, "=== STAGES (%s samples) ===\n", humanize.Comma(int64(summary.Samples)))
	fmt.Fprintln(w, stagesTable(summary.Stages))

	if len(summary.ChangingCosts) > 0 {
		header.Fprintln(w, "=== STAGE CHANGING COST ===")
		fmt.Fprintln(w, changingTable(summary.ChangingCosts))
	}

	if len(summary.Thumbnails) > 0 {
		header.Fprintln(w, "=== THUMBNAILS ===")

		for _, name := range summary.Thumbnails {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	return tbl
}

func stagesTable(stages []report.StageSummary) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Stage", "Duration (s)"})

	for _, s := range stages {
		tbl.AppendRow(table.Row{s.Stage, stage.FormatSeconds(s.Duration)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d stages", len(stages))})

	return tbl.Render()
}

func changingTable(costs []report.ChangingCost) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Transition", "Cost (s)"})

	for _, c := range costs {
		tbl.AppendRow(table.Row{c.Label, stage.FormatSeconds(c.Cost)})
	}

	return tbl.Render()
}
