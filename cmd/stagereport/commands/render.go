package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/stagereport/internal/config"
	"github.com/Sumatoshi-tech/stagereport/internal/runner"
	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
)

const (
	renderCmdUse      = "render <results-file>"
	renderCmdShort    = "Render a stage classification report as HTML"
	renderArgCount    = 1
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output HTML file (default: timestamped name in report.output_dir)"
	renderLinkFlag    = "link"
	renderLinkUsage   = "raw data path listed under Raw Pictures (repeatable)"
	renderThumbFlag   = "thumbnail"
	renderThumbUsage  = "thumbnail image as name=path (repeatable); disables auto collection"
	renderSummaryFlag = "summary"
	renderSummaryUse  = "also write a summary to this .json or .yaml file"
	renderTitleFlag   = "title"
	renderThemeFlag   = "theme"
	renderThreshFlag  = "threshold"
)

type renderOptions struct {
	configPath string
	cutPath    string
	output     string
	summary    string
	links      []string
	extras     []string
	thumbnails []string
	title      string
	theme      string
	threshold  float64
	debug      bool
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Render classification results into one HTML document with the Trend,
Time Cost and, given --cut, SIM charts. Stage changing costs are added to
the Extras block. With --cut and no --thumbnail, one thumbnail is collected
per unstable range.`,
		Args: cobra.ExactArgs(renderArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, configFlag, "", configUsage)
	flags.StringVar(&opts.cutPath, cutFlag, "", cutUsage)
	flags.StringVarP(&opts.output, renderOutputFlag, renderOutputShort, "", renderOutputUsage)
	flags.StringVar(&opts.summary, renderSummaryFlag, "", renderSummaryUse)
	flags.StringArrayVar(&opts.links, renderLinkFlag, nil, renderLinkUsage)
	flags.StringArrayVar(&opts.extras, extraFlag, nil, extraUsage)
	flags.StringArrayVar(&opts.thumbnails, renderThumbFlag, nil, renderThumbUsage)
	flags.StringVar(&opts.title, renderTitleFlag, "", "document title (overrides report.title)")
	flags.StringVar(&opts.theme, renderThemeFlag, "", "light or dark (overrides report.theme)")
	flags.Float64Var(&opts.threshold, renderThreshFlag, 0, "SSIM stability threshold (overrides cut.threshold)")
	flags.BoolVar(&opts.debug, debugFlag, false, debugUsage)

	return cmd
}

func runRender(cmd *cobra.Command, resultsPath string, opts renderOptions) error {
	extras, err := parseExtras(opts.extras)
	if err != nil {
		return err
	}

	thumbs, err := parseThumbnails(opts.thumbnails)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd, opts.configPath, observability.ModeCLI, opts.debug, func(cfg *config.Config) {
		if opts.title != "" {
			cfg.Report.Title = opts.title
		}

		if opts.theme != "" {
			cfg.Report.Theme = opts.theme
		}

		if cmd.Flags().Changed(renderThreshFlag) {
			cfg.Cut.Threshold = opts.threshold
		}
	})
	if err != nil {
		return err
	}
	defer sess.close(cmd.Context())

	outcome, err := sess.runner().Render(cmd.Context(), runner.Job{
		ResultsPath: resultsPath,
		CutPath:     opts.cutPath,
		OutputPath:  opts.output,
		SummaryPath: opts.summary,
		Links:       opts.links,
		Extras:      extras,
		Thumbnails:  thumbs,
	})
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "report saved: %s\n", outcome.ReportPath)

	if opts.summary != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "summary saved: %s\n", opts.summary)
	}

	return nil
}

func parseThumbnails(raw []string) ([]runner.NamedFile, error) {
	files := make([]runner.NamedFile, 0, len(raw))

	for _, r := range raw {
		name, path, err := splitPair(r)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", renderThumbFlag, err)
		}

		files = append(files, runner.NamedFile{Name: name, Path: path})
	}

	return files, nil
}
