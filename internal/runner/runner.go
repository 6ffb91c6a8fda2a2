// Package runner wires file inputs, configuration and telemetry into report runs.
// It is shared by the CLI commands and the MCP tools.
package runner

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Thumbnail decoders.
	_ "image/png"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/stagereport/internal/config"
	"github.com/Sumatoshi-tech/stagereport/pkg/cutresult"
	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/renderer"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// ErrNoResults is returned when a job has no classification results path.
var ErrNoResults = errors.New("classification results path is required")

// NamedFile is a labeled image on disk.
type NamedFile struct {
	Name string
	Path string
}

// Job describes one report run.
type Job struct {
	ResultsPath string
	CutPath     string
	OutputPath  string
	SummaryPath string
	Links       []string
	Extras      []report.Extra
	Thumbnails  []NamedFile
}

// Outcome is what a run produced.
type Outcome struct {
	ReportPath string
	Summary    *report.Summary
}

// Runner executes jobs with shared configuration and telemetry.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.Metrics
}

// New creates a Runner. Nil logger or tracer fall back to no-op implementations.
func New(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer, metrics *observability.Metrics) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer("runner")
	}

	return &Runner{cfg: cfg, logger: logger, tracer: tracer, metrics: metrics}
}

// Render builds the report described by job and writes it, plus the summary
// when job.SummaryPath is set.
func (r *Runner) Render(ctx context.Context, job Job) (Outcome, error) {
	results, cut, err := r.load(job)
	if err != nil {
		return Outcome{}, err
	}

	rep, err := r.reporter(job)
	if err != nil {
		return Outcome{}, err
	}

	path, payload, err := rep.Draw(ctx, results, report.DrawOptions{
		Path:             job.OutputPath,
		Cut:              cut,
		ThumbnailOptions: r.cfg.ThumbnailOptions(),
	})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{ReportPath: path, Summary: report.NewSummary(payload)}

	if job.SummaryPath != "" {
		err = renderer.WriteFile(job.SummaryPath, out.Summary)
		if err != nil {
			return Outcome{}, err
		}

		r.logger.InfoContext(ctx, "summary saved", "path", job.SummaryPath)
	}

	return out, nil
}

// Summarize composes the payload for job without writing a document.
func (r *Runner) Summarize(ctx context.Context, job Job) (*report.Summary, error) {
	results, cut, err := r.load(job)
	if err != nil {
		return nil, err
	}

	rep, err := r.reporter(job)
	if err != nil {
		return nil, err
	}

	payload, err := rep.Payload(ctx, results, cut, r.cfg.ThumbnailOptions()...)
	if err != nil {
		return nil, err
	}

	return report.NewSummary(payload), nil
}

func (r *Runner) load(job Job) ([]stage.ClassificationResult, stage.CutResult, error) {
	if job.ResultsPath == "" {
		return nil, nil, ErrNoResults
	}

	results, err := stage.LoadResults(job.ResultsPath)
	if err != nil {
		return nil, nil, err
	}

	if job.CutPath == "" {
		return results, nil, nil
	}

	cut, err := cutresult.Load(job.CutPath,
		cutresult.WithThreshold(r.cfg.Cut.Threshold),
		cutresult.WithThumbnailDefaults(r.cfg.ThumbnailOptions()...),
	)
	if err != nil {
		return nil, nil, err
	}

	return results, cut, nil
}

func (r *Runner) reporter(job Job) (*report.Reporter, error) {
	maxSize, err := r.cfg.MaxThumbnailBytes()
	if err != nil {
		return nil, err
	}

	outputDir := r.cfg.Report.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultReportOutputDir
	}

	opts := []report.Option{
		report.WithEncoder(report.PNGEncoder{MaxSize: maxSize}),
		report.WithRenderer(report.HTMLRenderer{Title: r.cfg.Report.Title, Theme: r.cfg.Theme()}),
		report.WithLogger(r.logger),
		report.WithTracer(r.tracer),
		report.WithOutputDir(outputDir),
	}

	if r.metrics != nil {
		opts = append(opts, report.WithMetrics(r.metrics))
	}

	rep := report.NewReporter(opts...)

	for _, link := range job.Links {
		rep.AddDirLink(link)
	}

	for _, t := range job.Thumbnails {
		img, err := decodeImage(t.Path)
		if err != nil {
			return nil, err
		}

		err = rep.AddThumbnail(t.Name, img)
		if err != nil {
			return nil, err
		}
	}

	for _, e := range job.Extras {
		rep.AddExtra(e.Name, e.Value)
	}

	return rep, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open thumbnail %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode thumbnail %s: %w", path, err)
	}

	return img, nil
}
