// Package report turns stage classification results into an HTML report.
//
// A Reporter accumulates caller-supplied links, thumbnails and extras. Draw
// merges them with the changing costs, stage series and, when a cut result is
// given, the similarity trend and auto-collected thumbnails, then renders and
// writes one document. A Reporter is not safe for concurrent use.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// ErrWrite is returned when the rendered document cannot be written.
var ErrWrite = errors.New("write report")

const (
	reportFileMode  = 0o644
	reportExt       = ".html"
	timestampLayout = "20060102150405"
	saltMin         = 10
	saltMax         = 99
)

// Reporter accumulates report entries and renders them.
type Reporter struct {
	links      []string
	thumbnails []Thumbnail
	extras     *Extras

	encoder   Encoder
	renderer  Renderer
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.Metrics
	outputDir string
	now       func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithEncoder sets the thumbnail image encoder.
func WithEncoder(enc Encoder) Option {
	return func(r *Reporter) { r.encoder = enc }
}

// WithRenderer sets the document renderer.
func WithRenderer(rd Renderer) Option {
	return func(r *Reporter) { r.renderer = rd }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithTracer sets the tracer used for compose and render spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Reporter) { r.tracer = t }
}

// WithMetrics sets the report metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Reporter) { r.metrics = m }
}

// WithOutputDir sets the directory for auto-named reports.
func WithOutputDir(dir string) Option {
	return func(r *Reporter) { r.outputDir = dir }
}

// WithClock overrides the time source used for auto-named reports.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// NewReporter creates an empty Reporter. Without options it encodes PNG,
// renders the light HTML theme and logs nowhere.
func NewReporter(opts ...Option) *Reporter {
	r := &Reporter{
		extras:    NewExtras(),
		encoder:   PNGEncoder{},
		renderer:  HTMLRenderer{},
		logger:    slog.New(slog.DiscardHandler),
		tracer:    nooptrace.NewTracerProvider().Tracer("report"),
		outputDir: ".",
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// AddDirLink records a link to raw data, typically a frames directory.
func (r *Reporter) AddDirLink(path string) {
	r.links = append(r.links, path)
}

// AddThumbnail encodes img and records it under name. On encoding failure
// nothing is recorded.
func (r *Reporter) AddThumbnail(name string, img image.Image) error {
	data, err := r.encoder.Encode(img)
	if err != nil {
		return fmt.Errorf("add thumbnail %q: %w", name, err)
	}

	r.AddThumbnailData(name, data)

	return nil
}

// AddThumbnailData records an already encoded thumbnail.
func (r *Reporter) AddThumbnailData(name, data string) {
	r.thumbnails = append(r.thumbnails, Thumbnail{Name: name, Data: data})
}

// AddExtra sets a free-text note; an existing name is overwritten.
func (r *Reporter) AddExtra(name, value string) {
	r.extras.Set(name, value)
}

// Payload composes the document payload from the accumulated entries and
// results without changing the Reporter. cut may be nil.
func (r *Reporter) Payload(
	ctx context.Context, results []stage.ClassificationResult, cut stage.CutResult, opts ...stage.ThumbnailOption,
) (*Payload, error) {
	p, _, err := r.compose(ctx, results, cut, opts)

	return p, err
}

// DrawOptions are the optional inputs of Draw.
type DrawOptions struct {
	// Path is the output file; empty picks a timestamped name in the output dir.
	Path string
	// Cut enables the similarity chart and thumbnail auto-collection.
	Cut stage.CutResult
	// ThumbnailOptions are passed through to Cut.Thumbnail.
	ThumbnailOptions []stage.ThumbnailOption
}

// Draw composes, renders and writes the report, returning the path written
// and the payload the document was rendered from. Derived extras and
// auto-collected thumbnails are kept in the Reporter only once the document
// has been written.
func (r *Reporter) Draw(
	ctx context.Context, results []stage.ClassificationResult, do DrawOptions,
) (string, *Payload, error) {
	ctx, span := r.tracer.Start(ctx, "report.Draw", trace.WithAttributes(
		attribute.Int("report.samples", len(results)),
		attribute.Bool("report.cut", do.Cut != nil),
	))
	defer span.End()

	start := time.Now()

	path, p, err := r.draw(ctx, results, do)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.record(ctx, observability.StatusError, start, nil)

		return "", nil, err
	}

	span.SetAttributes(attribute.String("report.path", path))
	r.record(ctx, observability.StatusOK, start, p)

	return path, p, nil
}

func (r *Reporter) draw(ctx context.Context, results []stage.ClassificationResult, do DrawOptions) (string, *Payload, error) {
	p, merged, err := r.compose(ctx, results, do.Cut, do.ThumbnailOptions)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer

	err = r.render(ctx, &buf, p)
	if err != nil {
		return "", nil, err
	}

	path := do.Path
	if path == "" {
		path = r.autoPath()
	}

	err = os.WriteFile(path, buf.Bytes(), reportFileMode)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	r.extras = merged
	r.thumbnails = append([]Thumbnail(nil), p.Thumbnails...)

	r.logger.InfoContext(ctx, "report saved",
		"path", path,
		"size", humanize.Bytes(uint64(buf.Len())),
	)

	return path, p, nil
}

func (r *Reporter) render(ctx context.Context, buf *bytes.Buffer, p *Payload) error {
	_, span := r.tracer.Start(ctx, "report.render")
	defer span.End()

	err := r.renderer.Render(buf, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("render report: %w", err)
	}

	return nil
}

// compose returns the payload together with the merged extras it was built from.
func (r *Reporter) compose(
	ctx context.Context, results []stage.ClassificationResult, cut stage.CutResult, opts []stage.ThumbnailOption,
) (*Payload, *Extras, error) {
	ctx, span := r.tracer.Start(ctx, "report.compose")
	defer span.End()

	err := checkResults(results)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, nil, err
	}

	durations, err := BuildStageDurations(results)
	if err != nil {
		return nil, nil, err
	}

	r.logger.DebugContext(ctx, "stage time cost", "durations", durations.AsMap())

	costs := CalcChangingCost(results)
	extras := r.extras.Clone()

	for _, c := range costs {
		r.logger.DebugContext(ctx, "stage changing cost", "label", c.Label, "cost", c.Cost)
		extras.Set(c.ExtraName(), c.ExtraValue())
	}

	p := &Payload{
		Links:         append([]string(nil), r.links...),
		Thumbnails:    append([]Thumbnail(nil), r.thumbnails...),
		ChangingCosts: costs,
		Timeline:      BuildStageTimeline(results),
		Durations:     durations,
	}

	if cut != nil {
		sim := BuildSimilarityTrend(cut.Ranges())
		p.Similarity = &sim

		if len(p.Thumbnails) == 0 {
			r.logger.DebugContext(ctx, "auto insert thumbnail")

			p.Thumbnails, err = CollectThumbnails(cut, r.encoder, opts...)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())

				return nil, nil, fmt.Errorf("collect thumbnails: %w", err)
			}
		}
	}

	p.Extras = extras.Slice()

	return p, extras, nil
}

// autoPath names a report after the current time plus a two-digit salt.
func (r *Reporter) autoPath() string {
	salt := saltMin + rand.IntN(saltMax-saltMin+1) //nolint:gosec // file name salt.
	name := fmt.Sprintf("%s%02d%s", r.now().Format(timestampLayout), salt, reportExt)

	return filepath.Join(r.outputDir, name)
}

func (r *Reporter) record(ctx context.Context, status string, start time.Time, p *Payload) {
	if r.metrics == nil {
		return
	}

	var changing, thumbs int
	if p != nil {
		changing = len(p.ChangingCosts)
		thumbs = len(p.Thumbnails)
	}

	r.metrics.RecordReport(ctx, status, time.Since(start), changing, thumbs)
}
