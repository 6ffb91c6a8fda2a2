package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricReportsTotal     = "stagereport.reports.total"
	metricReportDuration   = "stagereport.report.duration.seconds"
	metricChangingTotal    = "stagereport.changing.entries.total"
	metricThumbnailsTotal  = "stagereport.thumbnails.total"
	metricRequestsTotal    = "stagereport.requests.total"
	metricRequestDuration  = "stagereport.request.duration.seconds"
	metricInflightRequests = "stagereport.inflight.requests"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation.
	StatusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s; rendering is dominated by thumbnail encoding.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Metrics holds the report and request instruments.
type Metrics struct {
	reportsTotal     metric.Int64Counter
	reportDuration   metric.Float64Histogram
	changingTotal    metric.Int64Counter
	thumbnailsTotal  metric.Int64Counter
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	inflightRequests metric.Int64UpDownCounter
}

// NewMetrics creates the instruments from the given meter.
func NewMetrics(mt metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	m.reportsTotal, err = mt.Int64Counter(metricReportsTotal,
		metric.WithDescription("Reports composed and rendered"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportsTotal, err)
	}

	m.reportDuration, err = mt.Float64Histogram(metricReportDuration,
		metric.WithDescription("Time to compose, render and write a report"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricReportDuration, err)
	}

	m.changingTotal, err = mt.Int64Counter(metricChangingTotal,
		metric.WithDescription("Stage changing intervals detected"),
		metric.WithUnit("{interval}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricChangingTotal, err)
	}

	m.thumbnailsTotal, err = mt.Int64Counter(metricThumbnailsTotal,
		metric.WithDescription("Thumbnails embedded into reports"),
		metric.WithUnit("{thumbnail}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricThumbnailsTotal, err)
	}

	m.requestsTotal, err = mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of tool requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	m.requestDuration, err = mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Tool request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	m.inflightRequests, err = mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight tool requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &m, nil
}

// RecordReport records one compose-and-render attempt.
func (m *Metrics) RecordReport(ctx context.Context, status string, duration time.Duration, changing, thumbnails int) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	m.reportsTotal.Add(ctx, 1, attrs)
	m.reportDuration.Record(ctx, duration.Seconds(), attrs)

	if status != StatusOK {
		return
	}

	m.changingTotal.Add(ctx, int64(changing))
	m.thumbnailsTotal.Add(ctx, int64(thumbnails))
}

// RecordRequest records a completed tool request with its operation, status, and duration.
func (m *Metrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	m.requestsTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (m *Metrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	m.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		m.inflightRequests.Add(ctx, -1, attrs)
	}
}
