package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// TestAcceptance_ReportRun checks that traces, metrics and trace-correlated
// logs are all produced by one report run.
func TestAcceptance_ReportRun(t *testing.T) {
	t.Parallel()

	spanExporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	metricReader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	metrics, err := observability.NewMetrics(mp.Meter("stagereport"))
	require.NoError(t, err)

	var logBuf bytes.Buffer

	inner := slog.NewJSONHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "stagereport", "test", observability.ModeCLI))

	r := report.NewReporter(
		report.WithTracer(tp.Tracer("stagereport")),
		report.WithMetrics(metrics),
		report.WithLogger(logger),
	)

	results := []stage.ClassificationResult{
		{FrameID: 0, Timestamp: 0, Stage: "0"},
		{FrameID: 1, Timestamp: 0.5, Stage: stage.ChangingFlag},
		{FrameID: 2, Timestamp: 1, Stage: "1"},
	}

	_, _, err = r.Draw(context.Background(), results, report.DrawOptions{Path: filepath.Join(t.TempDir(), "r.html")})
	require.NoError(t, err)

	spanNames := make(map[string]bool)
	for _, s := range spanExporter.GetSpans() {
		spanNames[s.Name] = true
	}

	assert.True(t, spanNames["report.Draw"])
	assert.True(t, spanNames["report.compose"])
	assert.True(t, spanNames["report.render"])

	rm := collectMetrics(t, metricReader)
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "stagereport.reports.total")))
	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "stagereport.changing.entries.total")))

	var saved map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(logBuf.String()), "\n") {
		var rec map[string]any

		require.NoError(t, json.Unmarshal([]byte(line), &rec))

		if rec["msg"] == "report saved" {
			saved = rec
		}
	}

	require.NotNil(t, saved)
	assert.NotEmpty(t, saved["trace_id"])
	assert.Equal(t, "stagereport", saved["service"])
	assert.Equal(t, "test", saved["env"])
}
