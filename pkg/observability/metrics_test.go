package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/stagereport/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := observability.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return m, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumValue(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestMetrics_RecordReport(t *testing.T) {
	t.Parallel()

	m, reader := setupTestMeter(t)
	ctx := context.Background()

	m.RecordReport(ctx, observability.StatusOK, 50*time.Millisecond, 3, 2)
	m.RecordReport(ctx, observability.StatusError, time.Millisecond, 9, 9)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "stagereport.reports.total")))
	assert.Equal(t, int64(3), sumValue(t, findMetric(rm, "stagereport.changing.entries.total")))
	assert.Equal(t, int64(2), sumValue(t, findMetric(rm, "stagereport.thumbnails.total")))
	require.NotNil(t, findMetric(rm, "stagereport.report.duration.seconds"))
}

func TestMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	m, reader := setupTestMeter(t)

	m.RecordRequest(context.Background(), "stage_report", observability.StatusOK, 100*time.Millisecond)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(1), sumValue(t, findMetric(rm, "stagereport.requests.total")))
	require.NotNil(t, findMetric(rm, "stagereport.request.duration.seconds"))
}

func TestMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	m, reader := setupTestMeter(t)

	done := m.TrackInflight(context.Background(), "stage_summary")
	assert.Equal(t, int64(1), sumValue(t, findMetric(collectMetrics(t, reader), "stagereport.inflight.requests")))

	done()
	assert.Equal(t, int64(0), sumValue(t, findMetric(collectMetrics(t, reader), "stagereport.inflight.requests")))
}

func TestNewMetrics_WithNoopMeter(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	m, err := observability.NewMetrics(providers.Meter)
	require.NoError(t, err)

	m.RecordRequest(context.Background(), "test", observability.StatusOK, time.Millisecond)
}
