package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TextfileExporter collects OTel metrics into a private Prometheus registry
// and writes them in the node_exporter textfile format. Batch runs use it in
// place of a /metrics endpoint.
type TextfileExporter struct {
	path     string
	registry *prometheus.Registry
	reader   *promexporter.Exporter
}

// NewTextfileExporter creates an exporter that writes to path.
func NewTextfileExporter(path string) (*TextfileExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &TextfileExporter{path: path, registry: registry, reader: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (te *TextfileExporter) Reader() sdkmetric.Reader {
	return te.reader
}

// Gatherer exposes the underlying registry.
func (te *TextfileExporter) Gatherer() prometheus.Gatherer {
	return te.registry
}

// Write gathers the registry and atomically replaces the textfile.
func (te *TextfileExporter) Write() error {
	err := prometheus.WriteToTextfile(te.path, te.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", te.path, err)
	}

	return nil
}
