package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SeriesData represents a single value in a chart series.
// We use any to allow numbers and category labels.
type SeriesData any

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme palette if empty.
}

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name       string
	Data       []SeriesData
	Color      string // Optional, uses theme palette if empty.
	Step       bool   // Draw as a step line.
	ShowSymbol bool   // Mark every data point.
	HideLabels bool   // Suppress per-point value labels.
}

// LineChartSpec describes a line chart.
type LineChartSpec struct {
	Title        string
	Labels       []string
	Series       []LineSeries
	YAxis        *opts.YAxis // Optional; a value axis is used if nil.
	CrossPointer bool
}

// BarChartSpec describes a bar chart.
type BarChartSpec struct {
	Title      string
	Labels     []string
	Series     []BarSeries
	YAxisLabel string
}

// BuildBarChart constructs a fully configured go-echarts Bar chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, spec BarChartSpec) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(spec.Title)),
		charts.WithToolboxOpts(cOpts.Toolbox()),
		charts.WithTooltipOpts(cOpts.Tooltip(false)),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(spec.YAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(spec.Labels)

	for i, s := range spec.Series {
		barData := make([]opts.BarData, len(s.Data))
		for j, v := range s.Data {
			barData[j] = opts.BarData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		bar.AddSeries(s.Name, barData, charts.WithItemStyleOpts(opts.ItemStyle{Color: color}))
	}

	return bar
}

// BuildLineChart constructs a fully configured go-echarts Line chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, spec LineChartSpec) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	yAxis := cOpts.YAxis("")
	if spec.YAxis != nil {
		yAxis = *spec.YAxis
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(cOpts.Title(spec.Title)),
		charts.WithToolboxOpts(cOpts.Toolbox()),
		charts.WithTooltipOpts(cOpts.Tooltip(spec.CrossPointer)),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(yAxis),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(spec.Labels)

	for i, s := range spec.Series {
		lineData := make([]opts.LineData, len(s.Data))
		for j, v := range s.Data {
			lineData[j] = opts.LineData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			charts.WithLineChartOpts(opts.LineChart{
				Step:       s.Step,
				ShowSymbol: opts.Bool(s.ShowSymbol),
			}),
		}

		if s.HideLabels {
			seriesOpts = append(seriesOpts, charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}
