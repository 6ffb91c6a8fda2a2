package report

import (
	"io"

	"github.com/Sumatoshi-tech/stagereport/pkg/plotpage"
)

// Chart titles and series names.
const (
	TrendChartTitle    = "Trend"
	TimeCostChartTitle = "Time Cost"
	SimChartTitle      = "SIM"

	stageSeriesName    = "stage"
	timeCostSeriesName = "time cost"
	ssimSeriesName     = "ssim"
	mseSeriesName      = "mse"
	psnrSeriesName     = "psnr"
)

// Renderer turns a payload into a document.
type Renderer interface {
	Render(w io.Writer, p *Payload) error
}

// HTMLRenderer renders a payload as a single HTML page with go-echarts charts.
type HTMLRenderer struct {
	Title string
	Theme plotpage.Theme
}

// Render implements Renderer.
func (h HTMLRenderer) Render(w io.Writer, p *Payload) error {
	doc := &plotpage.Document{
		Title:    h.Title,
		Theme:    h.Theme,
		Links:    p.Links,
		Sections: h.sections(p),
	}

	for _, t := range p.Thumbnails {
		doc.Thumbnails = append(doc.Thumbnails, plotpage.Thumbnail{Name: t.Name, Data: t.Data})
	}

	for _, e := range p.Extras {
		doc.Extras = append(doc.Extras, plotpage.Extra{Name: e.Name, Value: e.Value})
	}

	return doc.Render(w)
}

func (h HTMLRenderer) sections(p *Payload) []plotpage.Section {
	cOpts := plotpage.NewChartOpts(h.Theme)

	sections := []plotpage.Section{
		{Title: TrendChartTitle, Chart: trendChart(cOpts, p)},
		{Title: TimeCostChartTitle, Chart: timeCostChart(cOpts, p)},
	}

	if p.Similarity != nil {
		sections = append(sections, plotpage.Section{Title: SimChartTitle, Chart: simChart(cOpts, p.Similarity)})
	}

	return sections
}

// trendChart plots the stage of every sample as a step line over a category axis of stages.
func trendChart(cOpts *plotpage.ChartOpts, p *Payload) plotpage.Renderable {
	yAxis := cOpts.CategoryYAxis(stageSeriesName, p.Durations.Stages)

	return plotpage.BuildLineChart(cOpts, plotpage.LineChartSpec{
		Title:  TrendChartTitle,
		Labels: p.Timeline.Timestamps,
		Series: []plotpage.LineSeries{{
			Name:       stageSeriesName,
			Data:       toSeries(p.Timeline.Stages),
			Step:       true,
			ShowSymbol: true,
		}},
		YAxis:        &yAxis,
		CrossPointer: true,
	})
}

func timeCostChart(cOpts *plotpage.ChartOpts, p *Payload) plotpage.Renderable {
	return plotpage.BuildBarChart(cOpts, plotpage.BarChartSpec{
		Title:  TimeCostChartTitle,
		Labels: p.Durations.Stages,
		Series: []plotpage.BarSeries{{
			Name: timeCostSeriesName,
			Data: toSeries(p.Durations.Durations),
		}},
	})
}

func simChart(cOpts *plotpage.ChartOpts, st *SimilarityTrend) plotpage.Renderable {
	return plotpage.BuildLineChart(cOpts, plotpage.LineChartSpec{
		Title:  SimChartTitle,
		Labels: st.StartTimes,
		Series: []plotpage.LineSeries{
			{Name: ssimSeriesName, Data: toSeries(st.SSIM), HideLabels: true},
			{Name: mseSeriesName, Data: toSeries(st.MSE), HideLabels: true},
			{Name: psnrSeriesName, Data: toSeries(st.PSNR), HideLabels: true},
		},
	})
}

func toSeries[T any](values []T) []plotpage.SeriesData {
	out := make([]plotpage.SeriesData, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
