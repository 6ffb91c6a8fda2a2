package plotpage

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

const (
	defaultTitle     = "stagesep report"
	defaultGenerator = "stagereport"
	dataURIPrefix    = "data:image/png;base64,"
)

// Thumbnail is an inline image; Data is base64 PNG without the data URI prefix.
type Thumbnail struct {
	Name string
	Data string
}

// Extra is a labeled free-text note.
type Extra struct {
	Name  string
	Value string
}

// Document is a report page: header nav, optional Raw Pictures, Thumbnail and
// Extras blocks, the Charts block and a footer.
type Document struct {
	Title      string
	Generator  string
	Theme      Theme
	Links      []string
	Thumbnails []Thumbnail
	Extras     []Extra
	Sections   []Section
}

// Render writes the document as HTML.
// An optional block is emitted only when its collection is non-empty.
func (d *Document) Render(w io.Writer) error {
	theme := GetThemeConfig(d.Theme)

	title := d.Title
	if title == "" {
		title = defaultTitle
	}

	generator := d.Generator
	if generator == "" {
		generator = defaultGenerator
	}

	data := documentData{Title: title, Theme: theme}

	var err error

	data.Header, err = renderTemplate("header.html", headerData{Title: title, NavbarClass: theme.NavbarClass})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	if len(d.Links) > 0 {
		data.Links, err = renderTemplate("links.html", linksData{Links: d.Links})
		if err != nil {
			return fmt.Errorf("render links: %w", err)
		}
	}

	if len(d.Thumbnails) > 0 {
		data.Thumbnails, err = renderTemplate("thumbnails.html", thumbnailsData{Items: thumbnailItems(d.Thumbnails)})
		if err != nil {
			return fmt.Errorf("render thumbnails: %w", err)
		}
	}

	if len(d.Extras) > 0 {
		data.Extras, err = renderTemplate("extras.html", extrasData{Items: d.Extras})
		if err != nil {
			return fmt.Errorf("render extras: %w", err)
		}
	}

	data.Charts, err = d.renderCharts()
	if err != nil {
		return err
	}

	data.Footer, err = renderTemplate("footer.html", footerData{Generator: generator})
	if err != nil {
		return fmt.Errorf("render footer: %w", err)
	}

	page, err := renderTemplate("document.html", data)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	_, err = io.WriteString(w, string(page))
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}

	return nil
}

func (d *Document) renderCharts() (template.HTML, error) {
	items := make([]chartItem, 0, len(d.Sections))

	for _, section := range d.Sections {
		content, err := renderChart(section.Chart)
		if err != nil {
			return "", fmt.Errorf("render section %q: %w", section.Title, err)
		}

		items = append(items, chartItem{
			Title: section.Title,
			Chart: template.HTML(content), //nolint:gosec // produced by go-echarts.
		})
	}

	html, err := renderTemplate("charts.html", chartsData{Items: items})
	if err != nil {
		return "", fmt.Errorf("render charts: %w", err)
	}

	return html, nil
}

func thumbnailItems(thumbs []Thumbnail) []thumbnailItem {
	items := make([]thumbnailItem, len(thumbs))

	for i, t := range thumbs {
		src := t.Data
		if !strings.HasPrefix(src, "data:") {
			src = dataURIPrefix + src
		}

		items[i] = thumbnailItem{
			Name: t.Name,
			Src:  template.URL(src), //nolint:gosec // base64 payload produced by the encoder.
		}
	}

	return items
}
