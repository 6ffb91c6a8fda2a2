package plotpage_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/pkg/plotpage"
)

func parseDocument(t *testing.T, doc *plotpage.Document) *goquery.Document {
	t.Helper()

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(renderDocument(t, doc)))
	require.NoError(t, err)

	return parsed
}

func TestDocumentStructure_BlockOrder(t *testing.T) {
	t.Parallel()

	doc := parseDocument(t, &plotpage.Document{
		Links:      []string{"/data/a", "/data/b"},
		Thumbnails: []plotpage.Thumbnail{{Name: "2(1.0) - 2(1.0)", Data: "AAAA"}},
		Extras:     []plotpage.Extra{{Name: "k1", Value: "v1"}, {Name: "k2", Value: "v2"}},
		Sections:   []plotpage.Section{sampleChart()},
	})

	var ids []string

	doc.Find("div.container-fluid > div.card").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, id)
	})

	assert.Equal(t, []string{"raw-pictures", "thumbnail", "extras", "charts"}, ids)
	assert.Equal(t, 1, doc.Find("nav.navbar").Length())
	assert.Equal(t, 1, doc.Find("footer").Length())
}

func TestDocumentStructure_Entries(t *testing.T) {
	t.Parallel()

	doc := parseDocument(t, &plotpage.Document{
		Links:      []string{"/data/a", "/data/b"},
		Thumbnails: []plotpage.Thumbnail{{Name: "first", Data: "AAAA"}, {Name: "second", Data: "data:image/png;base64,BBBB"}},
		Extras:     []plotpage.Extra{{Name: "k1", Value: "v1"}, {Name: "k2", Value: "v2"}},
	})

	var links []string

	doc.Find("#raw-pictures a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})

	assert.Equal(t, []string{"/data/a", "/data/b"}, links)

	var srcs []string

	doc.Find("#thumbnail img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		srcs = append(srcs, src)
	})

	assert.Equal(t, []string{"data:image/png;base64,AAAA", "data:image/png;base64,BBBB"}, srcs)

	var names []string

	doc.Find("#extras h6").Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Text())
	})

	assert.Equal(t, []string{"k1", "k2"}, names)
	assert.Equal(t, "v2", strings.TrimSpace(doc.Find("#extras p").Last().Text()))

	assert.Equal(t, 1, doc.Find("#charts").Length())
	assert.Equal(t, 0, doc.Find("#charts .chart-section").Length())
}
