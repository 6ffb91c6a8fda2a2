package report

import (
	"fmt"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// Thumbnail is a labeled, encoded image.
type Thumbnail struct {
	Name string
	Data string
}

// CollectThumbnails builds one thumbnail per unstable range of cut, in the
// order the cut result returns them. opts are passed through to cut.Thumbnail.
func CollectThumbnails(cut stage.CutResult, enc Encoder, opts ...stage.ThumbnailOption) ([]Thumbnail, error) {
	_, unstable := cut.SplitRanges()

	thumbs := make([]Thumbnail, 0, len(unstable))

	for _, rng := range unstable {
		img, err := cut.Thumbnail(rng, opts...)
		if err != nil {
			return nil, fmt.Errorf("thumbnail %s: %w", rng.Label(), err)
		}

		data, err := enc.Encode(img)
		if err != nil {
			return nil, fmt.Errorf("thumbnail %s: %w", rng.Label(), err)
		}

		thumbs = append(thumbs, Thumbnail{Name: rng.Label(), Data: data})
	}

	return thumbs, nil
}
