package report_test

import (
	"errors"
	"image"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

var errFrames = errors.New("frames missing")

func res(id int, ts float64, st string) stage.ClassificationResult {
	return stage.ClassificationResult{FrameID: id, Timestamp: ts, Stage: st}
}

// fakeCut is an in-memory stage.CutResult that records thumbnail requests.
type fakeCut struct {
	ranges   []stage.SimilarityRange
	err      error
	calls    int
	lastOpts stage.ThumbnailOptions
}

func newFakeCut() *fakeCut {
	return &fakeCut{ranges: []stage.SimilarityRange{
		{Start: 1, End: 10, StartTime: 0, EndTime: 0.9, SSIM: 0.99, MSE: 1, PSNR: 40},
		{Start: 11, End: 13, StartTime: 1, EndTime: 1.2, SSIM: 0.6, MSE: 30, PSNR: 18},
		{Start: 14, End: 30, StartTime: 1.3, EndTime: 2.9, SSIM: 0.98, MSE: 2, PSNR: 38},
		{Start: 31, End: 32, StartTime: 3, EndTime: 3.1, SSIM: 0.7, MSE: 20, PSNR: 22},
	}}
}

func (f *fakeCut) Ranges() []stage.SimilarityRange { return f.ranges }

func (f *fakeCut) SplitRanges() (stable, unstable []stage.SimilarityRange) {
	for _, r := range f.ranges {
		if r.IsStable(0.95) {
			stable = append(stable, r)
		} else {
			unstable = append(unstable, r)
		}
	}

	return stable, unstable
}

func (f *fakeCut) Thumbnail(_ stage.SimilarityRange, opts ...stage.ThumbnailOption) (image.Image, error) {
	f.calls++
	f.lastOpts = stage.ApplyThumbnailOptions(opts...)

	if f.err != nil {
		return nil, f.err
	}

	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}
