// Package stage defines the classification and cut-analysis data consumed by the reporter.
package stage

import (
	"image"
	"math"
	"strconv"
	"strings"
)

// Magnitudes outside [expLowerBound, expUpperBound) format in exponent form.
const (
	expLowerBound = 1e-4
	expUpperBound = 1e16
)

// ChangingFlag is the reserved stage label for frames classified as transitioning.
const ChangingFlag = "-1"

// ClassificationResult is one classified frame of a video.
type ClassificationResult struct {
	FrameID   int     `json:"frame_id"  yaml:"frame_id"`
	Timestamp float64 `json:"timestamp" yaml:"timestamp"`
	Stage     string  `json:"stage"     yaml:"stage"`
}

// IsChanging reports whether the frame belongs to a stage transition.
func (r ClassificationResult) IsChanging() bool {
	return r.Stage == ChangingFlag
}

// SimilarityRange is one interval of a cut analysis.
type SimilarityRange struct {
	Start     int     `json:"start"      yaml:"start"`
	End       int     `json:"end"        yaml:"end"`
	StartTime float64 `json:"start_time" yaml:"start_time"`
	EndTime   float64 `json:"end_time"   yaml:"end_time"`
	SSIM      float64 `json:"ssim"       yaml:"ssim"`
	MSE       float64 `json:"mse"        yaml:"mse"`
	PSNR      float64 `json:"psnr"       yaml:"psnr"`
}

// IsStable reports whether the range is stable under the given SSIM threshold.
func (r SimilarityRange) IsStable(threshold float64) bool {
	return r.SSIM > threshold
}

// Label returns "start(start_time) - end(end_time)".
func (r SimilarityRange) Label() string {
	return strconv.Itoa(r.Start) + "(" + FormatSeconds(r.StartTime) + ") - " +
		strconv.Itoa(r.End) + "(" + FormatSeconds(r.EndTime) + ")"
}

// ThumbnailOptions control how a cut result materializes a range thumbnail.
type ThumbnailOptions struct {
	// CompressRate scales every frame before stitching; 0 keeps the source size.
	CompressRate float64
	// Vertical stacks frames top to bottom instead of left to right.
	Vertical bool
	// Step keeps every Step-th frame of the range; values below 1 keep all frames.
	Step int
}

// ThumbnailOption mutates ThumbnailOptions.
type ThumbnailOption func(*ThumbnailOptions)

// WithCompressRate sets the frame scale factor.
func WithCompressRate(rate float64) ThumbnailOption {
	return func(o *ThumbnailOptions) { o.CompressRate = rate }
}

// WithVertical selects vertical stacking.
func WithVertical(vertical bool) ThumbnailOption {
	return func(o *ThumbnailOptions) { o.Vertical = vertical }
}

// WithStep sets the frame sampling step.
func WithStep(step int) ThumbnailOption {
	return func(o *ThumbnailOptions) { o.Step = step }
}

// ApplyThumbnailOptions folds opts into a ThumbnailOptions value.
func ApplyThumbnailOptions(opts ...ThumbnailOption) ThumbnailOptions {
	var o ThumbnailOptions

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// CutResult is the read-only view of a video cut analysis.
type CutResult interface {
	// Ranges returns every analyzed range in original order.
	Ranges() []SimilarityRange
	// SplitRanges partitions the ranges into stable and unstable subsets.
	SplitRanges() (stable, unstable []SimilarityRange)
	// Thumbnail materializes a representative image for the range.
	Thumbnail(r SimilarityRange, opts ...ThumbnailOption) (image.Image, error)
}

// FormatSeconds formats a float the way report labels expect: shortest
// representation, integral values keep a trailing ".0", and magnitudes below
// 1e-4 or from 1e16 up switch to exponent form ("1e-05", "1e+16").
func FormatSeconds(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs < expLowerBound || abs >= expUpperBound) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
