// Package cutresult provides a file-backed cut analysis: similarity ranges
// plus a directory of extracted frames used to build range thumbnails.
package cutresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // Frame decoders.
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

// DefaultThreshold is the SSIM above which a range counts as stable.
const DefaultThreshold = 0.95

// DefaultFramePattern names extracted frames by frame id.
const DefaultFramePattern = "%d.png"

// Sentinel errors.
var (
	// ErrInvalidThreshold indicates a threshold outside [0, 1].
	ErrInvalidThreshold = errors.New("ssim threshold must be between 0 and 1")
	// ErrRangeFrames indicates a range selected no frames.
	ErrRangeFrames = errors.New("range has no frames")
)

// Document is the on-disk form of a cut analysis.
type Document struct {
	FramesDir    string                  `json:"frames_dir"    yaml:"frames_dir"`
	FramePattern string                  `json:"frame_pattern" yaml:"frame_pattern"`
	Ranges       []stage.SimilarityRange `json:"ranges"        yaml:"ranges"`
}

// Result is a cut analysis backed by frame images on disk.
type Result struct {
	ranges    []stage.SimilarityRange
	framesDir string
	pattern   string
	threshold float64
	defaults  []stage.ThumbnailOption
}

var _ stage.CutResult = (*Result)(nil)

// Option configures a Result.
type Option func(*Result)

// WithThreshold overrides the stable/unstable SSIM threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Result) { r.threshold = threshold }
}

// WithThumbnailDefaults sets options applied before per-call thumbnail options.
func WithThumbnailDefaults(opts ...stage.ThumbnailOption) Option {
	return func(r *Result) { r.defaults = append(r.defaults, opts...) }
}

// New builds a Result from ranges and a frames directory.
func New(ranges []stage.SimilarityRange, framesDir, pattern string, opts ...Option) (*Result, error) {
	if pattern == "" {
		pattern = DefaultFramePattern
	}

	res := &Result{
		ranges:    append([]stage.SimilarityRange(nil), ranges...),
		framesDir: framesDir,
		pattern:   pattern,
		threshold: DefaultThreshold,
	}

	for _, opt := range opts {
		opt(res)
	}

	if res.threshold < 0 || res.threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, res.threshold)
	}

	return res, nil
}

// Load reads a cut analysis document (JSON or YAML). A relative frames_dir
// is resolved against the document's directory.
func Load(path string, opts ...Option) (*Result, error) {
	format, err := stage.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := stage.ToJSON(raw, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	var d Document

	err = json.Unmarshal(doc, &d)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	framesDir := d.FramesDir
	if framesDir != "" && !filepath.IsAbs(framesDir) {
		framesDir = filepath.Join(filepath.Dir(path), framesDir)
	}

	return New(d.Ranges, framesDir, d.FramePattern, opts...)
}

// Ranges returns a copy of all ranges in original order.
func (r *Result) Ranges() []stage.SimilarityRange {
	return append([]stage.SimilarityRange(nil), r.ranges...)
}

// Threshold returns the SSIM threshold used by SplitRanges.
func (r *Result) Threshold() float64 {
	return r.threshold
}

// SplitRanges partitions ranges by stability, preserving order.
func (r *Result) SplitRanges() (stable, unstable []stage.SimilarityRange) {
	for _, each := range r.ranges {
		if each.IsStable(r.threshold) {
			stable = append(stable, each)
		} else {
			unstable = append(unstable, each)
		}
	}

	return stable, unstable
}

// Thumbnail stitches the frames of rng into one image.
func (r *Result) Thumbnail(rng stage.SimilarityRange, opts ...stage.ThumbnailOption) (image.Image, error) {
	o := stage.ApplyThumbnailOptions(append(append([]stage.ThumbnailOption(nil), r.defaults...), opts...)...)

	step := max(o.Step, 1)

	var frames []image.Image

	for id := rng.Start; id <= rng.End; id += step {
		frame, err := r.frame(id)
		if err != nil {
			return nil, err
		}

		frames = append(frames, scale(frame, o.CompressRate))
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRangeFrames, rng.Label())
	}

	return stack(frames, o.Vertical), nil
}

func (r *Result) frame(id int) (image.Image, error) {
	path := filepath.Join(r.framesDir, fmt.Sprintf(r.pattern, id))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %d: %w", id, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", id, err)
	}

	return img, nil
}

// stack concatenates frames left to right, or top to bottom when vertical.
func stack(frames []image.Image, vertical bool) image.Image {
	var width, height int

	for _, f := range frames {
		b := f.Bounds()
		if vertical {
			width = max(width, b.Dx())
			height += b.Dy()
		} else {
			width += b.Dx()
			height = max(height, b.Dy())
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	var offset int

	for _, f := range frames {
		b := f.Bounds()

		var at image.Point
		if vertical {
			at = image.Pt(0, offset)
			offset += b.Dy()
		} else {
			at = image.Pt(offset, 0)
			offset += b.Dx()
		}

		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, f, b.Min, draw.Src)
	}

	return dst
}

// scale resizes img by rate with nearest-neighbour sampling.
func scale(img image.Image, rate float64) image.Image {
	if rate <= 0 || rate == 1 {
		return img
	}

	src := img.Bounds()
	w := max(int(float64(src.Dx())*rate), 1)
	h := max(int(float64(src.Dy())*rate), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := range h {
		sy := src.Min.Y + y*src.Dy()/h
		for x := range w {
			sx := src.Min.X + x*src.Dx()/w
			dst.Set(x, y, img.At(sx, sy))
		}
	}

	return dst
}
