package cutresult_test

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/pkg/cutresult"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

const (
	frameWidth  = 8
	frameHeight = 4
)

func writeFrames(t *testing.T, dir string, ids ...int) {
	t.Helper()

	for _, id := range ids {
		img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
		for y := range frameHeight {
			for x := range frameWidth {
				img.Set(x, y, color.RGBA{R: uint8(id * 10), A: 255})
			}
		}

		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("%d.png", id)))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, img))
		require.NoError(t, f.Close())
	}
}

func sampleRanges() []stage.SimilarityRange {
	return []stage.SimilarityRange{
		{Start: 1, End: 2, StartTime: 0, EndTime: 0.1, SSIM: 0.99, MSE: 0.1, PSNR: 40},
		{Start: 3, End: 5, StartTime: 0.2, EndTime: 0.4, SSIM: 0.6, MSE: 12, PSNR: 18},
		{Start: 6, End: 7, StartTime: 0.5, EndTime: 0.6, SSIM: 0.97, MSE: 0.3, PSNR: 35},
	}
}

func TestSplitRanges_PreservesOrder(t *testing.T) {
	t.Parallel()

	res, err := cutresult.New(sampleRanges(), t.TempDir(), "")
	require.NoError(t, err)

	stable, unstable := res.SplitRanges()
	require.Len(t, stable, 2)
	require.Len(t, unstable, 1)

	assert.Equal(t, 1, stable[0].Start)
	assert.Equal(t, 6, stable[1].Start)
	assert.Equal(t, 3, unstable[0].Start)
	assert.Len(t, res.Ranges(), 3)
}

func TestNew_InvalidThreshold(t *testing.T) {
	t.Parallel()

	_, err := cutresult.New(nil, "", "", cutresult.WithThreshold(1.5))
	require.ErrorIs(t, err, cutresult.ErrInvalidThreshold)
}

func TestThumbnail_Horizontal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFrames(t, dir, 3, 4, 5)

	res, err := cutresult.New(sampleRanges(), dir, "")
	require.NoError(t, err)

	img, err := res.Thumbnail(sampleRanges()[1])
	require.NoError(t, err)

	assert.Equal(t, 3*frameWidth, img.Bounds().Dx())
	assert.Equal(t, frameHeight, img.Bounds().Dy())
}

func TestThumbnail_VerticalCompressedStepped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFrames(t, dir, 3, 5)

	res, err := cutresult.New(sampleRanges(), dir, "",
		cutresult.WithThumbnailDefaults(stage.WithCompressRate(0.5)))
	require.NoError(t, err)

	img, err := res.Thumbnail(sampleRanges()[1], stage.WithVertical(true), stage.WithStep(2))
	require.NoError(t, err)

	assert.Equal(t, frameWidth/2, img.Bounds().Dx())
	assert.Equal(t, 2*(frameHeight/2), img.Bounds().Dy())
}

func TestThumbnail_MissingFrame(t *testing.T) {
	t.Parallel()

	res, err := cutresult.New(sampleRanges(), t.TempDir(), "")
	require.NoError(t, err)

	_, err = res.Thumbnail(sampleRanges()[0])
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestThumbnail_EmptyRange(t *testing.T) {
	t.Parallel()

	res, err := cutresult.New(nil, t.TempDir(), "")
	require.NoError(t, err)

	_, err = res.Thumbnail(stage.SimilarityRange{Start: 5, End: 4})
	require.ErrorIs(t, err, cutresult.ErrRangeFrames)
}

func TestLoad_YAMLRelativeFramesDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	framesDir := filepath.Join(dir, "frames")
	require.NoError(t, os.Mkdir(framesDir, 0o750))
	writeFrames(t, framesDir, 3, 4, 5)

	doc := `frames_dir: frames
ranges:
  - {start: 3, end: 5, start_time: 0.2, end_time: 0.4, ssim: 0.5, mse: 10, psnr: 20}
`
	path := filepath.Join(dir, "cut.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	res, err := cutresult.Load(path, cutresult.WithThreshold(0.9))
	require.NoError(t, err)
	assert.InDelta(t, 0.9, res.Threshold(), 1e-9)

	_, unstable := res.SplitRanges()
	require.Len(t, unstable, 1)

	img, err := res.Thumbnail(unstable[0])
	require.NoError(t, err)
	assert.Equal(t, 3*frameWidth, img.Bounds().Dx())
}
