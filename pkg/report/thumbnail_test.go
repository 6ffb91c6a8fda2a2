package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/stagereport/pkg/report"
	"github.com/Sumatoshi-tech/stagereport/pkg/stage"
)

func TestCollectThumbnails(t *testing.T) {
	t.Parallel()

	cut := newFakeCut()

	thumbs, err := report.CollectThumbnails(cut, report.PNGEncoder{}, stage.WithVertical(true), stage.WithCompressRate(0.2))
	require.NoError(t, err)

	require.Len(t, thumbs, 2)
	assert.Equal(t, "11(1.0) - 13(1.2)", thumbs[0].Name)
	assert.Equal(t, "31(3.0) - 32(3.1)", thumbs[1].Name)
	assert.NotEmpty(t, thumbs[0].Data)

	assert.Equal(t, 2, cut.calls)
	assert.True(t, cut.lastOpts.Vertical)
	assert.InDelta(t, 0.2, cut.lastOpts.CompressRate, 1e-9)
}

func TestCollectThumbnails_CutError(t *testing.T) {
	t.Parallel()

	cut := newFakeCut()
	cut.err = errFrames

	_, err := report.CollectThumbnails(cut, report.PNGEncoder{})
	require.ErrorIs(t, err, errFrames)
}

func TestCollectThumbnails_EncodeError(t *testing.T) {
	t.Parallel()

	_, err := report.CollectThumbnails(newFakeCut(), report.PNGEncoder{MaxSize: 1})
	require.ErrorIs(t, err, report.ErrEncode)
}
