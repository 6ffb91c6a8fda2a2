package report

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/dustin/go-humanize"
)

// Encoding errors.
var (
	// ErrEncode indicates an image could not be encoded for embedding.
	ErrEncode = errors.New("encode thumbnail")
	// ErrThumbnailTooLarge indicates an encoded image exceeds the size cap.
	ErrThumbnailTooLarge = fmt.Errorf("%w: image exceeds size limit", ErrEncode)
)

// Encoder turns an image into the string embedded in the document.
type Encoder interface {
	Encode(img image.Image) (string, error)
}

// PNGEncoder encodes images as base64 PNG.
type PNGEncoder struct {
	// MaxSize caps the encoded PNG size in bytes; zero means unlimited.
	MaxSize uint64
}

// Encode implements Encoder.
func (e PNGEncoder) Encode(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("%w: nil image", ErrEncode)
	}

	var buf bytes.Buffer

	err := png.Encode(&buf, img)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}

	size := uint64(buf.Len())
	if e.MaxSize > 0 && size > e.MaxSize {
		return "", fmt.Errorf("%w: %s > %s", ErrThumbnailTooLarge, humanize.Bytes(size), humanize.Bytes(e.MaxSize))
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
