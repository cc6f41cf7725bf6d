// Package imagecodec serializes captured frames to image files.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"sync"

	"golang.org/x/image/bmp"

	"github.com/user/framerec/pkg/ports"
)

// ErrUnsupportedFormat is returned for an unknown format name.
var ErrUnsupportedFormat = errors.New("imagecodec: unsupported format")

// Format names accepted by New.
const (
	FormatBMP  = "bmp"
	FormatPNG  = "png"
	FormatJPEG = "jpg"
)

// DefaultJPEGQuality is used when the quality passed to New is out of range.
const DefaultJPEGQuality = 90

// New returns an encoder for format ("bmp", "png", "jpg"/"jpeg").
// quality only applies to JPEG.
func New(format string, quality int) (ports.ImageEncoder, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", FormatBMP:
		return BMP{}, nil
	case FormatPNG:
		return NewPNG(png.BestSpeed), nil
	case FormatJPEG, "jpeg":
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return JPEG{Quality: quality}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// BMP writes uncompressed 24-bit bitmaps.
type BMP struct{}

// Encode implements ports.ImageEncoder.
func (BMP) Encode(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}

// Extension implements ports.ImageEncoder.
func (BMP) Extension() string { return FormatBMP }

// PNG writes PNG files, reusing encoder buffers between frames.
type PNG struct {
	enc *png.Encoder
}

type bufferPool struct{ sync.Pool }

func (p *bufferPool) Get() *png.EncoderBuffer  { return p.Pool.Get().(*png.EncoderBuffer) }
func (p *bufferPool) Put(b *png.EncoderBuffer) { p.Pool.Put(b) }

// NewPNG creates a PNG encoder with the given compression level.
func NewPNG(level png.CompressionLevel) *PNG {
	pool := &bufferPool{sync.Pool{New: func() interface{} { return &png.EncoderBuffer{} }}}
	return &PNG{enc: &png.Encoder{CompressionLevel: level, BufferPool: pool}}
}

// Encode implements ports.ImageEncoder.
func (p *PNG) Encode(w io.Writer, img image.Image) error {
	if err := p.enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// Extension implements ports.ImageEncoder.
func (p *PNG) Extension() string { return FormatPNG }

// JPEG writes lossy JPEG files.
type JPEG struct {
	Quality int
}

// Encode implements ports.ImageEncoder.
func (j JPEG) Encode(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: j.Quality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}
	return nil
}

// Extension implements ports.ImageEncoder.
func (JPEG) Extension() string { return FormatJPEG }

// Decode decodes BMP, PNG or JPEG data, detecting the format from its header.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// DecodeRGBA decodes data into an RGBA buffer anchored at (0,0).
func DecodeRGBA(data []byte) (*image.RGBA, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA converts img to an RGBA buffer anchored at (0,0), copying only
// when needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

var (
	_ ports.ImageEncoder = BMP{}
	_ ports.ImageEncoder = (*PNG)(nil)
	_ ports.ImageEncoder = JPEG{}
)
