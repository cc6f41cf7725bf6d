package mocks

import (
	"fmt"
	"image"
	"io"

	"github.com/user/framerec/pkg/ports"
)

// ImageEncoder is a mock implementation of ports.ImageEncoder. It writes a
// short text record of the image size instead of real image data.
type ImageEncoder struct {
	Ext        string
	EncodeFunc func(w io.Writer, img image.Image) error
}

func (m *ImageEncoder) Encode(w io.Writer, img image.Image) error {
	if m.EncodeFunc != nil {
		return m.EncodeFunc(w, img)
	}
	b := img.Bounds()
	_, err := fmt.Fprintf(w, "%dx%d", b.Dx(), b.Dy())
	return err
}

func (m *ImageEncoder) Extension() string {
	if m.Ext == "" {
		return "bmp"
	}
	return m.Ext
}

var _ ports.ImageEncoder = (*ImageEncoder)(nil)
