package ports

import (
	"image"
	"io"
)

// ImageEncoder serializes one captured frame to a file format.
type ImageEncoder interface {
	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error

	// Extension returns the file extension without the leading dot.
	Extension() string
}
