package mocks

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/user/framerec/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource that returns
// solid frames of a fixed size.
type FrameSource struct {
	mu     sync.Mutex
	Width  int
	Height int
	Fill   color.RGBA

	ReadPixelsFunc func(ctx context.Context, rect image.Rectangle) (*image.RGBA, error)

	ReadCalls []image.Rectangle
}

// NewFrameSource creates a mock source with the given extent.
func NewFrameSource(width, height int) *FrameSource {
	return &FrameSource{
		Width:  width,
		Height: height,
		Fill:   color.RGBA{R: 200, G: 40, B: 40, A: 255},
	}
}

func (m *FrameSource) Extent() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Width, m.Height
}

func (m *FrameSource) ReadPixels(ctx context.Context, rect image.Rectangle) (*image.RGBA, error) {
	m.mu.Lock()
	m.ReadCalls = append(m.ReadCalls, rect)
	fill := m.Fill
	m.mu.Unlock()

	if m.ReadPixelsFunc != nil {
		return m.ReadPixelsFunc(ctx, rect)
	}
	img := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = fill.A
	}
	return img, nil
}

// Reads returns the number of ReadPixels calls.
func (m *FrameSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ReadCalls)
}

var _ ports.FrameSource = (*FrameSource)(nil)
