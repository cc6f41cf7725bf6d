// Package screensource captures frames from the desktop using
// vova616/screenshot.
package screensource

import (
	"context"
	"fmt"
	"image"

	"github.com/vova616/screenshot"
	"golang.org/x/image/draw"

	"github.com/user/framerec/pkg/ports"
)

// CaptureFunc grabs a rectangle in absolute screen coordinates.
type CaptureFunc func(rect image.Rectangle) (*image.RGBA, error)

// Source reads pixels from the primary screen.
type Source struct {
	bounds  image.Rectangle
	capture CaptureFunc
}

// New creates a screen source sized to the current screen.
func New() (*Source, error) {
	rect, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screensource: query screen size: %w", err)
	}
	return NewWithCapture(rect, screenshot.CaptureRect), nil
}

// NewWithCapture creates a source over screen bounds that reads through
// capture.
func NewWithCapture(bounds image.Rectangle, capture CaptureFunc) *Source {
	return &Source{bounds: bounds, capture: capture}
}

// Extent implements ports.FrameSource.
func (s *Source) Extent() (int, int) {
	return s.bounds.Dx(), s.bounds.Dy()
}

// ReadPixels implements ports.FrameSource. rect is relative to the
// top-left of the screen and the result starts at (0,0).
func (s *Source) ReadPixels(ctx context.Context, rect image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := s.Extent()
	if rect.Empty() || !rect.In(image.Rect(0, 0, w, h)) {
		return nil, fmt.Errorf("screensource: %v outside %dx%d screen", rect, w, h)
	}
	img, err := s.capture(rect.Add(s.bounds.Min))
	if err != nil {
		return nil, fmt.Errorf("screensource: capture %v: %w", rect, err)
	}
	if img.Bounds().Min == (image.Point{}) {
		return img, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

var _ ports.FrameSource = (*Source)(nil)
