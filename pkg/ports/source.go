package ports

import (
	"context"
	"image"
)

// FrameSource is the render surface frames are sampled from.
// ReadPixels may only be safe on a specific thread; callers route it
// through an Executor.
type FrameSource interface {
	// Extent returns the current drawable size in pixels.
	Extent() (width, height int)

	// ReadPixels copies the given rectangle into a new RGBA buffer
	// whose bounds start at (0,0).
	ReadPixels(ctx context.Context, rect image.Rectangle) (*image.RGBA, error)
}
