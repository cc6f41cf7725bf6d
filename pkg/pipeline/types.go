package pipeline

import (
	"fmt"
	"image"
	"time"
)

// =============================================================================
// Capture Types
// =============================================================================

// Region is an optional capture rectangle in frame-source pixels.
// A region with zero (or negative) width or height means the full extent.
type Region struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// FullFrame reports whether the region selects the whole frame source.
func (r Region) FullFrame() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Rect returns the region resolved against a frame source of the given extent.
// ok is false when the region does not fit inside the extent.
func (r Region) Rect(extentW, extentH int) (rect image.Rectangle, ok bool) {
	if r.FullFrame() {
		if extentW <= 0 || extentH <= 0 {
			return image.Rectangle{}, false
		}
		return image.Rect(0, 0, extentW, extentH), true
	}
	if r.Left < 0 || r.Top < 0 {
		return image.Rectangle{}, false
	}
	if r.Width > extentW-r.Left || r.Height > extentH-r.Top {
		return image.Rectangle{}, false
	}
	return image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height), true
}

// ParseRegion parses "left,top,width,height".
func ParseRegion(s string) (Region, error) {
	var r Region
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &r.Left, &r.Top, &r.Width, &r.Height); err != nil {
		return Region{}, fmt.Errorf("parse region %q: %w", s, err)
	}
	return r, nil
}

// FrameWriteTask is a captured pixel buffer waiting to be persisted.
// Once enqueued it is owned by the queue, then by the persistence worker.
type FrameWriteTask struct {
	Image    *image.RGBA
	Width    int
	Height   int
	Sequence uint64
}

// NewFrameWriteTask builds a task from a pixel buffer and its sequence number.
func NewFrameWriteTask(img *image.RGBA, seq uint64) FrameWriteTask {
	b := img.Bounds()
	return FrameWriteTask{
		Image:    img,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Sequence: seq,
	}
}

// =============================================================================
// Persistence Types
// =============================================================================

// FramePrefix and SequenceDigits define the temporary frame file layout:
// Frame_00001.bmp, Frame_00002.bmp, ...
const (
	FramePrefix    = "Frame_"
	SequenceDigits = 5
)

// FrameFileName returns the file name for a sequence number and extension.
func FrameFileName(seq uint64, ext string) string {
	return fmt.Sprintf("%s%0*d.%s", FramePrefix, SequenceDigits, seq, ext)
}

// FramePattern returns the printf-style input pattern understood by the encoder.
func FramePattern(ext string) string {
	return fmt.Sprintf("%s%%0%dd.%s", FramePrefix, SequenceDigits, ext)
}

// =============================================================================
// Finalize Stage Types
// =============================================================================

// DefaultEncoderParams is used when the caller passes an empty parameter string.
const DefaultEncoderParams = "-c:v libx264 -pix_fmt yuv420p"

// OutputTimeFormat is the timestamp layout of auto-generated output names.
const OutputTimeFormat = "2006.01.02-15.04.05"

// FinalizeInput contains everything the finalizer needs after capture stops.
type FinalizeInput struct {
	SessionID     string
	TempDir       string
	ImageExt      string
	OutputPath    string // empty: auto-generated under OutputDir
	OutputDir     string
	FrameRate     int
	EncoderParams string // empty: DefaultEncoderParams
}

// FinalizeResult describes a finished encode.
type FinalizeResult struct {
	OutputPath    string
	Args          []string
	FramesWritten uint64
	WriteFailures uint64
	FramesEncoded int
	ExitCode      int
	Artifact      *ArtifactInfo
	Elapsed       time.Duration
}

// ArtifactInfo describes the encoded output file.
type ArtifactInfo struct {
	Codec       string
	Width       int
	Height      int
	SampleCount int
	DurationMs  int
	FileSize    int64
}
