package screensource

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

// fakeScreen returns a capture func over a virtual desktop whose pixel at
// absolute (x, y) is {x, y, 0, 255}. Captured images keep absolute bounds,
// as sub-images of a larger framebuffer do.
func fakeScreen(t *testing.T, desktop image.Rectangle, calls *[]image.Rectangle) CaptureFunc {
	t.Helper()
	fb := image.NewRGBA(desktop)
	for y := desktop.Min.Y; y < desktop.Max.Y; y++ {
		for x := desktop.Min.X; x < desktop.Max.X; x++ {
			fb.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return func(rect image.Rectangle) (*image.RGBA, error) {
		*calls = append(*calls, rect)
		return fb.SubImage(rect).(*image.RGBA), nil
	}
}

func TestSource_Extent(t *testing.T) {
	s := NewWithCapture(image.Rect(100, 50, 420, 290), nil)
	if w, h := s.Extent(); w != 320 || h != 240 {
		t.Errorf("Extent() = %dx%d, want 320x240", w, h)
	}
}

func TestSource_ReadPixelsOffsetsByScreenOrigin(t *testing.T) {
	var calls []image.Rectangle
	screen := image.Rect(100, 50, 420, 290)
	s := NewWithCapture(screen, fakeScreen(t, screen, &calls))

	img, err := s.ReadPixels(context.Background(), image.Rect(10, 20, 30, 40))
	if err != nil {
		t.Fatalf("ReadPixels failed: %v", err)
	}
	if len(calls) != 1 || calls[0] != image.Rect(110, 70, 130, 90) {
		t.Errorf("capture rects = %v, want [(110,70)-(130,90)]", calls)
	}
	if img.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v, want rebased to origin", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 110, G: 70, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want screen pixel (110,70)", got)
	}
	if got := img.RGBAAt(19, 19); got != (color.RGBA{R: 129, G: 89, A: 255}) {
		t.Errorf("pixel (19,19) = %v, want screen pixel (129,89)", got)
	}
}

func TestSource_ReadPixelsAtOriginIsNotCopied(t *testing.T) {
	var calls []image.Rectangle
	screen := image.Rect(0, 0, 64, 48)
	s := NewWithCapture(screen, fakeScreen(t, screen, &calls))

	img, err := s.ReadPixels(context.Background(), screen)
	if err != nil {
		t.Fatalf("ReadPixels failed: %v", err)
	}
	if img.Bounds() != screen {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestSource_ReadPixelsOutside(t *testing.T) {
	var calls []image.Rectangle
	screen := image.Rect(0, 0, 64, 48)
	s := NewWithCapture(screen, fakeScreen(t, screen, &calls))

	for _, rect := range []image.Rectangle{
		image.Rect(60, 0, 70, 10),
		image.Rect(-1, 0, 10, 10),
		image.Rect(5, 5, 5, 5),
	} {
		if _, err := s.ReadPixels(context.Background(), rect); err == nil {
			t.Errorf("ReadPixels(%v) should fail", rect)
		}
	}
	if len(calls) != 0 {
		t.Errorf("capture called for invalid rects: %v", calls)
	}
}

func TestSource_ReadPixelsCaptureError(t *testing.T) {
	captureErr := errors.New("no display")
	s := NewWithCapture(image.Rect(0, 0, 10, 10), func(image.Rectangle) (*image.RGBA, error) {
		return nil, captureErr
	})

	if _, err := s.ReadPixels(context.Background(), image.Rect(0, 0, 5, 5)); !errors.Is(err, captureErr) {
		t.Errorf("expected capture error, got %v", err)
	}
}

func TestSource_ReadPixelsCanceled(t *testing.T) {
	var calls []image.Rectangle
	screen := image.Rect(0, 0, 10, 10)
	s := NewWithCapture(screen, fakeScreen(t, screen, &calls))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.ReadPixels(ctx, image.Rect(0, 0, 5, 5)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(calls) != 0 {
		t.Error("capture called after cancel")
	}
}
