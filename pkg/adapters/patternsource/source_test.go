package patternsource

import (
	"bytes"
	"context"
	"image"
	"testing"
)

func TestSource_Extent(t *testing.T) {
	s := New(320, 180)
	w, h := s.Extent()
	if w != 320 || h != 180 {
		t.Errorf("Extent() = %dx%d, want 320x180", w, h)
	}
	s.Resize(640, 360)
	w, h = s.Extent()
	if w != 640 || h != 360 {
		t.Errorf("Extent() after resize = %dx%d", w, h)
	}
}

func TestSource_ReadPixelsFullFrame(t *testing.T) {
	s := New(160, 90)
	img, err := s.ReadPixels(context.Background(), image.Rect(0, 0, 160, 90))
	if err != nil {
		t.Fatalf("ReadPixels failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 160, 90) {
		t.Errorf("bounds = %v", img.Bounds())
	}
}

func TestSource_ReadPixelsRegion(t *testing.T) {
	s := New(160, 90)
	img, err := s.ReadPixels(context.Background(), image.Rect(10, 5, 50, 25))
	if err != nil {
		t.Fatalf("ReadPixels failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Errorf("bounds = %v, want 40x20 at origin", img.Bounds())
	}
	// top-left of the first colour bar is light grey
	if c := img.RGBAAt(0, 0); c.R != 192 || c.G != 192 || c.B != 192 {
		t.Errorf("pixel = %v, want colour bar", c)
	}
}

func TestSource_ReadPixelsOutside(t *testing.T) {
	s := New(100, 100)
	if _, err := s.ReadPixels(context.Background(), image.Rect(50, 50, 150, 100)); err == nil {
		t.Error("expected error for rect outside extent")
	}
}

func TestSource_ReadPixelsCanceled(t *testing.T) {
	s := New(100, 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.ReadPixels(ctx, image.Rect(0, 0, 10, 10)); err == nil {
		t.Error("expected context error")
	}
}

func TestSource_StepChangesFrame(t *testing.T) {
	s := New(120, 120)
	rect := image.Rect(0, 0, 120, 120)

	a, _ := s.ReadPixels(context.Background(), rect)
	if s.Step() != 1 {
		t.Fatal("Step() should return 1")
	}
	for i := 0; i < 6; i++ {
		s.Step()
	}
	b, _ := s.ReadPixels(context.Background(), rect)

	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("frame did not change after stepping the animation")
	}
}
