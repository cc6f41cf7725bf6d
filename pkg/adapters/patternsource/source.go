// Package patternsource provides a synthetic animated frame source drawn
// with gg. It stands in for a render surface in the CLI and in tests.
package patternsource

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/framerec/pkg/ports"
)

// Source renders a moving test card. Each call to Step advances the
// animation by one render tick.
type Source struct {
	mu     sync.Mutex
	width  int
	height int
	tick   int
	bg     color.Color
}

// New creates a source with the given extent.
func New(width, height int) *Source {
	return &Source{
		width:  width,
		height: height,
		bg:     color.RGBA{R: 24, G: 28, B: 36, A: 255},
	}
}

// Extent implements ports.FrameSource.
func (s *Source) Extent() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize changes the drawable size, as a window resize would.
func (s *Source) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// Step advances the animation and returns the new tick.
func (s *Source) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick++
	return s.tick
}

// Tick returns the current animation tick.
func (s *Source) Tick() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// ReadPixels implements ports.FrameSource.
func (s *Source) ReadPixels(ctx context.Context, rect image.Rectangle) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	w, h, tick := s.width, s.height, s.tick
	s.mu.Unlock()

	if !rect.In(image.Rect(0, 0, w, h)) || rect.Empty() {
		return nil, fmt.Errorf("patternsource: rect %v outside %dx%d", rect, w, h)
	}

	frame := s.render(w, h, tick)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), frame, rect.Min, draw.Src)
	return out, nil
}

func (s *Source) render(w, h, tick int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetColor(s.bg)
	dc.Clear()

	// colour bars
	bars := []color.RGBA{
		{R: 192, G: 192, B: 192, A: 255},
		{R: 192, G: 192, B: 0, A: 255},
		{R: 0, G: 192, B: 192, A: 255},
		{R: 0, G: 192, B: 0, A: 255},
		{R: 192, G: 0, B: 192, A: 255},
		{R: 192, G: 0, B: 0, A: 255},
		{R: 0, G: 0, B: 192, A: 255},
	}
	barW := float64(w) / float64(len(bars))
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barW, 0, barW, float64(h)/3)
		dc.Fill()
	}

	// ball bouncing on a sine path
	phase := float64(tick) / 30 * 2 * math.Pi
	r := math.Max(4, float64(min(w, h))/12)
	x := r + (float64(w)-2*r)*(0.5+0.5*math.Sin(phase))
	y := float64(h)*2/3 + (float64(h)/6-r)*math.Cos(phase*2)
	dc.SetRGB(1, 0.5, 0)
	dc.DrawCircle(x, y, r)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", tick), float64(w)/2, float64(h)/2, 0.5, 0.5)

	return dc.Image()
}

var _ ports.FrameSource = (*Source)(nil)
