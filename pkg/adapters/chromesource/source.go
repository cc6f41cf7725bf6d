// Package chromesource renders a web page in headless Chrome and exposes
// its viewport as a frame source.
package chromesource

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/framerec/pkg/adapters/imagecodec"
	"github.com/user/framerec/pkg/ports"
)

// ErrNotLaunched is returned by ReadPixels before Launch succeeds.
var ErrNotLaunched = errors.New("chromesource: browser not launched")

// Source is a frame source backed by a chromedp tab.
type Source struct {
	mu          sync.Mutex
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	width       int
	height      int
}

// New creates an unlaunched source.
func New() *Source {
	return &Source{}
}

// allocatorOptions returns the exec allocator flags for opts.
func allocatorOptions(opts Options, chromePath string) []chromedp.ExecAllocatorOption {
	o := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(opts.Width, opts.Height),
	}
	if opts.Headless {
		o = append(o, chromedp.Flag("headless", "new"))
	}
	if chromePath != "" {
		o = append(o, chromedp.ExecPath(chromePath))
	}
	return o
}

// Launch starts Chrome, sizes the viewport and loads opts.URL.
func (s *Source) Launch(ctx context.Context, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("chromesource: invalid viewport %dx%d", opts.Width, opts.Height)
	}
	chromePath, err := opts.ExecPath()
	if err != nil {
		return err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(opts, chromePath)...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	err = chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(int64(opts.Width), int64(opts.Height), 1, false),
		chromedp.Navigate(opts.URL),
	)
	if err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("chromesource: load %s: %w", opts.URL, err)
	}

	s.mu.Lock()
	s.allocCancel, s.ctx, s.cancel = allocCancel, tabCtx, cancel
	s.width, s.height = opts.Width, opts.Height
	s.mu.Unlock()
	return nil
}

// Extent implements ports.FrameSource.
func (s *Source) Extent() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// ReadPixels implements ports.FrameSource by capturing a clipped PNG
// screenshot of the viewport.
func (s *Source) ReadPixels(ctx context.Context, rect image.Rectangle) (*image.RGBA, error) {
	s.mu.Lock()
	tabCtx := s.ctx
	s.mu.Unlock()
	if tabCtx == nil {
		return nil, ErrNotLaunched
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf []byte
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(clipFor(rect)).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("chromesource: capture screenshot: %w", err)
	}
	return imagecodec.DecodeRGBA(buf)
}

func clipFor(rect image.Rectangle) *page.Viewport {
	return &page.Viewport{
		X:      float64(rect.Min.X),
		Y:      float64(rect.Min.Y),
		Width:  float64(rect.Dx()),
		Height: float64(rect.Dy()),
		Scale:  1,
	}
}

// Close shuts the browser down.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.ctx = nil
	return nil
}

var _ ports.FrameSource = (*Source)(nil)
