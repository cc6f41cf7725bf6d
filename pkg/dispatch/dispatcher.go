// Package dispatch samples frames from a frame source into the active
// session's queue without ever blocking the caller.
package dispatch

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"golang.org/x/image/draw"

	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
	"github.com/user/framerec/pkg/session"
)

// Counters is a snapshot of capture outcomes.
type Counters struct {
	Accepted     uint64
	NotRecording uint64
	QueueFull    uint64
	RateLimited  uint64
	OutOfBounds  uint64
	ReadFailed   uint64
	ExecutorBusy uint64
	// Stopped counts reads that finished after the session stopped accepting.
	Stopped uint64
}

// Dropped returns the number of capture requests that did not produce a frame.
func (c Counters) Dropped() uint64 {
	return c.NotRecording + c.QueueFull + c.RateLimited + c.OutOfBounds + c.ReadFailed + c.ExecutorBusy + c.Stopped
}

// Config configures a Dispatcher.
type Config struct {
	// Source is used by Capture. CaptureFrom takes an explicit source.
	Source ports.FrameSource
	// Reads runs pixel reads on the source's execution context.
	Reads ports.Executor
	// Now returns the capture timestamp. Defaults to time.Now.
	Now func() time.Time
	// Context is passed to ReadPixels. Defaults to context.Background().
	Context context.Context
}

// Dispatcher turns capture requests into frame write tasks.
type Dispatcher struct {
	ctrl   *session.Controller
	source ports.FrameSource
	reads  ports.Executor
	now    func() time.Time
	ctx    context.Context
	logger ports.Logger

	accepted     atomic.Uint64
	notRecording atomic.Uint64
	queueFull    atomic.Uint64
	rateLimited  atomic.Uint64
	outOfBounds  atomic.Uint64
	readFailed   atomic.Uint64
	executorBusy atomic.Uint64
	stopped      atomic.Uint64
}

// New creates a dispatcher feeding the sessions of ctrl.
func New(ctrl *session.Controller, logger ports.Logger, cfg Config) *Dispatcher {
	d := &Dispatcher{
		ctrl:   ctrl,
		source: cfg.Source,
		reads:  cfg.Reads,
		now:    cfg.Now,
		ctx:    cfg.Context,
		logger: logger.WithComponent("dispatch"),
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.ctx == nil {
		d.ctx = context.Background()
	}
	return d
}

// Capture samples the configured source. A nil region captures the full frame.
func (d *Dispatcher) Capture(region *pipeline.Region) {
	d.CaptureFrom(d.source, region)
}

// CaptureFrom samples src. It never blocks and never reports errors;
// every outcome is reflected in Counters.
func (d *Dispatcher) CaptureFrom(src ports.FrameSource, region *pipeline.Region) {
	s := d.ctrl.Accepting()
	if s == nil || src == nil {
		d.notRecording.Add(1)
		return
	}
	if s.Queue.IsFull() {
		d.queueFull.Add(1)
		return
	}
	if !s.Limiter.Allow(d.now()) {
		d.rateLimited.Add(1)
		return
	}

	var r pipeline.Region
	if region != nil {
		r = *region
	}

	read := func() { d.read(s, src, r) }
	if d.reads == nil {
		read()
		return
	}
	if !d.reads.Submit(read) {
		d.executorBusy.Add(1)
		d.logger.Debug("Read executor busy, frame dropped")
	}
}

func (d *Dispatcher) read(s *session.Session, src ports.FrameSource, r pipeline.Region) {
	w, h := src.Extent()
	rect, ok := r.Rect(w, h)
	if !ok {
		d.outOfBounds.Add(1)
		d.logger.Debug("Region %d,%d %dx%d outside %dx%d, skipped", r.Left, r.Top, r.Width, r.Height, w, h)
		return
	}

	img, err := src.ReadPixels(d.ctx, rect)
	if err != nil {
		d.readFailed.Add(1)
		d.logger.Debug("Read pixels failed: %v", err)
		return
	}
	img = normalize(img)

	if _, ok := s.Queue.EnqueueNext(img, s.NextSequence); !ok {
		if s.Queue.Closed() {
			d.stopped.Add(1)
		} else {
			d.queueFull.Add(1)
		}
		return
	}
	d.accepted.Add(1)
}

// normalize rebases img to (0,0) when a source returns a sub-image.
func normalize(img *image.RGBA) *image.RGBA {
	if img == nil || img.Bounds().Min == (image.Point{}) {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Counters returns a snapshot of capture outcomes.
func (d *Dispatcher) Counters() Counters {
	return Counters{
		Accepted:     d.accepted.Load(),
		NotRecording: d.notRecording.Load(),
		QueueFull:    d.queueFull.Load(),
		RateLimited:  d.rateLimited.Load(),
		OutOfBounds:  d.outOfBounds.Load(),
		ReadFailed:   d.readFailed.Load(),
		ExecutorBusy: d.executorBusy.Load(),
		Stopped:      d.stopped.Load(),
	}
}
