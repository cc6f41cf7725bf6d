package dispatch

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/user/framerec/pkg/adapters/logger"
	"github.com/user/framerec/pkg/framequeue"
	"github.com/user/framerec/pkg/mocks"
	"github.com/user/framerec/pkg/persist"
	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/session"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	ctrl  *session.Controller
	sess  *session.Session
	src   *mocks.FrameSource
	exec  *mocks.Executor
	clock *clock
	d     *Dispatcher
}

func newFixture(t *testing.T, fps, queueSize int) *fixture {
	t.Helper()
	ctrl := session.NewController()
	q := framequeue.New(queueSize)
	w := persist.New(q, mocks.NewFileSystem(), &mocks.ImageEncoder{}, logger.NewNoop(), persist.Config{Dir: "/tmp/f"})
	s := session.New("/tmp/f", "bmp", fps, q, w, time.Unix(0, 0))
	ctrl.TryBegin()
	ctrl.Activate(s)

	f := &fixture{
		ctrl:  ctrl,
		sess:  s,
		src:   mocks.NewFrameSource(64, 48),
		exec:  &mocks.Executor{},
		clock: &clock{t: time.Unix(100, 0)},
	}
	f.d = New(ctrl, logger.NewNoop(), Config{Source: f.src, Reads: f.exec, Now: f.clock.now})
	return f
}

func TestCapture_FullFrame(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.d.Capture(nil)

	task, ok := f.sess.Queue.Dequeue()
	if !ok {
		t.Fatal("no task enqueued")
	}
	if task.Width != 64 || task.Height != 48 || task.Sequence != 1 {
		t.Errorf("task = %dx%d seq %d, want 64x48 seq 1", task.Width, task.Height, task.Sequence)
	}
	if c := f.d.Counters(); c.Accepted != 1 || c.Dropped() != 0 {
		t.Errorf("counters = %+v", c)
	}
}

func TestCapture_ZeroSizeRegionMeansFullFrame(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.d.Capture(&pipeline.Region{Left: 5, Top: 5, Width: 0, Height: 10})

	if f.src.ReadCalls[0] != image.Rect(0, 0, 64, 48) {
		t.Errorf("read rect = %v, want full frame", f.src.ReadCalls[0])
	}
}

func TestCapture_Region(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.d.Capture(&pipeline.Region{Left: 10, Top: 8, Width: 20, Height: 16})

	task, _ := f.sess.Queue.Dequeue()
	if task.Width != 20 || task.Height != 16 {
		t.Errorf("task size = %dx%d, want 20x16", task.Width, task.Height)
	}
	if f.src.ReadCalls[0] != image.Rect(10, 8, 30, 24) {
		t.Errorf("read rect = %v", f.src.ReadCalls[0])
	}
}

func TestCapture_OutOfBoundsSkipped(t *testing.T) {
	tests := []struct {
		name   string
		region pipeline.Region
	}{
		{"right overflow", pipeline.Region{Left: 50, Top: 0, Width: 20, Height: 10}},
		{"bottom overflow", pipeline.Region{Left: 0, Top: 40, Width: 10, Height: 10}},
		{"negative left", pipeline.Region{Left: -1, Top: 0, Width: 10, Height: 10}},
		{"negative top", pipeline.Region{Left: 0, Top: -1, Width: 10, Height: 10}},
		{"width overflows int", pipeline.Region{Left: 10, Top: 0, Width: math.MaxInt, Height: 10}},
		{"height overflows int", pipeline.Region{Left: 0, Top: 10, Width: 10, Height: math.MaxInt}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0, 10)
			r := tt.region
			f.d.Capture(&r)

			if f.sess.Queue.Size() != 0 {
				t.Error("out of bounds region should not enqueue")
			}
			if f.src.Reads() != 0 {
				t.Error("out of bounds region should not read pixels")
			}
			if f.sess.Sequences() != 0 {
				t.Error("skipped capture consumed a sequence number")
			}
			if c := f.d.Counters(); c.OutOfBounds != 1 {
				t.Errorf("OutOfBounds = %d, want 1", c.OutOfBounds)
			}
		})
	}
}

func TestCapture_NotRecording(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.ctrl.Detach()
	f.d.Capture(nil)

	if f.src.Reads() != 0 {
		t.Error("capture after stop must not read")
	}
	if c := f.d.Counters(); c.NotRecording != 1 {
		t.Errorf("NotRecording = %d, want 1", c.NotRecording)
	}
}

func TestCapture_QueueFull(t *testing.T) {
	f := newFixture(t, 0, 2)
	for i := 0; i < 5; i++ {
		f.d.Capture(nil)
	}
	c := f.d.Counters()
	if c.Accepted != 2 || c.QueueFull != 3 {
		t.Errorf("accepted=%d queueFull=%d, want 2/3", c.Accepted, c.QueueFull)
	}
	if f.src.Reads() != 2 {
		t.Errorf("reads = %d; full queue should short-circuit before reading", f.src.Reads())
	}
}

func TestCapture_RateLimited(t *testing.T) {
	f := newFixture(t, 10, 10)

	f.d.Capture(nil)
	f.clock.advance(50 * time.Millisecond)
	f.d.Capture(nil)
	f.clock.advance(100 * time.Millisecond)
	f.d.Capture(nil)

	c := f.d.Counters()
	if c.Accepted != 2 || c.RateLimited != 1 {
		t.Errorf("accepted=%d rateLimited=%d, want 2/1", c.Accepted, c.RateLimited)
	}
}

func TestCapture_ReadFailed(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.src.ReadPixelsFunc = func(context.Context, image.Rectangle) (*image.RGBA, error) {
		return nil, errors.New("context lost")
	}
	f.d.Capture(nil)

	if c := f.d.Counters(); c.ReadFailed != 1 || c.Accepted != 0 {
		t.Errorf("counters = %+v", c)
	}
	if f.sess.Sequences() != 0 {
		t.Error("failed read consumed a sequence number")
	}
}

func TestCapture_ExecutorBusy(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.exec.Reject = true
	f.d.Capture(nil)

	if c := f.d.Counters(); c.ExecutorBusy != 1 {
		t.Errorf("ExecutorBusy = %d, want 1", c.ExecutorBusy)
	}
}

func TestCapture_StoppedBeforeReadCompleted(t *testing.T) {
	f := newFixture(t, 0, 10)
	f.exec.Manual = true
	f.d.Capture(nil)

	f.ctrl.Detach()
	f.sess.Queue.Close()
	f.exec.RunPending()

	if c := f.d.Counters(); c.Stopped != 1 || c.Accepted != 0 {
		t.Errorf("counters = %+v", c)
	}
}

func TestCapture_SequenceMatchesOrder(t *testing.T) {
	f := newFixture(t, 0, 10)
	for i := 0; i < 5; i++ {
		f.d.Capture(nil)
	}
	for want := uint64(1); want <= 5; want++ {
		task, _ := f.sess.Queue.Dequeue()
		if task.Sequence != want {
			t.Errorf("sequence = %d, want %d", task.Sequence, want)
		}
	}
}

func TestNormalize_RebasesSubImage(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 10, 10))
	full.Pix[full.PixOffset(3, 4)] = 255
	sub := full.SubImage(image.Rect(3, 4, 8, 9)).(*image.RGBA)

	out := normalize(sub)
	if out.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out.Pix[0] != 255 {
		t.Error("pixel not copied to origin")
	}
}
