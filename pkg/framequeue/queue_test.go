package framequeue

import (
	"image"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/user/framerec/pkg/pipeline"
	"pgregory.net/rapid"
)

func task(seq uint64) pipeline.FrameWriteTask {
	return pipeline.NewFrameWriteTask(image.NewRGBA(image.Rect(0, 0, 2, 2)), seq)
}

func TestNew_DefaultCapacity(t *testing.T) {
	q := New(0)
	if q.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", q.Capacity(), DefaultCapacity)
	}
}

func TestQueue_RejectsWhenFull(t *testing.T) {
	q := New(3)
	for i := uint64(1); i <= 3; i++ {
		if !q.Enqueue(task(i)) {
			t.Fatalf("enqueue %d rejected", i)
		}
	}
	if !q.IsFull() {
		t.Error("IsFull() = false at capacity")
	}
	if q.Enqueue(task(4)) {
		t.Error("enqueue beyond capacity accepted")
	}
	if q.Size() != 3 {
		t.Errorf("Size() = %d, want 3", q.Size())
	}
}

func TestQueue_FIFO(t *testing.T) {
	q := New(10)
	for i := uint64(1); i <= 5; i++ {
		q.Enqueue(task(i))
	}
	for want := uint64(1); want <= 5; want++ {
		got, ok := q.Dequeue()
		if !ok {
			t.Fatalf("Dequeue() empty, want %d", want)
		}
		if got.Sequence != want {
			t.Errorf("Dequeue() seq = %d, want %d", got.Sequence, want)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue() on empty queue returned ok")
	}
}

func TestQueue_EnqueueNext_RejectDoesNotConsumeSequence(t *testing.T) {
	q := New(1)
	var seq uint64
	next := func() uint64 { seq++; return seq }
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))

	first, ok := q.EnqueueNext(img, next)
	if !ok {
		t.Fatal("first EnqueueNext rejected")
	}
	if first.Sequence != 1 || first.Width != 4 || first.Height != 3 {
		t.Errorf("task = %+v, want seq 1 4x3", first)
	}
	if _, ok := q.EnqueueNext(img, next); ok {
		t.Fatal("EnqueueNext accepted on full queue")
	}
	if seq != 1 {
		t.Errorf("sequence counter = %d after rejection, want 1", seq)
	}

	q.Dequeue()
	second, _ := q.EnqueueNext(img, next)
	if second.Sequence != 2 {
		t.Errorf("second seq = %d, want 2", second.Sequence)
	}
}

func TestQueue_CloseRejectsEnqueueButKeepsItems(t *testing.T) {
	q := New(5)
	q.Enqueue(task(1))
	q.Close()

	if !q.Closed() {
		t.Error("Closed() = false after Close")
	}
	if q.Enqueue(task(2)) {
		t.Error("enqueue accepted after Close")
	}
	if got, ok := q.Dequeue(); !ok || got.Sequence != 1 {
		t.Errorf("Dequeue() = %v, %v; want seq 1", got.Sequence, ok)
	}
}

func TestQueue_WakeSignalled(t *testing.T) {
	q := New(5)
	q.Enqueue(task(1))
	q.Enqueue(task(2))

	select {
	case <-q.Wake():
	default:
		t.Fatal("wake not signalled after enqueue")
	}
	// signals coalesce into a single pending wake
	select {
	case <-q.Wake():
		t.Error("expected a single coalesced wake")
	default:
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const capacity = 60
	q := New(capacity)

	var accepted int64
	var seq atomic.Uint64
	var wg sync.WaitGroup
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, ok := q.EnqueueNext(img, func() uint64 { return seq.Add(1) }); ok {
					atomic.AddInt64(&accepted, 1)
				}
			}
		}()
	}
	wg.Wait()

	if accepted != capacity {
		t.Errorf("accepted = %d, want %d", accepted, capacity)
	}
	if q.Size() != capacity {
		t.Errorf("Size() = %d, want %d", q.Size(), capacity)
	}

	var prev uint64
	for {
		got, ok := q.Dequeue()
		if !ok {
			break
		}
		if got.Sequence != prev+1 {
			t.Fatalf("sequence %d follows %d", got.Sequence, prev)
		}
		prev = got.Sequence
	}
}

func TestQueue_Property_BoundedFIFO(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 16).Draw(rt, "capacity")
		q := New(capacity)

		var model []uint64
		var next uint64
		ops := rapid.SliceOfN(rapid.Bool(), 1, 200).Draw(rt, "ops")
		for _, enqueue := range ops {
			if enqueue {
				next++
				ok := q.Enqueue(task(next))
				if ok != (len(model) < capacity) {
					rt.Fatalf("Enqueue ok=%v with %d/%d queued", ok, len(model), capacity)
				}
				if ok {
					model = append(model, next)
				}
			} else {
				got, ok := q.Dequeue()
				if ok != (len(model) > 0) {
					rt.Fatalf("Dequeue ok=%v with %d queued", ok, len(model))
				}
				if ok {
					if got.Sequence != model[0] {
						rt.Fatalf("Dequeue seq=%d, want %d", got.Sequence, model[0])
					}
					model = model[1:]
				}
			}
			if q.Size() != len(model) {
				rt.Fatalf("Size()=%d, model=%d", q.Size(), len(model))
			}
			if q.Size() > capacity {
				rt.Fatalf("Size()=%d exceeds capacity %d", q.Size(), capacity)
			}
		}
	})
}
