// Package framequeue implements the bounded hand-off between capture
// producers and the persistence worker.
package framequeue

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/user/framerec/pkg/pipeline"
)

// DefaultCapacity is the number of frames buffered before captures are dropped.
const DefaultCapacity = 60

// Queue is a bounded FIFO of frame write tasks. Any number of goroutines
// may enqueue; a single consumer dequeues. Enqueue never blocks.
type Queue struct {
	mu       sync.Mutex
	items    []pipeline.FrameWriteTask
	capacity int
	closed   bool

	// size mirrors len(items) for lock-free IsFull/Size checks on the hot path.
	size atomic.Int64
	wake chan struct{}
}

// New creates a queue holding at most capacity tasks.
// A capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		items:    make([]pipeline.FrameWriteTask, 0, capacity),
		capacity: capacity,
		wake:     make(chan struct{}, 1),
	}
}

// Capacity returns the maximum number of queued tasks.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Enqueue appends task. It returns false if the queue is full or closed.
func (q *Queue) Enqueue(task pipeline.FrameWriteTask) bool {
	q.mu.Lock()
	if q.closed || len(q.items) >= q.capacity {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, task)
	q.size.Store(int64(len(q.items)))
	q.mu.Unlock()

	q.signal()
	return true
}

// EnqueueNext assigns the sequence number returned by next and appends the
// task in one step, so queue order always matches sequence order. next is
// called only when the task is accepted.
func (q *Queue) EnqueueNext(img *image.RGBA, next func() uint64) (pipeline.FrameWriteTask, bool) {
	q.mu.Lock()
	if q.closed || len(q.items) >= q.capacity {
		q.mu.Unlock()
		return pipeline.FrameWriteTask{}, false
	}
	task := pipeline.NewFrameWriteTask(img, next())
	q.items = append(q.items, task)
	q.size.Store(int64(len(q.items)))
	q.mu.Unlock()

	q.signal()
	return task, true
}

// Dequeue removes the oldest task. ok is false when the queue is empty.
func (q *Queue) Dequeue() (task pipeline.FrameWriteTask, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return pipeline.FrameWriteTask{}, false
	}
	task = q.items[0]
	n := copy(q.items, q.items[1:])
	q.items[n] = pipeline.FrameWriteTask{}
	q.items = q.items[:n]
	q.size.Store(int64(len(q.items)))
	return task, true
}

// IsFull reports whether an enqueue would be rejected for capacity.
func (q *Queue) IsFull() bool {
	return q.size.Load() >= int64(q.capacity)
}

// Size returns the current number of queued tasks.
func (q *Queue) Size() int {
	return int(q.size.Load())
}

// Wake returns the channel signalled after each successful enqueue and on Close.
func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}

// Close rejects all later enqueues. Tasks already queued stay available
// to Dequeue.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
