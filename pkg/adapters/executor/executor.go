// Package executor provides ports.Executor implementations for the
// execution contexts frames are read and completions are delivered on.
package executor

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/faiface/mainthread"

	"github.com/user/framerec/pkg/ports"
)

// Inline runs functions on the submitting goroutine.
type Inline struct{}

// Submit runs fn immediately.
func (Inline) Submit(fn func()) bool {
	fn()
	return true
}

// DefaultLoopCapacity is the number of pending functions a Loop buffers.
const DefaultLoopCapacity = 16

// Loop runs functions in order on one goroutine locked to its OS thread,
// like a render or UI thread.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewLoop starts a loop buffering up to capacity pending functions.
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = DefaultLoopCapacity
	}
	l := &Loop{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.done)
	for fn := range l.tasks {
		fn()
	}
}

// Submit queues fn. It returns false if the buffer is full or the loop is closed.
func (l *Loop) Submit(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	default:
		return false
	}
}

// Close stops accepting work, runs what is queued, and waits for the loop to exit.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.tasks)
		l.mu.Unlock()
	})
	<-l.done
}

// MainThread submits functions to the process main thread through
// faiface/mainthread. The program must run inside mainthread.Run.
type MainThread struct {
	limit    int64
	inflight atomic.Int64
}

// NewMainThread creates a main-thread executor. At most limit functions may
// be pending; later submissions are refused instead of blocking.
func NewMainThread(limit int) *MainThread {
	if limit <= 0 || limit > mainthread.CallQueueCap {
		limit = mainthread.CallQueueCap
	}
	return &MainThread{limit: int64(limit)}
}

// Submit queues fn on the main thread without waiting for it to run.
func (m *MainThread) Submit(fn func()) bool {
	if m.inflight.Add(1) > m.limit {
		m.inflight.Add(-1)
		return false
	}
	mainthread.CallNonBlock(func() {
		defer m.inflight.Add(-1)
		fn()
	})
	return true
}

var (
	_ ports.Executor = Inline{}
	_ ports.Executor = (*Loop)(nil)
	_ ports.Executor = (*MainThread)(nil)
)
