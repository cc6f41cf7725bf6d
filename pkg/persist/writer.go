// Package persist drains the frame queue to numbered image files on a
// single background goroutine.
package persist

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framerec/pkg/framequeue"
	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
)

// DefaultIdleWait bounds how long the worker sleeps on an empty queue
// before re-checking for stop.
const DefaultIdleWait = time.Second

// Config configures a Writer.
type Config struct {
	// Dir is the session temp directory frames are written into.
	Dir string
	// IdleWait is the maximum wait on an empty queue. Zero uses DefaultIdleWait.
	IdleWait time.Duration
}

// Writer is the persistence worker of one recording session.
type Writer struct {
	queue   *framequeue.Queue
	fs      ports.FileSystem
	encoder ports.ImageEncoder
	logger  ports.Logger
	dir     string
	idle    time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}

	written atomic.Uint64
	failed  atomic.Uint64
	lastSeq atomic.Uint64

	// buf is only touched by the worker goroutine.
	buf bytes.Buffer
}

// New creates a writer for queue. Start must be called to launch the worker.
func New(queue *framequeue.Queue, fs ports.FileSystem, encoder ports.ImageEncoder, logger ports.Logger, cfg Config) *Writer {
	idle := cfg.IdleWait
	if idle <= 0 {
		idle = DefaultIdleWait
	}
	return &Writer{
		queue:   queue,
		fs:      fs,
		encoder: encoder,
		logger:  logger.WithComponent("persist"),
		dir:     cfg.Dir,
		idle:    idle,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. Calling Start more than once has no effect.
func (w *Writer) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	w.logger.Debug("Persistence worker started: %s", w.dir)
	go w.run()
}

// Stop asks the worker to finish, then blocks until every queued frame
// has been written and the goroutine has exited.
func (w *Writer) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	if !w.started.Load() {
		// never launched: drain on the caller so no frame is lost
		if w.started.CompareAndSwap(false, true) {
			w.drain()
			close(w.done)
		}
	}
	<-w.done
}

// Done is closed once the worker has exited.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Written returns the number of frames stored successfully.
func (w *Writer) Written() uint64 {
	return w.written.Load()
}

// Failed returns the number of frames that could not be stored.
func (w *Writer) Failed() uint64 {
	return w.failed.Load()
}

// LastSequence returns the highest sequence number written successfully.
func (w *Writer) LastSequence() uint64 {
	return w.lastSeq.Load()
}

// Dir returns the directory frames are written into.
func (w *Writer) Dir() string {
	return w.dir
}

func (w *Writer) run() {
	defer close(w.done)

	timer := time.NewTimer(w.idle)
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			w.drain()
			return
		default:
		}

		if task, ok := w.queue.Dequeue(); ok {
			w.write(task)
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.idle)

		select {
		case <-w.stop:
			w.drain()
			return
		case <-w.queue.Wake():
		case <-timer.C:
		}
	}
}

// drain closes the queue and writes whatever is left.
func (w *Writer) drain() {
	w.queue.Close()
	n := 0
	for {
		task, ok := w.queue.Dequeue()
		if !ok {
			break
		}
		w.write(task)
		n++
	}
	w.logger.Debug("Persistence worker drained %d frames (written %d, failed %d)", n, w.written.Load(), w.failed.Load())
}

func (w *Writer) write(task pipeline.FrameWriteTask) {
	if err := w.writeTask(task); err != nil {
		w.failed.Add(1)
		w.logger.Warn("Failed to persist frame %d: %v", task.Sequence, err)
		return
	}
	w.written.Add(1)
	if task.Sequence > w.lastSeq.Load() {
		w.lastSeq.Store(task.Sequence)
	}
}

func (w *Writer) writeTask(task pipeline.FrameWriteTask) error {
	if task.Image == nil {
		return fmt.Errorf("%w: empty pixel buffer", ErrEncodeFrame)
	}
	w.buf.Reset()
	if err := w.encoder.Encode(&w.buf, task.Image); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFrame, err)
	}
	path := filepath.Join(w.dir, pipeline.FrameFileName(task.Sequence, w.encoder.Extension()))
	if err := w.fs.WriteFile(path, w.buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFrame, path, err)
	}
	return nil
}
