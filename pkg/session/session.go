// Package session holds the state of a single recording session and the
// controller that serializes session lifecycles.
package session

import (
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"

	"github.com/user/framerec/pkg/framequeue"
	"github.com/user/framerec/pkg/persist"
	"github.com/user/framerec/pkg/ratelimit"
)

// Session is one recording run, from a successful start until finalize
// completes.
type Session struct {
	ID        string
	TempDir   string
	ImageExt  string
	StartedAt time.Time
	FPS       int

	Queue   *framequeue.Queue
	Writer  *persist.Writer
	Limiter *ratelimit.Limiter

	seq atomic.Uint64
}

// New creates a session with a fresh id. The sequence counter starts so
// that the first frame is numbered 1.
func New(tempDir, imageExt string, fps int, queue *framequeue.Queue, writer *persist.Writer, now time.Time) *Session {
	return &Session{
		ID:        NewID(),
		TempDir:   tempDir,
		ImageExt:  imageExt,
		StartedAt: now,
		FPS:       fps,
		Queue:     queue,
		Writer:    writer,
		Limiter:   ratelimit.New(fps),
	}
}

// NewID returns a random session identifier.
func NewID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return id.String()
}

// NextSequence returns the next frame number.
func (s *Session) NextSequence() uint64 {
	return s.seq.Add(1)
}

// Sequences returns how many frame numbers have been handed out.
func (s *Session) Sequences() uint64 {
	return s.seq.Load()
}
