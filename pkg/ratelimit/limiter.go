// Package ratelimit enforces a minimum interval between accepted captures.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter accepts at most one event per interval.
// The zero value is unlimited.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	started  bool
}

// New returns a limiter for fps events per second. fps of zero or less
// disables limiting.
func New(fps int) *Limiter {
	return &Limiter{interval: IntervalFor(fps)}
}

// IntervalFor converts a frame rate into a minimum interval.
func IntervalFor(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// Interval returns the configured minimum interval.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Allow reports whether an event at now is accepted. Accepting records now
// as the last event; rejecting leaves the limiter unchanged.
func (l *Limiter) Allow(now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	l.started = true
	return true
}

// Reset forgets the last accepted event.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.started = false
	l.last = time.Time{}
	l.mu.Unlock()
}
