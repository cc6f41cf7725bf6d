package mocks

import (
	"sync"

	"github.com/user/framerec/pkg/ports"
)

// Executor is a mock implementation of ports.Executor.
// By default it runs submitted functions inline. With Manual set, functions
// are queued until RunPending is called. Reject makes Submit refuse work.
type Executor struct {
	mu      sync.Mutex
	Manual  bool
	Reject  bool
	pending []func()
	Submits int
}

func (m *Executor) Submit(fn func()) bool {
	m.mu.Lock()
	m.Submits++
	if m.Reject {
		m.mu.Unlock()
		return false
	}
	if m.Manual {
		m.pending = append(m.pending, fn)
		m.mu.Unlock()
		return true
	}
	m.mu.Unlock()
	fn()
	return true
}

// RunPending runs and clears all queued functions. It returns how many ran.
func (m *Executor) RunPending() int {
	m.mu.Lock()
	fns := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Pending returns the number of queued functions.
func (m *Executor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

var _ ports.Executor = (*Executor)(nil)
