package mocks

import (
	"context"
	"sync"

	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
)

// ProcessRunner is a mock implementation of ports.ProcessRunner.
// It records every invocation and returns ExitCode unless RunFunc is set.
type ProcessRunner struct {
	mu       sync.Mutex
	ExitCode int
	RunFunc  func(ctx context.Context, path string, args []string) (int, error)
	Calls    []ProcessCall
}

// ProcessCall is one recorded invocation.
type ProcessCall struct {
	Path string
	Args []string
}

func (m *ProcessRunner) Run(ctx context.Context, path string, args []string) (int, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, ProcessCall{Path: path, Args: append([]string(nil), args...)})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args)
	}
	return m.ExitCode, nil
}

// CallCount returns the number of recorded invocations.
func (m *ProcessRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent invocation.
func (m *ProcessRunner) LastCall() (ProcessCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ProcessCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// Probe is a mock implementation of ports.ArtifactProbe.
type Probe struct {
	Info      *pipeline.ArtifactInfo
	Err       error
	ProbeFunc func(path string) (*pipeline.ArtifactInfo, error)
}

func (m *Probe) Probe(path string) (*pipeline.ArtifactInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return m.Info, m.Err
}

// DirLock is a mock implementation of ports.DirLock.
type DirLock struct {
	mu       sync.Mutex
	Held     bool
	Locked   bool
	Err      error
	Unlocked int
}

func (m *DirLock) TryLock() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	if m.Held || m.Locked {
		return false, nil
	}
	m.Locked = true
	return true, nil
}

func (m *DirLock) Unlock() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Locked = false
	m.Unlocked++
	return nil
}

var (
	_ ports.ProcessRunner = (*ProcessRunner)(nil)
	_ ports.ArtifactProbe = (*Probe)(nil)
	_ ports.DirLock       = (*DirLock)(nil)
)
