// Package dirlock guards a session temp directory with an advisory file lock.
package dirlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/user/framerec/pkg/ports"
)

// Lock is a process-exclusive lock held on "<dir>.lock".
// The lock file sits next to the directory so deleting the directory
// does not drop it.
type Lock struct {
	f *flock.Flock
}

// New creates a lock for dir. The parent directory is created if needed.
func New(dir string) (*Lock, error) {
	path := filepath.Clean(dir) + ".lock"
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("dirlock: %w", err)
	}
	return &Lock{f: flock.New(path)}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.f.Path() }

// TryLock implements ports.DirLock.
func (l *Lock) TryLock() (bool, error) { return l.f.TryLock() }

// Unlock implements ports.DirLock.
func (l *Lock) Unlock() error { return l.f.Unlock() }

var _ ports.DirLock = (*Lock)(nil)
