package ports

import (
	"context"

	"github.com/user/framerec/pkg/pipeline"
)

// ProcessRunner launches an external program and waits for it to exit.
type ProcessRunner interface {
	// Run executes path with args. exitCode is meaningful only when err is nil;
	// err reports that the process could not be started or waited on.
	Run(ctx context.Context, path string, args []string) (exitCode int, err error)
}

// ArtifactProbe inspects an encoded output file.
type ArtifactProbe interface {
	Probe(path string) (*pipeline.ArtifactInfo, error)
}

// DirLock is an advisory, process-exclusive lock guarding a directory.
type DirLock interface {
	// TryLock acquires the lock without waiting.
	TryLock() (bool, error)

	// Unlock releases the lock.
	Unlock() error
}
