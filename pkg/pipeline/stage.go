// Package pipeline holds the types shared by the capture, persistence and
// finalize stages of a recording session.
package pipeline

import (
	"context"
)

// Stage is a unit of work that turns an input into an output.
// The encode finalizer is run as a Stage so it can be swapped in tests.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a plain function to the Stage interface.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute implements Stage interface.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
