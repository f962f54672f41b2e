package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkerCount means the requested worker count is zero,
	// negative, or above MaxWorkers.
	ErrInvalidWorkerCount = errors.New("threadpool: invalid worker count")

	// ErrNotRunning means a task was submitted while the pool is not running.
	ErrNotRunning = errors.New("threadpool: pool is not running")

	// ErrTaskDiscarded is the outcome of a task dropped by an immediate
	// shutdown before it ever ran.
	ErrTaskDiscarded = errors.New("threadpool: task discarded before execution")

	// ErrNilTask means a nil computation was submitted.
	ErrNilTask = errors.New("threadpool: task cannot be nil")
)

// PanicError wraps a panic recovered from a task's computation.
// It is delivered through the task's Future; the worker itself survives.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("threadpool: task panicked: %v", e.Value)
}
