package threadpool

import "github.com/abin-z/go-threadpool/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the threadpool package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// TaskWithResult is a computation whose outcome is delivered via a Future
type TaskWithResult[T any] = core.TaskWithResult[T]

// Future carries a submitted task's eventual result or failure
type Future[T any] = core.Future[T]

// Status is a point-in-time snapshot of the pool's counters
type Status = core.PoolStatus

// Logger is the structured logging interface used by the pool
type Logger = core.Logger

// Field is a structured logging key-value pair
type Field = core.Field

// PanicError wraps a panic recovered from a task's computation
type PanicError = core.PanicError

// PanicHandler handles panics from fire-and-forget tasks
type PanicHandler = core.PanicHandler

// Metrics collects pool execution metrics
type Metrics = core.Metrics

// Error values surfaced by the pool API
var (
	ErrInvalidWorkerCount = core.ErrInvalidWorkerCount
	ErrNotRunning         = core.ErrNotRunning
	ErrTaskDiscarded      = core.ErrTaskDiscarded
	ErrNilTask            = core.ErrNilTask
)

// F creates a structured logging field
var F = core.F
