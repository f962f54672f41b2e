package core

import "context"

// Task is the unit of work (Closure)
type Task func(ctx context.Context)

// TaskWithResult is a computation whose eventual value or failure is
// delivered through a Future. Arguments are captured by the closure at
// submission time.
type TaskWithResult[T any] func(ctx context.Context) (T, error)

// TaskItem couples the type-erased task with an optional discard hook.
// The queue owns an item until exactly one worker pops it. Discard is invoked
// instead of Run when the item is dropped by an immediate shutdown, so the
// submitter's Future fails instead of hanging forever.
type TaskItem struct {
	Run     Task
	Discard func()
}
