package core

import (
	"context"
	"runtime/debug"
	"sync"
)

// Future carries the eventual result or failure of a submitted task.
// It is created before the task is enqueued, so the submitter always holds
// the handle before the task can possibly execute.
//
// A Future completes exactly once: with the task's return value, with the
// task's error, with a *PanicError if the computation panicked, or with
// ErrTaskDiscarded if the task was dropped by an immediate shutdown.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewFuture creates an unresolved Future. Most callers obtain futures from
// Submit rather than constructing them directly.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete resolves the future. Only the first call has any effect.
func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Get blocks until the task's outcome is available and returns it.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.value, f.err
}

// GetContext blocks until the outcome is available or ctx is done.
// On ctx expiry the task itself is unaffected; only this wait is abandoned.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryGet polls for the outcome without blocking.
// ok reports whether the future has completed.
func (f *Future[T]) TryGet() (value T, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Done returns a channel closed when the outcome becomes available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// FutureTask wraps a result-bearing computation into a queue item plus the
// Future that will carry its outcome. The item's Run captures the return
// value, the returned error, or a recovered panic into the Future; its
// Discard fails the Future with ErrTaskDiscarded.
func FutureTask[T any](task TaskWithResult[T]) (TaskItem, *Future[T]) {
	future := NewFuture[T]()

	run := func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				future.complete(zero, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		value, err := task(ctx)
		future.complete(value, err)
	}

	discard := func() {
		var zero T
		future.complete(zero, ErrTaskDiscarded)
	}

	return TaskItem{Run: run, Discard: discard}, future
}
