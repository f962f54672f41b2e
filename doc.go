// Package threadpool provides a fixed-size worker pool with future-based
// results for Go.
//
// A Pool owns a set of worker goroutines pulling from one unbounded FIFO
// queue. Tasks are arbitrary deferred computations; submitting one returns a
// Future carrying its eventual value or failure, so callers never block on
// execution at submission time.
//
// # Quick Start
//
// Create a pool and submit work:
//
//	pool, err := threadpool.New(4) // 4 workers, started immediately
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	future, err := threadpool.Submit(pool, func(ctx context.Context) (int, error) {
//		return 1 + 1, nil
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	sum, err := future.Get() // 2
//
// # Key Concepts
//
// Future: the completion channel for one task. Get blocks for the outcome,
// GetContext bounds the wait, TryGet polls, Done exposes the raw channel.
// A task discarded before running fails its future with ErrTaskDiscarded;
// a panicking task fails it with *core.PanicError. Failures never crash a
// worker or the pool.
//
// Lifecycle: a pool is Running from construction. Shutdown(WaitForAllTasks)
// stops intake and runs everything already queued to completion;
// Shutdown(DiscardPendingTasks) drops queued tasks but lets in-flight ones
// finish. Both join every worker and are idempotent. Reboot replaces the
// worker set and returns the pool to Running. Close is the graceful
// shutdown as an io.Closer, for defer-based teardown.
//
// WaitAll: blocks until the queue is empty and no worker is executing. It is
// a point-in-time barrier, not a pause; submissions may race in after it
// returns.
//
// Status: a coherent snapshot of {total, busy, idle, pending, running};
// the individual accessors are lock-light and may be read at any rate.
//
// # Ordering
//
// Dequeue order is strictly FIFO by submission order. Completion order
// across tasks is unspecified once more than one worker runs. For a single
// task, the future's synchronization guarantees the outcome is visible to
// the caller no earlier than the task finished.
//
// # Observability
//
// The pool accepts a Logger, a PanicHandler, and a Metrics implementation
// through NewWithConfig. The observability/prometheus subpackage adapts
// Metrics to Prometheus collectors and can poll Status() into gauges.
package threadpool
