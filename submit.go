package threadpool

import "github.com/abin-z/go-threadpool/core"

// Submit hands a result-bearing computation to the pool and returns the
// Future that will carry its outcome. The future exists before the task can
// execute, so the caller can always wait on it. Submission fails with
// ErrNotRunning when the pool is stopped or shutting down; nothing is
// enqueued in that case.
//
// Submit is a package-level function because Go methods cannot introduce
// type parameters. Arguments are captured by the closure:
//
//	n := 5
//	future, err := threadpool.Submit(pool, func(ctx context.Context) (int, error) {
//		return n * 10, nil
//	})
//	if err != nil {
//		return err
//	}
//	value, err := future.Get() // 50
func Submit[T any](p *Pool, task core.TaskWithResult[T]) (*core.Future[T], error) {
	if task == nil {
		return nil, core.ErrNilTask
	}
	item, future := core.FutureTask(task)
	if err := p.post(item); err != nil {
		return nil, err
	}
	return future, nil
}

// Post submits a fire-and-forget task with no result channel. A panic in
// the task is recovered by the worker and routed to the pool's PanicHandler.
func (p *Pool) Post(task core.Task) error {
	if task == nil {
		return core.ErrNilTask
	}
	return p.post(core.TaskItem{Run: task})
}
