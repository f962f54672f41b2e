package core

import (
	"sync"
	"sync/atomic"
)

// Dispatcher owns the shared task queue, the worker wakeup signal, the
// busy/pending counters, and the completion barrier used by WaitAll.
// It is pure mechanism: the Pool decides lifecycle, the Dispatcher moves
// tasks and keeps the counters coherent.
//
// Counter ordering matters for the barrier:
//   - Post increments pending before pushing, and undoes it if the queue is
//     closed, so a queued item always has pending > 0.
//   - GetWork marks busy before decrementing pending, so the sum never dips
//     to zero while a dequeued task has not finished.
//
// Counters may therefore read transiently high, never low. The barrier can
// only observe idle when no task is queued or executing.
type Dispatcher struct {
	queue  *FIFOTaskQueue
	signal chan struct{}

	metricPending int32 // Waiting in queue
	metricBusy    int32 // Executing in a worker

	// Completion barrier, distinct from the queue lock
	idleMu   sync.Mutex
	idleCond *sync.Cond
}

func NewDispatcher(workerCount int) *Dispatcher {
	d := &Dispatcher{
		queue:  NewFIFOTaskQueue(),
		signal: make(chan struct{}, workerCount*2),
	}
	d.idleCond = sync.NewCond(&d.idleMu)
	return d
}

// Post enqueues an item and wakes one waiting worker. It reports false when
// the intake has been closed, in which case nothing was enqueued.
func (d *Dispatcher) Post(item TaskItem) bool {
	atomic.AddInt32(&d.metricPending, 1)
	if !d.queue.Push(item) {
		atomic.AddInt32(&d.metricPending, -1)
		d.signalIfIdle()
		return false
	}

	select {
	case d.signal <- struct{}{}:
	default:
		// Signal channel full, but the task is already queued; an active
		// worker will pop it on its next iteration.
	}
	return true
}

// GetWork blocks until a task is available or stopCh fires with the queue
// empty. Workers pop before waiting, so a closed stopCh still lets the
// queue drain (graceful shutdown). The returned item is already counted as
// busy; the worker must call FinishWork when done with it.
func (d *Dispatcher) GetWork(stopCh <-chan struct{}) (TaskItem, bool) {
	for {
		if item, ok := d.queue.Pop(); ok {
			// Busy before pending, see the ordering note on Dispatcher.
			atomic.AddInt32(&d.metricBusy, 1)
			atomic.AddInt32(&d.metricPending, -1)
			return item, true
		}

		select {
		case <-d.signal:
			continue
		case <-stopCh:
			// A submission can slip between the Pop above and this select:
			// its Push is serialized with CloseIntake by the queue mutex, so
			// anything the intake accepted before the stop is visible to one
			// final Pop here. Without it a worker could exit with an accepted
			// item still queued.
			if item, ok := d.queue.Pop(); ok {
				atomic.AddInt32(&d.metricBusy, 1)
				atomic.AddInt32(&d.metricPending, -1)
				return item, true
			}
			return TaskItem{}, false
		}
	}
}

// FinishWork marks the end of a task execution and signals the completion
// barrier if the pool just became idle.
func (d *Dispatcher) FinishWork() {
	atomic.AddInt32(&d.metricBusy, -1)
	d.signalIfIdle()
}

// CloseIntake rejects further posts. Queued items stay put.
func (d *Dispatcher) CloseIntake() {
	d.queue.Close()
}

// DiscardPending drops every not-yet-started task, invoking each item's
// Discard hook so pending futures fail instead of hanging. It returns the
// number of discarded tasks.
func (d *Dispatcher) DiscardPending() int {
	drained := d.queue.Drain()
	if len(drained) == 0 {
		return 0
	}
	atomic.AddInt32(&d.metricPending, -int32(len(drained)))
	for _, item := range drained {
		if item.Discard != nil {
			item.Discard()
		}
	}
	d.signalIfIdle()
	return len(drained)
}

// Reopen resets the intake for a fresh worker set. Only valid while no
// worker is running. The signal channel is kept for the dispatcher's
// lifetime: a submitter from the previous generation may still be parked at
// its send, and stale tokens only cause a spurious pop under pop-before-wait.
func (d *Dispatcher) Reopen() {
	d.queue.Reopen()
}

// WaitIdle blocks the caller until no task is queued and no worker is
// executing. Returns immediately when already idle.
func (d *Dispatcher) WaitIdle() {
	d.idleMu.Lock()
	for !d.isIdle() {
		d.idleCond.Wait()
	}
	d.idleMu.Unlock()
}

// signalIfIdle wakes WaitIdle callers using the double-check pattern:
// one optimistic check, then a definitive one under the barrier lock, so a
// submission racing in between cannot cause a lost or spurious wakeup.
func (d *Dispatcher) signalIfIdle() {
	if !d.isIdle() {
		return
	}
	d.idleMu.Lock()
	if d.isIdle() {
		d.idleCond.Broadcast()
	}
	d.idleMu.Unlock()
}

func (d *Dispatcher) isIdle() bool {
	return atomic.LoadInt32(&d.metricBusy) == 0 && atomic.LoadInt32(&d.metricPending) == 0
}

// PendingCount reports the number of queued tasks.
func (d *Dispatcher) PendingCount() int {
	if n := int(atomic.LoadInt32(&d.metricPending)); n > 0 {
		return n
	}
	return 0
}

// BusyCount reports the number of tasks currently executing.
func (d *Dispatcher) BusyCount() int {
	if n := int(atomic.LoadInt32(&d.metricBusy)); n > 0 {
		return n
	}
	return 0
}

// Snapshot reads both counters under the barrier lock so the pair is
// coherent with respect to idle transitions.
func (d *Dispatcher) Snapshot() (pending, busy int) {
	d.idleMu.Lock()
	pending = int(atomic.LoadInt32(&d.metricPending))
	busy = int(atomic.LoadInt32(&d.metricBusy))
	d.idleMu.Unlock()
	if pending < 0 {
		pending = 0
	}
	if busy < 0 {
		busy = 0
	}
	return pending, busy
}
