package core

import "sync"

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// FIFOTaskQueue is an unbounded FIFO of pending task items, guarded by a
// mutex. Dequeue order is strictly submission order; each item is popped by
// at most one caller. The open/closed flag lives under the same lock so that
// closing the intake is serialized against concurrent pushes.
type FIFOTaskQueue struct {
	mu     sync.Mutex
	tasks  []TaskItem
	closed bool
}

func NewFIFOTaskQueue() *FIFOTaskQueue {
	return &FIFOTaskQueue{
		tasks: make([]TaskItem, 0, defaultQueueCap),
	}
}

// Push appends an item to the tail. It reports false when the queue has been
// closed, in which case the item was not enqueued.
func (q *FIFOTaskQueue) Push(item TaskItem) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, item)
	return true
}

// Pop removes and returns the head item. Pop keeps working after Close so
// already-queued items can still drain.
func (q *FIFOTaskQueue) Pop() (TaskItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return TaskItem{}, false
	}

	item := q.tasks[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.tasks[0] = TaskItem{}
	q.tasks = q.tasks[1:]
	q.maybeCompactLocked()

	return item, true
}

func (q *FIFOTaskQueue) maybeCompactLocked() {
	n := len(q.tasks)
	c := cap(q.tasks)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.tasks = make([]TaskItem, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]TaskItem, n, newCap)
	copy(newSlice, q.tasks)
	q.tasks = newSlice
}

func (q *FIFOTaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *FIFOTaskQueue) IsEmpty() bool {
	return q.Len() == 0
}

// Close rejects further pushes. Items already queued stay in place.
// Safe to call more than once.
func (q *FIFOTaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

// Reopen accepts pushes again after a Close. Used by pool reboot.
func (q *FIFOTaskQueue) Reopen() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = false
}

// Drain atomically removes and returns every queued item, leaving the queue
// empty. The caller is responsible for discarding the returned items.
func (q *FIFOTaskQueue) Drain() []TaskItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil
	}
	drained := q.tasks
	q.tasks = make([]TaskItem, 0, defaultQueueCap)
	return drained
}
