package threadpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// TestWaitAll_ImmediateWhenIdle verifies the zero-tasks-ever-submitted case
func TestWaitAll_ImmediateWhenIdle(t *testing.T) {
	pool := newTestPool(t, 4)

	done := make(chan struct{})
	go func() {
		pool.WaitAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitAll() blocked on an idle pool")
	}
}

// TestWaitAll_DrainsAllTasks verifies the post-condition:
// pending == 0 and busy == 0 after WaitAll returns
func TestWaitAll_DrainsAllTasks(t *testing.T) {
	pool := newTestPool(t, 4)

	var executed atomic.Int32
	const taskCount = 42
	for i := 0; i < taskCount; i++ {
		if err := pool.Post(func(ctx context.Context) {
			time.Sleep(time.Millisecond)
			executed.Add(1)
		}); err != nil {
			t.Fatalf("Post() #%d failed: %v", i, err)
		}
	}

	pool.WaitAll()

	if got := executed.Load(); got != taskCount {
		t.Errorf("executed = %d after WaitAll, want %d", got, taskCount)
	}
	if pool.PendingTasks() != 0 {
		t.Errorf("PendingTasks() = %d after WaitAll, want 0", pool.PendingTasks())
	}
	if pool.BusyWorkers() != 0 {
		t.Errorf("BusyWorkers() = %d after WaitAll, want 0", pool.BusyWorkers())
	}
}

// TestWaitAll_Reusable verifies the barrier works across submission rounds
func TestWaitAll_Reusable(t *testing.T) {
	pool := newTestPool(t, 2)

	var executed atomic.Int32
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			_ = pool.Post(func(ctx context.Context) {
				executed.Add(1)
			})
		}
		pool.WaitAll()

		want := int32((round + 1) * 10)
		if got := executed.Load(); got != want {
			t.Fatalf("round %d: executed = %d after WaitAll, want %d", round, got, want)
		}
	}
}

// TestWaitAll_AfterShutdown verifies the barrier never hangs on a stopped pool
func TestWaitAll_AfterShutdown(t *testing.T) {
	pool := newTestPool(t, 2)
	pool.Shutdown(WaitForAllTasks)

	done := make(chan struct{})
	go func() {
		pool.WaitAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitAll() blocked after shutdown")
	}
}

// TestWaitAll_ManyWaiters verifies every concurrent waiter wakes
func TestWaitAll_ManyWaiters(t *testing.T) {
	pool := newTestPool(t, 2)

	release := make(chan struct{})
	_ = pool.Post(func(ctx context.Context) {
		<-release
	})

	const waiters = 8
	woke := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			pool.WaitAll()
			woke <- struct{}{}
		}()
	}

	// Let the waiters block, then finish the only task
	time.Sleep(50 * time.Millisecond)
	close(release)

	for i := 0; i < waiters; i++ {
		select {
		case <-woke:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d waiters woke", i, waiters)
		}
	}
}
