package threadpool_test

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	threadpool "github.com/abin-z/go-threadpool"
)

// TestPool_GC_AfterClose tests pool garbage collection
// Given: a pool that has executed tasks
// When: it is closed and the reference is dropped
// Then: the pool is garbage collected (no worker keeps it alive)
func TestPool_GC_AfterClose(t *testing.T) {
	var finalized atomic.Bool

	pool, err := threadpool.New(2)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	runtime.SetFinalizer(pool, func(p *threadpool.Pool) {
		finalized.Store(true)
	})

	tasksDone := make(chan struct{})
	var executedCount int32
	for i := 0; i < 10; i++ {
		_ = pool.Post(func(ctx context.Context) {
			time.Sleep(1 * time.Millisecond)
			if atomic.AddInt32(&executedCount, 1) == 10 {
				close(tasksDone)
			}
		})
	}

	<-tasksDone

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	pool = nil

	// Force GC
	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}

	if !finalized.Load() {
		t.Error("pool was not garbage collected after Close")
	}
}

// TestPool_GC_FuturesOutlivePool verifies resolved futures stay valid after
// the pool itself is gone
func TestPool_GC_FuturesOutlivePool(t *testing.T) {
	pool, err := threadpool.New(2)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	future, err := threadpool.Submit(pool, func(ctx context.Context) (int, error) {
		return 21 * 2, nil
	})
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if _, err := future.Get(); err != nil {
		t.Fatalf("Get() before teardown failed: %v", err)
	}

	pool.Shutdown(threadpool.WaitForAllTasks)
	pool = nil
	runtime.GC()

	value, err := future.Get()
	if err != nil || value != 42 {
		t.Errorf("Get() after pool teardown = (%d, %v), want (42, nil)", value, err)
	}
}
