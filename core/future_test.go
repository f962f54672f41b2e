package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestFuture_CompletesWithValue verifies the happy path:
// the future yields exactly the computation's return value
func TestFuture_CompletesWithValue(t *testing.T) {
	item, future := FutureTask(func(ctx context.Context) (int, error) {
		return 1 + 1, nil
	})

	if _, _, ok := future.TryGet(); ok {
		t.Error("TryGet() ready before execution, want pending")
	}

	item.Run(context.Background())

	value, err := future.Get()
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if value != 2 {
		t.Errorf("Get() = %d, want 2", value)
	}
}

// TestFuture_CompletesWithError verifies task errors reach the caller
func TestFuture_CompletesWithError(t *testing.T) {
	wantErr := errors.New("boom")
	item, future := FutureTask(func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	item.Run(context.Background())

	_, err := future.Get()
	if !errors.Is(err, wantErr) {
		t.Errorf("Get() error = %v, want %v", err, wantErr)
	}
}

// TestFuture_CapturesPanic verifies a panicking computation fails the future
// with *PanicError instead of crashing the caller
func TestFuture_CapturesPanic(t *testing.T) {
	item, future := FutureTask(func(ctx context.Context) (int, error) {
		panic("task exploded")
	})

	// Run must not propagate the panic
	item.Run(context.Background())

	_, err := future.Get()
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Get() error = %v, want *PanicError", err)
	}
	if panicErr.Value != "task exploded" {
		t.Errorf("PanicError.Value = %v, want %q", panicErr.Value, "task exploded")
	}
	if len(panicErr.Stack) == 0 {
		t.Error("PanicError.Stack is empty, want stack trace")
	}
}

// TestFuture_Discard verifies a discarded task surfaces ErrTaskDiscarded
// rather than hanging or returning a default value
func TestFuture_Discard(t *testing.T) {
	item, future := FutureTask(func(ctx context.Context) (int, error) {
		t.Error("discarded task ran")
		return 0, nil
	})

	item.Discard()

	_, err := future.Get()
	if !errors.Is(err, ErrTaskDiscarded) {
		t.Errorf("Get() error = %v, want ErrTaskDiscarded", err)
	}
}

// TestFuture_FirstCompletionWins verifies a future resolves exactly once
func TestFuture_FirstCompletionWins(t *testing.T) {
	item, future := FutureTask(func(ctx context.Context) (int, error) {
		return 42, nil
	})

	item.Run(context.Background())
	item.Discard() // Late discard must not overwrite the result

	value, err := future.Get()
	if err != nil || value != 42 {
		t.Errorf("Get() = (%d, %v), want (42, nil)", value, err)
	}
}

// TestFuture_GetContext verifies the wait is bounded by the caller's context
func TestFuture_GetContext(t *testing.T) {
	_, future := FutureTask(func(ctx context.Context) (int, error) {
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := future.GetContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetContext() error = %v, want deadline exceeded", err)
	}
}

// TestFuture_Done verifies the completion channel closes on resolution
func TestFuture_Done(t *testing.T) {
	item, future := FutureTask(func(ctx context.Context) (bool, error) {
		return true, nil
	})

	select {
	case <-future.Done():
		t.Fatal("Done() closed before execution")
	default:
	}

	item.Run(context.Background())

	select {
	case <-future.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after execution")
	}
}
