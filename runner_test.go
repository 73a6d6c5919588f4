package intake

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	if runner == nil {
		t.Fatal("DefaultRunner returned nil")
	}

	if _, ok := runner.(*errGroupRunner); !ok {
		t.Errorf("DefaultRunner should return *errGroupRunner, got %T", runner)
	}
	if _, ok := runner.(ContextRunner); !ok {
		t.Error("DefaultRunner should implement ContextRunner")
	}
}

func TestErrGroupRunner_Go_Success(t *testing.T) {
	runner := DefaultRunner(context.Background())

	var counter int32
	for i := 0; i < 5; i++ {
		runner.Go(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Expected counter to be 5, got %d", atomic.LoadInt32(&counter))
	}
}

func TestErrGroupRunner_Go_WithError(t *testing.T) {
	runner := DefaultRunner(context.Background())
	expectedErr := errors.New("test error")

	runner.Go(func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	runner.Go(func() error { return expectedErr })

	if err := runner.Wait(); err != expectedErr {
		t.Errorf("Expected %v, got %v", expectedErr, err)
	}
}

func TestErrGroupRunner_ErrorCancelsSiblings(t *testing.T) {
	runner := NewLimitedRunner(context.Background(), 2).(*errGroupRunner)

	runner.Go(func() error { return errors.New("boom") })
	runner.Go(func() error {
		select {
		case <-runner.Context().Done():
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("sibling was not cancelled")
		}
	})

	err := runner.Wait()
	if err == nil || err.Error() != "boom" {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestErrGroupRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := DefaultRunner(ctx)

	runner.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(1 * time.Second):
			return nil
		}
	})
	cancel()

	if err := runner.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestErrGroupRunner_EmptyRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error for empty runner, got %v", err)
	}
}

func TestLimitedRunner_BoundsConcurrency(t *testing.T) {
	runner := NewLimitedRunner(context.Background(), 2)

	var active, peak int32
	for i := 0; i < 10; i++ {
		runner.Go(func() error {
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent tasks, saw %d", peak)
	}
}

func TestNewErrGroupRunner(t *testing.T) {
	ctx := context.Background()
	runner := newErrGroupRunner(ctx, 0)

	if runner.ctx == nil || runner.eg == nil {
		t.Fatal("runner should be fully initialised")
	}
	if cap(runner.sem) != 1 {
		t.Errorf("Expected concurrency floor of 1, got %d", cap(runner.sem))
	}
	if runner.ctx == ctx {
		t.Error("runner.ctx should be a derived context, not the same as parent")
	}
}

func TestSequentialRunner(t *testing.T) {
	runner := NewSequentialRunner()

	var order []int
	for i := 0; i < 3; i++ {
		runner.Go(func() error {
			order = append(order, i)
			if i == 1 {
				return errors.New("stop")
			}
			return nil
		})
	}

	if err := runner.Wait(); err == nil || err.Error() != "stop" {
		t.Errorf("Expected stop, got %v", err)
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Errorf("Expected tasks 0 and 1 only, got %v", order)
	}
}

func BenchmarkErrGroupRunner(b *testing.B) {
	ctx := context.Background()

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			runner := DefaultRunner(ctx)
			runner.Go(func() error { return nil })
			_ = runner.Wait()
		}
	})

	b.Run("Concurrent", func(b *testing.B) {
		runner := DefaultRunner(ctx)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			runner.Go(func() error { return nil })
		}
		_ = runner.Wait()
	})
}
