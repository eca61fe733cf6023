package indexer

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestRunBoundedProcessesEveryItem(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	var sum atomic.Int64
	errs := runBounded(context.Background(), items, 8, func(n int) error {
		sum.Add(int64(n))
		return nil
	})

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got, want := sum.Load(), int64(100*99/2); got != want {
		t.Errorf("sum = %d, want %d", got, want)
	}
}

func TestRunBoundedCollectsErrorsWithoutAborting(t *testing.T) {
	items := []int{1, 2, 3, 4}
	errs := runBounded(context.Background(), items, 2, func(n int) error {
		if n%2 == 0 {
			return fmt.Errorf("even: %d", n)
		}
		return nil
	})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestRunBoundedStopsDispatchingAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	items := []int{1, 2, 3}
	runBounded(ctx, items, 2, func(int) error {
		calls.Add(1)
		return nil
	})

	if calls.Load() != 0 {
		t.Errorf("expected no calls after cancellation, got %d", calls.Load())
	}
}
