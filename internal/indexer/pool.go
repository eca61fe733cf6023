package indexer

import (
	"context"
	"sync"
)

// runBounded fans work out across at most concurrency goroutines reading
// from a buffered channel, matching spec §5's "parallel worker threads,
// one per file in flight, with a bounded queue" rather than an
// unbounded goroutine-per-file spawn. fn is invoked once per item;
// errors are collected but never abort the remaining items, per spec
// §7 "per-file failures are caught and reported but do not abort the
// run". Cancellation is checked between files (spec §5): once ctx is
// done, workers drain the queue without calling fn, leaving the index
// in a state reflecting only files already committed.
func runBounded[T any](ctx context.Context, items []T, concurrency int, fn func(T) error) []error {
	if concurrency < 1 {
		concurrency = 1
	}
	if len(items) == 0 {
		return nil
	}

	work := make(chan T, len(items))
	for _, item := range items {
		work <- item
	}
	close(work)

	var mu sync.Mutex
	var errs []error

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range work {
				if ctx.Err() != nil {
					continue
				}
				if err := fn(item); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return errs
}
