// Package parallel runs independent units of work on a bounded number of goroutines.
package parallel

import (
	"runtime"
	"sync"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Parallelize divides items into contiguous ranges, one per CPU core, and runs
// fn(start, end) for each range concurrently.
func Parallelize(items int, fn func(start, end int)) {
	ParallelizeN(items, runtime.NumCPU(), fn)
}

// ParallelizeN is Parallelize with an explicit worker count.
func ParallelizeN(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEach calls fn(i) for every i in [0, items) using up to workers goroutines
// and returns the error of the lowest failing index. A panic inside fn is
// returned as a *errors.PanicError. workers <= 1 runs sequentially.
func ForEach(items, workers int, fn func(i int) error) error {
	errs := make([]error, items)
	run := func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = scierrors.SafeExecute("parallel.ForEach", func() error { return fn(i) })
		}
	}
	if workers <= 1 {
		run(0, items)
	} else {
		ParallelizeN(items, workers, run)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
