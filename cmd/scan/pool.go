package main

import (
	"runtime"
	"sync"
)

// runPooled runs fn once per item across a small bounded worker pool
// (goroutines + sync.WaitGroup, one worker per file up to runtime.NumCPU()),
// then returns results in the same order as items regardless of completion
// order.
func runPooled[T, R any](items []T, fn func(T) R) []R {
	results := make([]R, len(items))
	workers := runtime.NumCPU()
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = fn(items[i])
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
