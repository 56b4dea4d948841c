// Package concurrent runs independent fetches on a bounded set of workers.
package concurrent

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// MaxWorkers caps the default worker count to stay polite to remote sites.
const MaxWorkers = 10

// Result pairs an input with what fn produced for it.
type Result[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Metrics summarizes a Map run.
type Metrics struct {
	Total      int
	Succeeded  int
	Failed     int
	Skipped    int
	TotalTime  time.Duration
	AvgLatency time.Duration
}

// Pool maps work over items with a fixed number of workers.
type Pool struct {
	workers  int
	progress func(done int)
}

// NewPool creates a pool. workers <= 0 uses the CPU count, capped at
// MaxWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > MaxWorkers {
			workers = MaxWorkers
		}
	}
	return &Pool{workers: workers}
}

// WithProgress reports the number of finished items after each one.
func (p *Pool) WithProgress(fn func(done int)) *Pool {
	p.progress = fn
	return p
}

// Workers returns the worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Map calls fn for every item and returns the results in input order.
// Items not started before ctx is canceled carry ctx.Err().
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) (R, error)) ([]Result[T, R], Metrics) {
	results := make([]Result[T, R], len(items))
	metrics := Metrics{Total: len(items)}
	if len(items) == 0 {
		return results, metrics
	}

	start := time.Now()
	jobs := make(chan int)

	var (
		mu      sync.Mutex
		done    int
		latency time.Duration
		wg      sync.WaitGroup
	)

	workers := p.workers
	if workers > len(items) {
		workers = len(items)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t0 := time.Now()
				v, err := fn(ctx, items[i])
				results[i] = Result[T, R]{Item: items[i], Value: v, Err: err}

				mu.Lock()
				done++
				latency += time.Since(t0)
				if err != nil {
					metrics.Failed++
				} else {
					metrics.Succeeded++
				}
				n := done
				mu.Unlock()

				if p.progress != nil {
					p.progress(n)
				}
			}
		}()
	}

	next := 0
feed:
	for ; next < len(items); next++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- next:
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(items); i++ {
		results[i] = Result[T, R]{Item: items[i], Err: ctx.Err()}
		metrics.Skipped++
	}

	metrics.TotalTime = time.Since(start)
	if ran := metrics.Succeeded + metrics.Failed; ran > 0 {
		metrics.AvgLatency = latency / time.Duration(ran)
	}
	return results, metrics
}
