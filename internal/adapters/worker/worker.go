// Package worker runs independent jobs on a bounded pool of goroutines.
package worker

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/squadrank/pkg/logger"
	"github.com/okian/squadrank/pkg/metrics"
)

// Job is one unit of work.
type Job[T any] func(ctx context.Context) (T, error)

// Result holds the outcome of the job at the same index.
type Result[T any] struct {
	Value T
	Err   error
}

// Pool bounds the number of jobs running at once.
type Pool struct {
	workers int
	name    string

	// Logging
	logger logger.Logger
}

// NewPool creates a pool with one worker per CPU unless configured otherwise.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU(),
		name:    "worker-pool",
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Workers returns the pool size.
func (p *Pool) Workers() int { return p.workers }

// Do runs jobs and returns their results in job order. Once ctx is done the
// remaining jobs are not started and report ctx.Err().
func Do[T any](ctx context.Context, p *Pool, jobs []Job[T]) []Result[T] {
	results := make([]Result[T], len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan int)
	var wg sync.WaitGroup
	n := min(p.workers, len(jobs))
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			done := 0
			for i := range queue {
				v, err := jobs[i](ctx)
				results[i] = Result[T]{Value: v, Err: err}
				if err != nil {
					metrics.RecordError(p.name, "job_failed")
				}
				done++
			}
			p.logger.Debug(ctx, "worker finished", logger.String("worker", name), logger.Int("jobs", done))
		}(p.name + "-" + strconv.Itoa(w))
	}

	next := 0
feed:
	for ; next < len(jobs); next++ {
		select {
		case <-ctx.Done():
			break feed
		case queue <- next:
		}
	}
	close(queue)
	wg.Wait()

	for i := next; i < len(jobs); i++ {
		results[i].Err = ctx.Err()
	}
	return results
}
