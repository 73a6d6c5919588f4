package intake

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner lets the Extractor schedule section calls with any concurrency
// model.
type Runner interface {
	Go(fn func() error) // schedule
	Wait() error        // join / propagate first err
}

// ContextRunner is a Runner whose tasks should observe Context. The default
// runner cancels it as soon as one task fails.
type ContextRunner interface {
	Runner
	Context() context.Context
}

// DefaultRunner returns the default implementation backed by errgroup.Group.
func DefaultRunner(ctx context.Context) Runner {
	return newErrGroupRunner(ctx, runtime.NumCPU())
}

// NewLimitedRunner creates a runner with bounded concurrency.
func NewLimitedRunner(ctx context.Context, maxConcurrency int) Runner {
	return newErrGroupRunner(ctx, maxConcurrency)
}

// errGroupRunner is the default implementation backed by errgroup.Group.
type errGroupRunner struct {
	ctx context.Context // derived ctx shared by all tasks
	eg  *errgroup.Group
	sem chan struct{} // concurrency gate
}

func newErrGroupRunner(parent context.Context, maxConcurrency int) *errGroupRunner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	eg, ctx := errgroup.WithContext(parent)
	return &errGroupRunner{
		ctx: ctx,
		eg:  eg,
		sem: make(chan struct{}, maxConcurrency),
	}
}

func (r *errGroupRunner) Go(fn func() error) {
	r.eg.Go(func() error {
		select {
		case r.sem <- struct{}{}: // acquire
		case <-r.ctx.Done():
			return r.ctx.Err()
		}
		defer func() { <-r.sem }() // release
		return fn()
	})
}

func (r *errGroupRunner) Wait() error { return r.eg.Wait() }

func (r *errGroupRunner) Context() context.Context { return r.ctx }

// sequentialRunner runs each task inline and stops at the first error.
type sequentialRunner struct {
	err error
}

// NewSequentialRunner returns a Runner that runs tasks one at a time on the
// calling goroutine, in scheduling order.
func NewSequentialRunner() Runner { return &sequentialRunner{} }

func (r *sequentialRunner) Go(fn func() error) {
	if r.err == nil {
		r.err = fn()
	}
}

func (r *sequentialRunner) Wait() error { return r.err }
