// Package pool provides the fan-out/fan-in primitive the pipeline stages
// share: run independent tasks over disjoint items with a bounded number of
// workers, then barrier-join before the next stage starts.
package pool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn once per item with at most workers goroutines and waits
// for all of them. Item-level failures are expected to be absorbed inside fn
// (logged, item dropped); an error returned by fn is treated as a
// programming error and surfaces after the join without cancelling sibling
// tasks' items.
func ForEach[T any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) error) error {
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, item := range items {
		item := item
		g.Go(func() error {
			return fn(ctx, item)
		})
	}
	return g.Wait()
}

// Map runs fn once per item with at most workers goroutines and collects the
// outputs in input order. Failed items yield their zero value; ok reports
// per-index success.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, []bool) {
	results := make([]R, len(items))
	ok := make([]bool, len(items))

	type indexed struct {
		i    int
		item T
	}
	jobs := make([]indexed, len(items))
	for i, item := range items {
		jobs[i] = indexed{i: i, item: item}
	}

	_ = ForEach(ctx, workers, jobs, func(ctx context.Context, job indexed) error {
		r, err := fn(ctx, job.item)
		if err != nil {
			return nil
		}
		results[job.i] = r
		ok[job.i] = true
		return nil
	})
	return results, ok
}
