// Package resolver turns id lists into ordered records with bounded concurrent fetches
package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers caps fan out per batch when nothing else is configured
const DefaultMaxWorkers = 10

// Pool is a per batch worker pool sized min(n, maxWorkers)
type Pool struct {
	size int
}

// NewPool sizes a pool for n tasks; maxWorkers <= 0 uses DefaultMaxWorkers
func NewPool(n, maxWorkers int) Pool {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return Pool{size: max(min(n, maxWorkers), 1)}
}

// Cap returns the most tasks that run at once
func (p Pool) Cap() int { return p.size }

// Run executes task for every index in [0,n) and blocks until all return
// Tasks never fail the group, so one bad item cannot cancel its siblings
func (p Pool) Run(ctx context.Context, n int, task func(ctx context.Context, i int)) {
	var g errgroup.Group
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			task(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
