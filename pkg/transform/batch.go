package transform

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves every node in nodes, using at most workers
// goroutines (GOMAXPROCS when workers <= 0). The tree must not change while
// the call runs. Results are returned in input order; a nil node yields
// the identity with no perspective. The only error is the context's.
func (r *Resolver) ResolveAll(ctx context.Context, nodes []Node, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range nodes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if n == nil {
				results[i] = Result{Matrix: r.algebra.Identity()}
				return nil
			}
			results[i] = r.Resolve(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
