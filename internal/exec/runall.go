package exec

import (
	"context"
	"fmt"

	"github.com/specialistvlad/osmium/internal/graph"
	"github.com/specialistvlad/osmium/internal/registry"
	"github.com/specialistvlad/osmium/internal/runctx"
	"golang.org/x/sync/errgroup"
)

// RunAll evaluates fg once per context, concurrently. Each run owns its
// cache; fg and d are shared and must be safe for concurrent reads. Side
// effects of d are not isolated: behaviors that write to a shared resource
// must key it by the run context (see save.Module.SuffixSize). Results
// are returned in the order of contexts. The first failure is returned and
// runs that have not started yet are skipped.
func RunAll(ctx context.Context, fg *graph.FinalizedGraph, d registry.Dispatcher, contexts ...runctx.Context) ([]Results, error) {
	results := make([]Results, len(contexts))
	g, gctx := errgroup.WithContext(ctx)

	for i, rc := range contexts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Run(gctx, fg, rc, d)
			if err != nil {
				return fmt.Errorf("run %d (%s): %w", i, rc, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
