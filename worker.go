package routeplanner

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Query is one start/end pair for RunBatch, in percent of the map extent.
type Query struct {
	StartX, StartY float64
	EndX, EndY     float64
}

// BatchResult is the outcome of one batch query.
type BatchResult[NodeType comparable] struct {
	Query  Query
	Result Result[NodeType]
	Err    error
}

// RunBatch plans every query against model on a pool of WithWorkers
// goroutines. Each query gets its own planner and session; a failing query
// records its error without stopping the others. Results keep input order.
// Only context cancellation aborts the batch early.
func RunBatch[NodeType comparable](
	ctx context.Context,
	model Model[NodeType],
	queries []Query,
	options ...Option,
) ([]BatchResult[NodeType], error) {
	batchOptions := applyOptions(options)
	results := make([]BatchResult[NodeType], len(queries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchOptions.NumberOfWorkers)

	for i, query := range queries {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			results[i] = runQuery(groupCtx, model, query, options)
			return groupCtx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func runQuery[NodeType comparable](
	ctx context.Context,
	model Model[NodeType],
	query Query,
	options []Option,
) BatchResult[NodeType] {
	batchResult := BatchResult[NodeType]{Query: query}
	planner, err := NewPlanner(model, query.StartX, query.StartY, query.EndX, query.EndY, options...)
	if err != nil {
		batchResult.Err = err
		return batchResult
	}
	batchResult.Result, batchResult.Err = planner.Search(ctx)
	return batchResult
}
