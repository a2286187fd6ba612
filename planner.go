package routeplanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Planner searches routes between two fixed nodes of a Model.
// It holds no per-search state; Search may be called repeatedly and from
// several goroutines.
type Planner[NodeType comparable] struct {
	model   Model[NodeType]
	start   NodeType
	end     NodeType
	options Options
}

// NewPlanner resolves the start and end coordinates to their closest model
// nodes. Coordinates are percentages (0-100) of the map's extent on each axis.
func NewPlanner[NodeType comparable](
	model Model[NodeType],
	startX, startY, endX, endY float64,
	options ...Option,
) (*Planner[NodeType], error) {
	// percentages to fractions
	startX *= 0.01
	startY *= 0.01
	endX *= 0.01
	endY *= 0.01

	start, err := model.FindClosestNode(startX, startY)
	if err != nil {
		return nil, fmt.Errorf("resolve start node: %w", err)
	}
	end, err := model.FindClosestNode(endX, endY)
	if err != nil {
		return nil, fmt.Errorf("resolve end node: %w", err)
	}

	return &Planner[NodeType]{
		model:   model,
		start:   start,
		end:     end,
		options: applyOptions(options),
	}, nil
}

// Start returns the resolved start node.
func (p *Planner[NodeType]) Start() NodeType { return p.start }

// End returns the resolved end node.
func (p *Planner[NodeType]) End() NodeType { return p.end }

// CalculateHValue returns the straight-line distance from node to the end node
// in native model units.
func (p *Planner[NodeType]) CalculateHValue(node NodeType) float64 {
	return p.model.Distance(node, p.end)
}

// Search runs A* from the start node to the end node.
//
// When the two nodes are not connected the returned error wraps ErrNoPath and
// Result.Found is false. The context is checked between expansions.
func (p *Planner[NodeType]) Search(ctx context.Context) (Result[NodeType], error) {
	searchID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "routeplanner.Search", trace.WithAttributes(
		attribute.String("search.id", searchID),
		attribute.String("search.relaxation", p.options.Relaxation.String()),
	))
	defer span.End()

	logger := p.options.Logger.With("search_id", searchID)
	logger.DebugContext(ctx, "search started", "relaxation", p.options.Relaxation.String())

	began := time.Now()
	result, err := p.run(ctx)
	elapsed := time.Since(began)

	p.options.Metrics.observe(result.Found, result.ExpandedNodes, result.Distance, err, elapsed)
	endSpan(span, result.Found, result.ExpandedNodes, result.Distance, err)

	if err != nil {
		logger.DebugContext(ctx, "search failed",
			"expanded", result.ExpandedNodes,
			"elapsed", elapsed,
			"error", err,
		)
		return result, err
	}
	logger.DebugContext(ctx, "search finished",
		"expanded", result.ExpandedNodes,
		"nodes", len(result.Path),
		"distance", result.Distance,
		"elapsed", elapsed,
	)
	return result, nil
}

func (p *Planner[NodeType]) run(ctx context.Context) (Result[NodeType], error) {
	s := newSession(p.model, p.start, p.end, p.options.Relaxation)

	for {
		if err := ctx.Err(); err != nil {
			return Result[NodeType]{ExpandedNodes: s.expanded}, err
		}
		if p.options.MaxExpansions > 0 && s.expanded >= p.options.MaxExpansions {
			return Result[NodeType]{ExpandedNodes: s.expanded}, ErrExpansionLimit
		}

		current, state, err := s.step()
		if err != nil {
			return Result[NodeType]{ExpandedNodes: s.expanded}, err
		}
		switch state {
		case stepExhausted:
			return Result[NodeType]{ExpandedNodes: s.expanded}, ErrNoPath
		case stepFound:
			path, distance := s.constructFinalPath(current)
			return Result[NodeType]{
				Path:          path,
				Distance:      distance,
				ExpandedNodes: s.expanded,
				Found:         true,
			}, nil
		}
	}
}
