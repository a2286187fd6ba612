package routeplanner_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/pdrpinto/routeplanner"
	"github.com/pdrpinto/routeplanner/roadmodel"
)

// randomGrid builds a grid with roughly a fifth of its nodes closed.
func randomGrid(cols, rows int, seed int64) (*roadmodel.Model, error) {
	rng := rand.New(rand.NewSource(seed))
	var closed []int
	for id := 0; id < cols*rows; id++ {
		if rng.Intn(5) == 0 {
			closed = append(closed, id)
		}
	}
	return roadmodel.Grid(cols, rows, 100, closed...)
}

// validRoute reports whether path is a connected road walk from start to end
// whose length matches distance.
func validRoute(model *roadmodel.Model, path []roadmodel.Node, start, end roadmodel.Node, distance float64) bool {
	if len(path) == 0 || path[0] != start || path[len(path)-1] != end {
		return false
	}
	var sum float64
	for i := 1; i < len(path); i++ {
		neighbors, err := model.FindNeighbors(path[i-1])
		if err != nil {
			return false
		}
		adjacent := false
		for _, n := range neighbors {
			if n == path[i] {
				adjacent = true
				break
			}
		}
		if !adjacent {
			return false
		}
		sum += model.Distance(path[i-1], path[i])
	}
	return math.Abs(sum*model.MetricScale()-distance) < 1e-6
}

// TestSearchProperties checks route invariants on random grids with closures
func TestSearchProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	search := func(model *roadmodel.Model, relaxation routeplanner.Relaxation, sx, sy, ex, ey float64) (*routeplanner.Planner[nodeType], routeplanner.Result[nodeType], error) {
		planner, err := routeplanner.NewPlanner(model, sx, sy, ex, ey, routeplanner.WithRelaxation(relaxation))
		if err != nil {
			return nil, routeplanner.Result[nodeType]{}, err
		}
		result, err := planner.Search(context.Background())
		return planner, result, err
	}

	properties.Property("found routes are connected and correctly measured", prop.ForAll(
		func(cols, rows int, seed int64, sx, sy, ex, ey float64) bool {
			model, err := randomGrid(cols, rows, seed)
			if err != nil {
				return false
			}
			planner, result, err := search(model, routeplanner.RelaxOverwrite, sx, sy, ex, ey)
			if errors.Is(err, roadmodel.ErrEmptyModel) {
				return true
			}
			if err != nil {
				// a miss must be genuine
				return errors.Is(err, routeplanner.ErrNoPath) && !result.Found &&
					math.IsInf(dijkstra(model, planner.Start(), planner.End()), 1)
			}
			return result.Found && validRoute(model, result.Path, planner.Start(), planner.End(), result.Distance)
		},
		gen.IntRange(2, 7),
		gen.IntRange(2, 7),
		gen.Int64(),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.Property("improving relaxation is optimal and never worse than overwrite", prop.ForAll(
		func(cols, rows int, seed int64, sx, sy, ex, ey float64) bool {
			model, err := randomGrid(cols, rows, seed)
			if err != nil {
				return false
			}
			planner, improving, err := search(model, routeplanner.RelaxImproving, sx, sy, ex, ey)
			if err != nil {
				return errors.Is(err, roadmodel.ErrEmptyModel) || errors.Is(err, routeplanner.ErrNoPath)
			}
			_, overwrite, err := search(model, routeplanner.RelaxOverwrite, sx, sy, ex, ey)
			if err != nil {
				return false
			}
			best := dijkstra(model, planner.Start(), planner.End())
			return math.Abs(improving.Distance-best) < 1e-6 &&
				overwrite.Distance >= improving.Distance-1e-6
		},
		gen.IntRange(2, 7),
		gen.IntRange(2, 7),
		gen.Int64(),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}
