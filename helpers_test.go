package routeplanner_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/routeplanner/roadmodel"
)

type nodeType = roadmodel.Node

// newGrid builds a cols x rows grid with 100 m blocks.
func newGrid(t *testing.T, cols, rows int, skip ...int) *roadmodel.Model {
	t.Helper()
	model, err := roadmodel.Grid(cols, rows, 100, skip...)
	require.NoError(t, err)
	return model
}

// newDetourModel builds a map where the first-discovered route to node 3 is
// longer than a route discovered one expansion later:
//
//	0 -> 1 -> 3 -> 4   (1 is expanded first, via 1 costs 6.0)
//	0 -> 2 -> 3        (via 2 costs ~5.83)
func newDetourModel(t *testing.T) *roadmodel.Model {
	t.Helper()
	model, err := roadmodel.New(roadmodel.Map{
		Nodes: []roadmodel.MapNode{
			{ID: 0, X: 0, Y: 0},
			{ID: 1, X: 1, Y: 0},
			{ID: 2, X: 2.5, Y: 1.5},
			{ID: 3, X: 5, Y: 3},
			{ID: 4, X: 10, Y: 0},
		},
		Roads: []roadmodel.Road{
			{Name: "north", Nodes: []int{0, 1, 3}},
			{Name: "diagonal", Nodes: []int{0, 2, 3}},
			{Name: "east", Nodes: []int{3, 4}},
		},
	})
	require.NoError(t, err)
	return model
}

// newSplitModel builds two roads that never meet.
func newSplitModel(t *testing.T) *roadmodel.Model {
	t.Helper()
	model, err := roadmodel.New(roadmodel.Map{
		Nodes: []roadmodel.MapNode{
			{ID: 0, X: 0, Y: 0},
			{ID: 1, X: 10, Y: 0},
			{ID: 2, X: 90, Y: 100},
			{ID: 3, X: 100, Y: 100},
		},
		Roads: []roadmodel.Road{
			{Name: "west", Nodes: []int{0, 1}},
			{Name: "east", Nodes: []int{2, 3}},
		},
	})
	require.NoError(t, err)
	return model
}

func ids(path []roadmodel.Node) []int {
	out := make([]int, len(path))
	for i, n := range path {
		out[i] = n.ID
	}
	return out
}

// checkPath verifies continuity and distance accounting of a found route.
func checkPath(t *testing.T, model *roadmodel.Model, path []roadmodel.Node, distance float64) {
	t.Helper()
	require.NotEmpty(t, path)

	var sum float64
	for i := 1; i < len(path); i++ {
		neighbors, err := model.FindNeighbors(path[i-1])
		require.NoError(t, err)
		require.Contains(t, neighbors, path[i], "path step %d is not a road segment", i)
		sum += model.Distance(path[i-1], path[i])
	}
	require.GreaterOrEqual(t, distance, 0.0)
	require.InDelta(t, sum*model.MetricScale(), distance, 1e-9)
}

// dijkstra returns the true shortest distance in metres, or +Inf.
func dijkstra(model *roadmodel.Model, start, end roadmodel.Node) float64 {
	dist := map[roadmodel.Node]float64{start: 0}
	done := map[roadmodel.Node]bool{}
	for {
		var (
			current roadmodel.Node
			best    = math.Inf(1)
		)
		for n, d := range dist {
			if !done[n] && d < best {
				current, best = n, d
			}
		}
		if math.IsInf(best, 1) {
			return best
		}
		if current == end {
			return best * model.MetricScale()
		}
		done[current] = true
		neighbors, _ := model.FindNeighbors(current)
		for _, nb := range neighbors {
			nd := best + model.Distance(current, nb)
			if d, ok := dist[nb]; !ok || nd < d {
				dist[nb] = nd
			}
		}
	}
}
