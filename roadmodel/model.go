// Package roadmodel is an in-memory road network that satisfies
// routeplanner.Model.
//
// Node coordinates are normalised into [0,1] by the larger extent of the
// map's bounding box; MetricScale converts back to metres. Neighbor lists are
// derived from road adjacency on first request and cached. A Model is safe for
// concurrent searches.
package roadmodel

import (
	"fmt"
	"math"
	"sync"
)

// Node is a model node handle. X and Y are normalised coordinates.
type Node struct {
	ID int
	X  float64
	Y  float64
}

// Model is a road network built from a Map.
type Model struct {
	nodes   []Node
	byID    map[int]int   // node id -> index in nodes
	roadsOf map[int][]int // node id -> indices into roads
	roads   []Road
	scale   float64
	width   float64 // normalised extents of the bounding box
	height  float64

	mu        sync.RWMutex
	neighbors map[int][]Node
}

// New validates m and builds a model from it.
func New(m Map) (*Model, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range m.Nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}
	scale := math.Max(maxX-minX, maxY-minY)
	if scale == 0 {
		scale = 1
	}

	model := &Model{
		nodes:     make([]Node, 0, len(m.Nodes)),
		byID:      make(map[int]int, len(m.Nodes)),
		roadsOf:   make(map[int][]int),
		roads:     m.Roads,
		scale:     scale,
		width:     (maxX - minX) / scale,
		height:    (maxY - minY) / scale,
		neighbors: make(map[int][]Node),
	}
	for i, n := range m.Nodes {
		model.byID[n.ID] = i
		model.nodes = append(model.nodes, Node{
			ID: n.ID,
			X:  (n.X - minX) / scale,
			Y:  (n.Y - minY) / scale,
		})
	}
	for r, road := range m.Roads {
		for _, id := range road.Nodes {
			refs := model.roadsOf[id]
			if len(refs) == 0 || refs[len(refs)-1] != r {
				model.roadsOf[id] = append(refs, r)
			}
		}
	}
	return model, nil
}

// Nodes returns all nodes in map order.
func (m *Model) Nodes() []Node {
	return append([]Node(nil), m.nodes...)
}

// Roads returns the roads the model was built from.
func (m *Model) Roads() []Road {
	return append([]Road(nil), m.roads...)
}

// Node returns the node with the given id.
func (m *Model) Node(id int) (Node, bool) {
	i, ok := m.byID[id]
	if !ok {
		return Node{}, false
	}
	return m.nodes[i], true
}

// FindClosestNode returns the road node nearest to the point at fractions x, y
// of the bounding box. Nodes that lie on no road are never returned.
func (m *Model) FindClosestNode(x, y float64) (Node, error) {
	px, py := x*m.width, y*m.height

	best, bestDist := -1, math.Inf(1)
	for i, n := range m.nodes {
		if len(m.roadsOf[n.ID]) == 0 {
			continue
		}
		if d := math.Hypot(n.X-px, n.Y-py); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Node{}, ErrEmptyModel
	}
	return m.nodes[best], nil
}

// FindNeighbors returns the nodes adjacent to node along every road through it.
func (m *Model) FindNeighbors(node Node) ([]Node, error) {
	if known, ok := m.Node(node.ID); !ok || known != node {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, node.ID)
	}

	m.mu.RLock()
	cached, ok := m.neighbors[node.ID]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	found := m.discoverNeighbors(node.ID)

	m.mu.Lock()
	m.neighbors[node.ID] = found
	m.mu.Unlock()
	return found, nil
}

func (m *Model) discoverNeighbors(id int) []Node {
	seen := map[int]bool{id: true}
	var out []Node
	add := func(other int) {
		if seen[other] {
			return
		}
		seen[other] = true
		out = append(out, m.nodes[m.byID[other]])
	}

	for _, r := range m.roadsOf[id] {
		way := m.roads[r].Nodes
		for i, wayID := range way {
			if wayID != id {
				continue
			}
			if i > 0 {
				add(way[i-1])
			}
			if i < len(way)-1 {
				add(way[i+1])
			}
		}
	}
	return out
}

// Distance is the Euclidean distance between a and b in normalised units.
func (m *Model) Distance(a, b Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// MetricScale returns metres per normalised unit.
func (m *Model) MetricScale() float64 {
	return m.scale
}
