package routeplanner

import (
	"fmt"

	"github.com/pdrpinto/routeplanner/internal"
)

// record is the search state of one node. It lives in the session, never on
// the model's nodes, so nothing leaks from one search into the next.
type record[NodeType comparable] struct {
	g, h      float64
	parent    NodeType
	hasParent bool
	visited   bool
	expanded  bool
}

type stepState int

const (
	stepExpanded stepState = iota
	stepFound
	stepExhausted
)

// session holds everything one search mutates: node records and the frontier.
type session[NodeType comparable] struct {
	model      Model[NodeType]
	start, end NodeType
	relaxation Relaxation

	records  map[NodeType]*record[NodeType]
	open     frontier[NodeType]
	expanded int
}

func newSession[NodeType comparable](
	model Model[NodeType],
	start, end NodeType,
	relaxation Relaxation,
) *session[NodeType] {
	s := &session[NodeType]{
		model:      model,
		start:      start,
		end:        end,
		relaxation: relaxation,
		records:    make(map[NodeType]*record[NodeType]),
	}

	startRecord := s.record(start)
	startRecord.h = s.hValue(start)
	startRecord.visited = true
	s.open.push(frontierEntry[NodeType]{Node: start, GScore: 0, FCost: startRecord.h})
	return s
}

func (s *session[NodeType]) record(node NodeType) *record[NodeType] {
	r, ok := s.records[node]
	if !ok {
		r = &record[NodeType]{}
		s.records[node] = r
	}
	return r
}

// hValue is the straight-line distance from node to the end node.
func (s *session[NodeType]) hValue(node NodeType) float64 {
	return s.model.Distance(node, s.end)
}

// nextNode removes and returns the live frontier node with the lowest f.
// Entries superseded by a later relaxation are dropped.
func (s *session[NodeType]) nextNode() (NodeType, bool) {
	for {
		entry, ok := s.open.pop()
		if !ok {
			var zero NodeType
			return zero, false
		}
		r := s.records[entry.Node]
		if r.expanded || entry.GScore != r.g {
			continue
		}
		return entry.Node, true
	}
}

// addNeighbors expands current: every discovered neighbor gets g, h and parent
// from current and is pushed onto the frontier.
func (s *session[NodeType]) addNeighbors(current NodeType) error {
	neighbors, err := s.model.FindNeighbors(current)
	if err != nil {
		return fmt.Errorf("find neighbors: %w", err)
	}

	currentRecord := s.records[current]
	for _, neighbor := range neighbors {
		r := s.record(neighbor)
		tentativeG := currentRecord.g + s.model.Distance(current, neighbor)

		switch {
		case !r.visited:
		case s.relaxation == RelaxImproving && !r.expanded && tentativeG < r.g:
		default:
			continue
		}

		r.g = tentativeG
		r.h = s.hValue(neighbor)
		r.parent = current
		r.hasParent = true
		r.visited = true
		s.open.push(frontierEntry[NodeType]{Node: neighbor, GScore: r.g, FCost: r.g + r.h})
	}
	return nil
}

// step pops one node and either reports it as the goal or expands it.
func (s *session[NodeType]) step() (NodeType, stepState, error) {
	current, ok := s.nextNode()
	if !ok {
		return current, stepExhausted, nil
	}
	s.records[current].expanded = true
	s.expanded++

	if current == s.end {
		return current, stepFound, nil
	}
	if err := s.addNeighbors(current); err != nil {
		return current, stepExpanded, err
	}
	return current, stepExpanded, nil
}

// constructFinalPath walks parents back from node to the start and returns the
// path in start-to-end order with its length in metres.
func (s *session[NodeType]) constructFinalPath(node NodeType) ([]NodeType, float64) {
	var (
		path     []NodeType
		distance float64
	)
	for {
		path = append(path, node)
		r := s.records[node]
		if r == nil || !r.hasParent {
			break
		}
		distance += s.model.Distance(node, r.parent)
		node = r.parent
	}
	internal.Reverse(path)
	return path, distance * s.model.MetricScale()
}

func (s *session[NodeType]) openNodes() map[NodeType]bool {
	m := make(map[NodeType]bool, len(s.open))
	for _, entry := range s.open {
		if !s.records[entry.Node].expanded {
			m[entry.Node] = true
		}
	}
	return m
}

func (s *session[NodeType]) closed() map[NodeType]bool {
	m := make(map[NodeType]bool)
	for node, r := range s.records {
		if r.expanded {
			m[node] = true
		}
	}
	return m
}

func (s *session[NodeType]) cameFrom() map[NodeType]NodeType {
	m := make(map[NodeType]NodeType)
	for node, r := range s.records {
		if r.hasParent {
			m[node] = r.parent
		}
	}
	return m
}
