package routeplanner

import "context"

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[NodeType comparable] struct {
	Current   NodeType
	Open      map[NodeType]bool
	Closed    map[NodeType]bool
	CameFrom  map[NodeType]NodeType
	Done      bool
	Found     bool
	Path      []NodeType
	Distance  float64
	StepIndex int
}

// Stepper drives a planner's search one expansion at a time.
// It shares expansion and selection with Planner.Search, so stepping to
// completion yields the same path.
type Stepper[NodeType comparable] struct {
	ctx           context.Context
	session       *session[NodeType]
	maxExpansions int

	stepCount int
	done      bool
	found     bool
	path      []NodeType
	distance  float64
}

// NewStepper starts a fresh search session for planner.
func NewStepper[NodeType comparable](ctx context.Context, planner *Planner[NodeType]) *Stepper[NodeType] {
	return &Stepper[NodeType]{
		ctx:           ctx,
		session:       newSession(planner.model, planner.start, planner.end, planner.options.Relaxation),
		maxExpansions: planner.options.MaxExpansions,
	}
}

// Step advances the search by one node expansion and returns a snapshot.
// Once the search is done every further call returns the final snapshot.
// An exhausted frontier is reported as Done with Found false. Reaching the
// WithMaxExpansions bound ends stepping with ErrExpansionLimit.
func (s *Stepper[NodeType]) Step() (StepSnapshot[NodeType], error) {
	if s.done {
		return s.snapshot(s.lastCurrent()), nil
	}
	if err := s.ctx.Err(); err != nil {
		s.done = true
		return StepSnapshot[NodeType]{Done: true, StepIndex: s.stepCount}, err
	}
	if s.maxExpansions > 0 && s.session.expanded >= s.maxExpansions {
		s.done = true
		return s.snapshot(s.lastCurrent()), ErrExpansionLimit
	}

	current, state, err := s.session.step()
	switch state {
	case stepExhausted:
		s.done = true
		return s.snapshot(current), nil
	case stepFound:
		s.stepCount++
		s.done = true
		s.found = true
		s.path, s.distance = s.session.constructFinalPath(current)
		return s.snapshot(current), nil
	}

	s.stepCount++
	if err != nil {
		s.done = true
		return s.snapshot(current), err
	}
	return s.snapshot(current), nil
}

func (s *Stepper[NodeType]) lastCurrent() NodeType {
	if len(s.path) > 0 {
		return s.path[len(s.path)-1]
	}
	var zero NodeType
	return zero
}

func (s *Stepper[NodeType]) snapshot(current NodeType) StepSnapshot[NodeType] {
	return StepSnapshot[NodeType]{
		Current:   current,
		Open:      s.session.openNodes(),
		Closed:    s.session.closed(),
		CameFrom:  s.session.cameFrom(),
		Done:      s.done,
		Found:     s.found,
		Path:      append([]NodeType(nil), s.path...),
		Distance:  s.distance,
		StepIndex: s.stepCount,
	}
}
