package routeplanner

import (
	"log/slog"
	"runtime"
)

// Model is the map collaborator the planner searches over.
// NodeType is a value handle; it must be comparable so it can key maps.
type Model[NodeType comparable] interface {
	// FindClosestNode returns the node nearest to a point given as fractions
	// (0.0-1.0) of the map's bounding box.
	FindClosestNode(x, y float64) (NodeType, error)
	// FindNeighbors returns the nodes directly reachable from node.
	FindNeighbors(node NodeType) ([]NodeType, error)
	// Distance is symmetric and non-negative, in the model's native units.
	Distance(a, b NodeType) float64
	// MetricScale converts native distance units to metres.
	MetricScale() float64
}

// Result contains the outcome of a search
type Result[NodeType comparable] struct {
	Path          []NodeType
	Distance      float64 // metres
	ExpandedNodes int
	Found         bool
}

// Relaxation selects how re-encountered neighbors are treated during expansion.
type Relaxation int

const (
	// RelaxOverwrite discovers only unvisited neighbors and unconditionally
	// assigns their g, h and parent. Each node enters the frontier once.
	RelaxOverwrite Relaxation = iota
	// RelaxImproving additionally re-relaxes visited, unexpanded neighbors when
	// the new g is strictly lower. Returns optimal routes where RelaxOverwrite
	// may keep the first, worse, discovery.
	RelaxImproving
)

// String returns the config spelling of the policy.
func (r Relaxation) String() string {
	switch r {
	case RelaxOverwrite:
		return "overwrite"
	case RelaxImproving:
		return "improving"
	default:
		return "unknown"
	}
}

// ParseRelaxation converts a config value to a Relaxation.
func ParseRelaxation(s string) (Relaxation, error) {
	switch s {
	case "", "overwrite":
		return RelaxOverwrite, nil
	case "improving":
		return RelaxImproving, nil
	default:
		return RelaxOverwrite, &UnknownRelaxationError{Value: s}
	}
}

// Options defines parameters for the search.
type Options struct {
	Relaxation      Relaxation
	MaxExpansions   int
	Logger          *slog.Logger
	Metrics         *Metrics
	NumberOfWorkers int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithRelaxation selects the relaxation policy. Defaults to RelaxOverwrite.
func WithRelaxation(relaxation Relaxation) Option {
	return func(options *Options) { options.Relaxation = relaxation }
}

// WithMaxExpansions stops a search with ErrExpansionLimit after n expansions.
// Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// WithLogger sets the logger used for per-search debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithMetrics records search outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(options *Options) { options.Metrics = m }
}

// WithWorkers specifies how many goroutines RunBatch uses.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		Relaxation:      RelaxOverwrite,
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}
