package routeplanner

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by searches.
var (
	// ErrNoPath is returned when the frontier is exhausted before the end node
	// is reached: start and end lie in disconnected parts of the map.
	ErrNoPath = errors.New("no path found")

	// ErrExpansionLimit is returned when WithMaxExpansions is set and the
	// search expanded that many nodes without reaching the end node.
	ErrExpansionLimit = errors.New("expansion limit reached")
)

// UnknownRelaxationError reports a relaxation policy name that is not recognised.
type UnknownRelaxationError struct {
	Value string
}

func (e *UnknownRelaxationError) Error() string {
	return fmt.Sprintf("unknown relaxation policy %q (want overwrite or improving)", e.Value)
}
