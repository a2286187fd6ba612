package roadmodel

import "errors"

// Sentinel errors for model construction and lookup.
var (
	// ErrEmptyModel is returned by FindClosestNode when no node lies on a road.
	ErrEmptyModel = errors.New("model has no road nodes")

	// ErrUnknownNode is returned when a node handle does not belong to the model.
	ErrUnknownNode = errors.New("unknown node")

	// ErrInvalidMap is returned when map data fails validation.
	ErrInvalidMap = errors.New("invalid map")
)
