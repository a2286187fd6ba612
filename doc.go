// Package routeplanner computes shortest routes over a road network with A*.
//
// It exposes three entry points:
//
//   - Planner.Search: resolve two map coordinates and run the search to completion.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//   - RunBatch: run many independent queries over one model on a bounded worker pool.
//
// The map itself is supplied by a Model (see the roadmodel package for an
// in-memory implementation). All search scratch state (g, h, parent, visited)
// lives in a per-search session, so a model can serve concurrent searches and a
// Planner can be reused.
package routeplanner
