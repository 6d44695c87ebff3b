package lowlevel

import (
	"math"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/search"
)

// Heuristic estimates the remaining cost from a location-time to the grid's goal.
type Heuristic interface {
	H(loc core.LocationTime) float64
}

// ManhattanDistance is the admissible, obstacle-blind fallback heuristic.
type ManhattanDistance struct {
	Goal core.Cell
}

// H returns the Manhattan distance from loc to the goal.
func (m ManhattanDistance) H(loc core.LocationTime) float64 {
	return float64(loc.Cell.ManhattanDistance(m.Goal))
}

// distanceNode adapts a bare Cell into a search.Node for the backward, obstacle-pruned
// BFS-by-A* that TrueDistance runs from the goal outward. Its heuristic is always zero,
// making the resumable search a uniform-cost (Dijkstra) exploration outward from the
// goal in strictly increasing g order — exactly the order TrueDistance needs to resolve
// queries lazily as they're asked.
type distanceNode struct {
	cell core.Cell
	g    float64
	grid *core.Grid
}

func (n distanceNode) G() float64   { return n.g }
func (n distanceNode) H() float64   { return 0 }
func (n distanceNode) IsGoal() bool { return false } // driven externally via BestG, never via Run's own goal test
func (n distanceNode) ID() string   { return n.cell.String() }
func (n distanceNode) Less(other distanceNode) bool {
	if n.cell.X != other.cell.X {
		return n.cell.X < other.cell.X
	}
	return n.cell.Y < other.cell.Y
}

func (n distanceNode) Expand() ([]distanceNode, bool) {
	var out []distanceNode
	for _, next := range core.Neighbors4(n.cell) {
		// The backward sweep respects only spatial validity: it has no direction of
		// travel to test a conditional (edge) obstacle against.
		if !n.grid.IsValidLocation(next) {
			continue
		}
		out = append(out, distanceNode{cell: next, g: n.g + 1, grid: n.grid})
	}
	return out, true
}

// TrueDistance is the exact shortest-path-in-the-obstacle-pruned-grid heuristic. It is
// built lazily: queries run a resumable, goal-less uniform-cost search backward from the
// grid's goal in bounded runs, expanding cells in non-decreasing true distance until the
// queried cell has a best_g. On this unit-cost grid a cell's first recorded best_g is
// already its true distance, so that entry is final and is reused by every later query
// for the same cell. Because IsGoal always reports false, a run never stops at a goal;
// each bounded run ends when the next cell to expand lies beyond its bound.
type TrueDistance struct {
	grid  *core.Grid
	state *search.State[distanceNode]
}

// NewTrueDistance creates a TrueDistance heuristic seeded at grid's goal.
func NewTrueDistance(grid *core.Grid) *TrueDistance {
	td := &TrueDistance{grid: grid, state: search.NewState[distanceNode]()}
	td.state.Seed(distanceNode{cell: grid.Goal, g: 0, grid: grid})
	return td
}

// H resolves the true distance from loc to the grid's goal, resuming the backward
// search just far enough to reach loc if it hasn't already. An unreachable loc reports
// +Inf once the backward search has exhausted the goal's whole connected component.
func (td *TrueDistance) H(loc core.LocationTime) float64 {
	if g, ok := td.state.BestG(loc.Cell.String()); ok {
		return g
	}
	bound := float64(loc.Cell.ManhattanDistance(td.grid.Goal))
	if bound < 1 {
		bound = 1
	}
	for {
		_, err := td.state.Run(bound)
		if g, ok := td.state.BestG(loc.Cell.String()); ok {
			return g
		}
		if err == search.ErrNotFound && td.state.Exhausted() {
			return math.Inf(1)
		}
		bound *= 2
	}
}
