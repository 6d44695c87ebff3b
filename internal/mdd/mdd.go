// Package mdd builds multi-value decision diagrams: the layered set of cells lying on
// some shortest path of a given length between an agent's start and goal, and the joint
// MDD of two agents used by the dependency heuristic and conflict prioritization to test
// whether two agents can reach their goals without ever colliding.
package mdd

import (
	"errors"
	"fmt"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/search"
)

// ErrGoalUnreachable is returned when the forward sweep cannot reach the goal within c
// steps — no path of exactly that length exists.
var ErrGoalUnreachable = errors.New("mdd: goal unreachable within given horizon")

// MDD is a layered decision diagram: Layers[k] holds every cell lying on some shortest
// path of length len(Layers)-1 from an agent's start to its goal.
type MDD struct {
	Layers []map[core.Cell]struct{}
}

// Depth returns the MDD's horizon (its last layer index).
func (m MDD) Depth() int { return len(m.Layers) - 1 }

// At returns the layer at level k, reusing the last layer once k exceeds the MDD's
// depth — the agent simply waits at its goal beyond its own horizon.
func (m MDD) At(k int) map[core.Cell]struct{} {
	if k >= len(m.Layers) {
		return m.Layers[len(m.Layers)-1]
	}
	return m.Layers[k]
}

type bfsNode struct {
	cell          core.Cell
	goalReachable bool
	distFromGoal  int
	visited       bool
}

// Build runs the two-BFS-sweep construction: a backward sweep from goal recording each
// reached cell's distance back to goal, then a forward sweep from start assigning cells
// to layers, keeping only cells whose distance-from-goal still fits within budget c.
func Build(grid *core.Grid, start, goal core.Cell, c int) (MDD, error) {
	nodes := make(map[core.Cell]*bfsNode)
	nodes[goal] = &bfsNode{cell: goal, goalReachable: true}

	search.BFS(goal, c, func(cell core.Cell, level int) bool {
		n := nodes[cell]
		n.goalReachable = true
		n.distFromGoal = level
		return false
	}, func(cell core.Cell, level int) []core.Cell {
		// The backward sweep respects only spatial validity: there is no direction of
		// travel yet to test a conditional (edge) obstacle against.
		var out []core.Cell
		for _, next := range core.Neighbors4(cell) {
			if !grid.IsValidLocation(next) {
				continue
			}
			if _, seen := nodes[next]; seen {
				continue
			}
			nodes[next] = &bfsNode{cell: next}
			out = append(out, next)
		}
		return out
	})

	startNode, ok := nodes[start]
	if !ok || !startNode.goalReachable {
		return MDD{}, fmt.Errorf("mdd: start %s cannot reach goal %s within %d steps: %w", start, goal, c, ErrGoalUnreachable)
	}

	layers := make([]map[core.Cell]struct{}, c+1)
	for k := range layers {
		layers[k] = make(map[core.Cell]struct{})
	}

	search.BFS(start, c, func(cell core.Cell, level int) bool {
		n := nodes[cell]
		if n.visited {
			return true
		}
		n.visited = true
		if n.goalReachable && n.distFromGoal+level <= c {
			layers[level][cell] = struct{}{}
		}
		return false
	}, func(cell core.Cell, level int) []core.Cell {
		// Neighbours are filtered by time-indexed validity at (candidate, level+1), so a
		// dynamic constraint at the specific step an agent would arrive there prunes it
		// from the layer, unlike the backward sweep's spatial-only check.
		var out []core.Cell
		for _, candidate := range core.Neighbors4(cell) {
			n, seen := nodes[candidate]
			if !seen || n.visited {
				continue
			}
			if !grid.IsValidLocationTime(core.LocationTime{Cell: candidate, Time: level + 1}, cell) {
				continue
			}
			out = append(out, candidate)
		}
		return out
	})

	return MDD{Layers: layers}, nil
}
