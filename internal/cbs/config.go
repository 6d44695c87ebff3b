package cbs

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/lowlevel"
)

// ConflictPicker selects which conflict a node should branch on next. Returning
// (zero, false) requests delayed expansion (the kernel re-enqueues the node unchanged).
type ConflictPicker func(n *Node) (core.Conflict, bool)

// NodePreprocessor runs once at node construction, before paths are computed, and may
// populate some agents' paths itself (the diagonal subsolver's role).
type NodePreprocessor func(n *Node)

// PostExpandedCallback may rewrite a conflict's freshly expanded children — the
// bypassing optimisation's hook.
type PostExpandedCallback func(parent *Node, conflict core.Conflict, children []*Node) []*Node

// Stats accumulates counters across an entire solve. It is owned by one Config/solve and
// never shared across instances or goroutines, so no synchronization is needed.
type Stats struct {
	HighLevelGenerated int
	LowLevelGenerated  int
}

// Config is the shared, read-only (aside from Stats) context every node in one solve's
// tree is built against: the static scenario and the pluggable strategy points.
type Config struct {
	Grid             *core.Grid
	UseCAT           bool
	Heuristic        Heuristic
	ConflictPicker   ConflictPicker
	NodePreprocessor NodePreprocessor
	PostExpanded     PostExpandedCallback
	Stats            *Stats

	// ManhattanLowLevel selects the simpler, obstacle-blind low-level heuristic instead
	// of the default exact true-distance one — mainly useful for tests and for very
	// small grids where the backward search's setup cost dominates.
	ManhattanLowLevel bool
}

// lowLevelHeuristic builds the low-level heuristic a replanning query should use
// against grid: the exact true-distance heuristic by default, or Manhattan distance
// when ManhattanLowLevel opts out of it.
func (cfg *Config) lowLevelHeuristic(grid *core.Grid) lowlevel.Heuristic {
	if cfg.ManhattanLowLevel {
		return lowlevel.ManhattanDistance{Goal: grid.Goal}
	}
	return lowlevel.NewTrueDistance(grid)
}

// DefaultConflictPicker returns the earliest-time conflict, tie-broken by the
// conflicts' enumeration order (itself deterministic — sorted by time then pair index),
// satisfying the "first conflict" rule without depending on map iteration order.
func DefaultConflictPicker(n *Node) (core.Conflict, bool) {
	if len(n.Conflicts) == 0 {
		return core.Conflict{}, false
	}
	return n.Conflicts[0], true
}
