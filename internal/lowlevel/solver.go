// Package lowlevel implements the single-agent space-time search the conflict tree
// calls to replan one agent against its accumulated constraints: a time-expanded A*
// over (cell, t) pairs, tie-broken against a conflict-avoidance table and guided by
// either a true-distance or Manhattan heuristic.
package lowlevel

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/search"
)

// pathNode is the space-time A* search state: a (cell, t) pair plus the shared grid,
// CAT and heuristic it was expanded under. Equality and hashing are by LocTime alone —
// two nodes at the same cell and time are the same search state regardless of how they
// were reached, matching the "equal/hashed by loc_time only" node identity.
type pathNode struct {
	LocTime   core.LocationTime
	PrevCell  core.Cell
	g         float64
	grid      *core.Grid
	cat       CAT
	heuristic Heuristic
}

func (n pathNode) G() float64 { return n.g }
func (n pathNode) H() float64 { return n.heuristic.H(n.LocTime) }

func (n pathNode) IsGoal() bool {
	return n.LocTime.Cell == n.grid.Goal && n.LocTime.Time > n.grid.LatestGoalObstacleTime(n.grid.Goal)
}

func (n pathNode) ID() string { return n.LocTime.String() }

// Less implements the kernel tie-break: prefer the node not in the CAT, then the node
// with the later time (a longer partial path suggests a shorter residual), then
// lexicographic cell order, for full determinism.
func (n pathNode) Less(other pathNode) bool {
	nIn, oIn := n.cat.Contains(n.LocTime.Cell, n.LocTime.Time), other.cat.Contains(other.LocTime.Cell, other.LocTime.Time)
	if nIn != oIn {
		return !nIn
	}
	if n.LocTime.Time != other.LocTime.Time {
		return n.LocTime.Time > other.LocTime.Time
	}
	if n.LocTime.Cell.X != other.LocTime.Cell.X {
		return n.LocTime.Cell.X < other.LocTime.Cell.X
	}
	return n.LocTime.Cell.Y < other.LocTime.Cell.Y
}

func (n pathNode) Expand() ([]pathNode, bool) {
	candidates := [5]core.Cell{
		n.LocTime.Cell.Add(0, -1),
		n.LocTime.Cell.Add(0, 1),
		n.LocTime.Cell.Add(1, 0),
		n.LocTime.Cell.Add(-1, 0),
		n.LocTime.Cell,
	}
	out := make([]pathNode, 0, 5)
	for _, cell := range candidates {
		next := core.LocationTime{Cell: cell, Time: n.LocTime.Time + 1}
		if !n.grid.IsValidLocationTime(next, n.LocTime.Cell) {
			continue
		}
		out = append(out, pathNode{
			LocTime:   next,
			PrevCell:  n.LocTime.Cell,
			g:         n.g + 1,
			grid:      n.grid,
			cat:       n.cat,
			heuristic: n.heuristic,
		})
	}
	return out, true
}

// Result is the outcome of a single-agent query: the planned cell sequence and the
// number of nodes the search generated while finding it.
type Result struct {
	Path           core.Path
	NodesGenerated int
}

// FindPath runs space-time A* for one agent from start against grid (already carrying
// the conflict tree's accumulated constraints), tie-breaking against cat with
// heuristic. The search never fails logically on a well-formed instance — a wait at
// start is always legal unless start itself is permanently blocked — so a non-nil error
// here is search.ErrNotFound surfacing genuine infeasibility (permanent obstacles wall
// the goal off, or constraints leave every branch without a legal move).
func FindPath(grid *core.Grid, start core.Cell, cat CAT, heuristic Heuristic) (Result, error) {
	// Waiting is always possible, so a goal cut off by permanent obstacles would keep the
	// space-time search running forever; rule that case out before searching.
	seen := map[core.Cell]bool{start: true}
	stack := []core.Cell{start}
	for len(stack) > 0 && !seen[grid.Goal] {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range core.Neighbors4(cur) {
			if !seen[next] && grid.IsValidLocationTime(core.LocationTime{Cell: next, Time: core.AllTimes}, cur) {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	if !seen[grid.Goal] {
		return Result{}, search.ErrNotFound
	}
	root := pathNode{
		LocTime:   core.LocationTime{Cell: start, Time: 0},
		PrevCell:  start,
		g:         0,
		grid:      grid,
		cat:       cat,
		heuristic: heuristic,
	}
	nodes, generated, err := search.Search[pathNode](root)
	if err != nil {
		return Result{}, err
	}
	path := make(core.Path, len(nodes))
	for i, n := range nodes {
		path[i] = n.LocTime.Cell
	}
	return Result{Path: path, NodesGenerated: generated}, nil
}
