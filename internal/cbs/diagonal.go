package cbs

import (
	"math"
	"sort"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/search"
	"github.com/elektrokombinacija/mapf-cbs/internal/vertexcover"
)

type diagonalDirection int

const (
	dirUp diagonalDirection = iota
	dirDown
)

type diagonalHalf int

const (
	halfLeft diagonalHalf = iota
	halfRight
)

type diagonalKey struct {
	direction diagonalDirection
	half      diagonalHalf
	offset    int
}

// directionVecs are the two canonical movement directions for this diagonal, plus wait.
func (d diagonalKey) directionVecs() [3][2]int {
	switch {
	case d.direction == dirUp && d.half == halfLeft:
		return [3][2]int{{-1, 0}, {0, -1}, {0, 0}}
	case d.direction == dirUp && d.half == halfRight:
		return [3][2]int{{1, 0}, {0, 1}, {0, 0}}
	case d.direction == dirDown && d.half == halfLeft:
		return [3][2]int{{0, 1}, {-1, 0}, {0, 0}}
	default:
		return [3][2]int{{0, -1}, {1, 0}, {0, 0}}
	}
}

// classifyDiagonal assigns agent to one of the four diagonal families by the sign
// pattern of goal-start, with the offset chosen so agents sharing a diagonal line in
// that family share the same offset.
func classifyDiagonal(agent core.Agent, grid *core.Grid) diagonalKey {
	sx, sy := agent.Start.X, agent.Start.Y
	gx, gy := agent.Goal.X, agent.Goal.Y
	goalDownRight := gx >= sx && gy >= sy
	goalUpLeft := gx <= sx && gy <= sy
	goalDownLeft := gx <= sx && gy >= sy
	switch {
	case goalUpLeft:
		return diagonalKey{dirUp, halfLeft, sx + sy}
	case goalDownRight:
		return diagonalKey{dirUp, halfRight, sx + sy}
	case goalDownLeft:
		return diagonalKey{dirDown, halfLeft, (grid.Width - sx - 1) + sy}
	default:
		return diagonalKey{dirDown, halfRight, (grid.Width - sx - 1) + sy}
	}
}

func withinDiagonalSortKey(d diagonalKey, agent core.Agent) int {
	switch {
	case d.direction == dirUp && d.half == halfLeft:
		return agent.Start.X
	case d.direction == dirUp && d.half == halfRight:
		return -agent.Start.X
	case d.direction == dirDown && d.half == halfLeft:
		return -agent.Start.X
	default:
		return agent.Start.X
	}
}

func diagonalKindSortKey(kind diagonalKey) int {
	switch {
	case kind.direction == dirUp && kind.half == halfLeft:
		return kind.offset
	case kind.direction == dirUp && kind.half == halfRight:
		return -kind.offset
	case kind.direction == dirDown && kind.half == halfLeft:
		return -kind.offset
	default:
		return kind.offset
	}
}

// diagonallyDependent reports whether two agents sharing a diagonal must cross each
// other's path: their start and goal coordinates interleave on both axes.
func diagonallyDependent(a, b core.Agent) bool {
	return (a.Start.X-b.Start.X)*(a.Goal.X-b.Goal.X) < 0 && (a.Start.Y-b.Start.Y)*(a.Goal.Y-b.Goal.Y) < 0
}

func inBoundingBox(c core.Cell, agent core.Agent) bool {
	minX, maxX := agent.Start.X, agent.Goal.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := agent.Start.Y, agent.Goal.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return c.X >= minX && c.X <= maxX && c.Y >= minY && c.Y <= maxY
}

func maxWaitsExceeded(path core.Path, allowed int) bool {
	waits := 0
	for i := 1; i < len(path); i++ {
		if path[i] == path[i-1] {
			waits++
			if waits > allowed {
				return true
			}
		}
	}
	return false
}

// planDiagonalAgentPath routes one agent using only its diagonal's two canonical
// directions plus wait, confined to the axis-aligned bounding box of its start/goal,
// via bounded DFS; extraObstacles carries both that agent's own constraints and the
// cells already claimed by earlier agents in this diagonal pass.
func planDiagonalAgentPath(agent core.Agent, diag diagonalKey, auxGrid *core.Grid, extraObstacles map[core.LocationTime]core.ObstacleSet, slackness int) (core.Path, bool) {
	latestGoalObstacle := math.MinInt
	for loc, set := range extraObstacles {
		if loc.Cell == agent.Goal && len(set) == 0 && loc.Time > latestGoalObstacle {
			latestGoalObstacle = loc.Time
		}
	}

	vecs := diag.directionVecs()
	visited := map[core.LocationTime]bool{}
	var path core.Path

	found := search.DFS(
		visited,
		func(cur core.LocationTime, prev *core.LocationTime) bool {
			if prev != nil && cur.Cell == prev.Cell && (slackness == 0 || maxWaitsExceeded(append(path, cur.Cell), slackness)) {
				return false
			}
			path = append(path, cur.Cell)
			return true
		},
		func(cur core.LocationTime, prev *core.LocationTime) {
			path = path[:len(path)-1]
		},
		core.LocationTime{Cell: agent.Start, Time: 0}, nil,
		func(cur core.LocationTime) []core.LocationTime {
			var out []core.LocationTime
			for _, d := range vecs {
				next := core.LocationTime{Cell: cur.Cell.Add(d[0], d[1]), Time: cur.Time + 1}
				if !auxGrid.IsValidLocationTime(next, cur.Cell) {
					continue
				}
				if !inBoundingBox(next.Cell, agent) {
					continue
				}
				if blockedByExtra(next, cur.Cell, extraObstacles) {
					continue
				}
				out = append(out, next)
			}
			return out
		},
		func(cur core.LocationTime) bool { return cur.Cell == agent.Goal },
	)

	if len(path)-1 <= latestGoalObstacle {
		return path, false
	}
	return path, found
}

func blockedByExtra(loc core.LocationTime, prev core.Cell, extra map[core.LocationTime]core.ObstacleSet) bool {
	set, ok := extra[loc]
	if !ok {
		return false
	}
	if len(set) == 0 {
		return true
	}
	_, blocked := set[prev]
	return blocked
}

// DiagonalSubsolver preprocesses a conflict tree node by pre-planning "monotone" agents
// — those travelling consistently in one quadrant direction — with cheap bounded DFS
// instead of full space-time A*, before the low-level solver handles whatever's left.
type DiagonalSubsolver struct {
	Slackness int
	Promotion bool
}

// Preprocess implements NodePreprocessor.
func (ds DiagonalSubsolver) Preprocess(n *Node) {
	grouped := make(map[diagonalKey][]core.Agent)
	for _, agent := range n.Agents {
		key := classifyDiagonal(agent, n.cfg.Grid)
		grouped[key] = append(grouped[key], agent)
	}
	for key, agents := range grouped {
		sort.Slice(agents, func(i, j int) bool {
			return withinDiagonalSortKey(key, agents[i]) < withinDiagonalSortKey(key, agents[j])
		})
		grouped[key] = agents
	}

	kinds := []struct {
		direction diagonalDirection
		half      diagonalHalf
	}{
		{dirUp, halfLeft}, {dirUp, halfRight}, {dirDown, halfLeft}, {dirDown, halfRight},
	}
	for _, kind := range kinds {
		var diagonals []diagonalKey
		for key := range grouped {
			if key.direction == kind.direction && key.half == kind.half {
				diagonals = append(diagonals, key)
			}
		}
		sort.Slice(diagonals, func(i, j int) bool {
			return diagonalKindSortKey(diagonals[i]) < diagonalKindSortKey(diagonals[j])
		})
		ds.planKind(n, diagonals, grouped)
	}
}

func (ds DiagonalSubsolver) planKind(n *Node, diagonals []diagonalKey, grouped map[diagonalKey][]core.Agent) {
	auxGrid := n.cfg.Grid.Clone()
	var promoted []core.Agent

	for _, key := range diagonals {
		augmented := append(append([]core.Agent{}, grouped[key]...), promoted...)

		var toPromote map[string]struct{}
		if ds.Promotion {
			toPromote = vertexCoverAgentSet(augmented)
		}

		planned := make(map[string]core.Path)
		plannedObstacles := make(map[core.LocationTime]core.ObstacleSet)
		var stillPromoted []core.Agent

		for _, agent := range augmented {
			if _, promote := toPromote[agent.ID]; promote {
				stillPromoted = append(stillPromoted, agent)
				continue
			}
			extra := make(map[core.LocationTime]core.ObstacleSet)
			for _, c := range n.Constraints {
				if c.Agent != agent.ID {
					continue
				}
				loc, obstacles := c.ToObstacle()
				extra[loc] = obstacles
			}
			for loc, obstacles := range plannedObstacles {
				extra[loc] = obstacles
			}

			path, ok := planDiagonalAgentPath(agent, key, auxGrid, extra, ds.Slackness)
			if !ok {
				continue
			}
			for t, cell := range path {
				plannedObstacles[core.LocationTime{Cell: cell, Time: t}] = core.ObstacleSet{}
			}
			planned[agent.ID] = path
		}

		for _, agent := range stillPromoted {
			if _, done := planned[agent.ID]; !done {
				promoted = append(promoted, agent)
			}
		}
		promoted = dedupeAgents(promoted, planned)

		for id, path := range planned {
			n.Paths[id] = path
			agent := n.agentByID(id)
			auxGrid.AddObstacle(core.LocationTime{Cell: agent.Goal, Time: core.AllTimes}, core.ObstacleSet{})
		}
	}
}

func dedupeAgents(agents []core.Agent, planned map[string]core.Path) []core.Agent {
	seen := make(map[string]struct{})
	var out []core.Agent
	for _, a := range agents {
		if _, done := planned[a.ID]; done {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

// vertexCoverAgentSet builds the dependency graph among agents sharing a diagonal pass
// and returns the agent ids its minimum vertex cover selects for promotion to a later
// diagonal.
func vertexCoverAgentSet(agents []core.Agent) map[string]struct{} {
	graph := vertexcover.NewGraph[string]()
	for i := 0; i < len(agents); i++ {
		for j := i + 1; j < len(agents); j++ {
			if diagonallyDependent(agents[i], agents[j]) {
				graph.AddEdge(agents[i].ID, agents[j].ID)
			}
		}
	}
	cover := vertexcover.FindMinimum(graph)
	out := make(map[string]struct{}, len(cover))
	for _, id := range cover {
		out[id] = struct{}{}
	}
	return out
}
