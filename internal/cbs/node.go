// Package cbs implements conflict-based search: a high-level A* over conflict tree
// nodes, each of which holds one single-agent plan per agent plus the constraints that
// produced them, delegating single-agent replanning to the low-level solver.
package cbs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/lowlevel"
)

// Node is one conflict tree node: a candidate joint plan, the constraints that produced
// it, and the conflicts still present in it. Construction always leaves a node fully
// planned and its conflicts computed.
type Node struct {
	Agents      []core.Agent
	Constraints []core.Constraint
	Paths       map[string]core.Path
	Conflicts   []core.Conflict

	cfg *Config
}

// New constructs a node: runs the preprocessor, plans any agent still missing a path,
// and computes the resulting conflicts. err is non-nil only when the low-level solver
// could not find any path at all for some agent (infeasible under the given
// constraints) — the caller decides whether that's fatal (at the root) or just prunes
// this branch (mid-tree).
func New(agents []core.Agent, constraints []core.Constraint, precomputedPaths map[string]core.Path, cfg *Config) (*Node, error) {
	n := &Node{
		Agents:      agents,
		Constraints: constraints,
		Paths:       clonePaths(precomputedPaths),
		cfg:         cfg,
	}
	if cfg.NodePreprocessor != nil {
		cfg.NodePreprocessor(n)
	}
	if err := n.computePaths(); err != nil {
		return nil, err
	}
	n.Conflicts = computeConflicts(n.agentIDs(), n.Paths)
	return n, nil
}

func clonePaths(src map[string]core.Path) map[string]core.Path {
	out := make(map[string]core.Path, len(src))
	for id, p := range src {
		out[id] = p.Clone()
	}
	return out
}

func (n *Node) agentByID(id string) core.Agent {
	for _, a := range n.Agents {
		if a.ID == id {
			return a
		}
	}
	return core.Agent{}
}

// constraintFingerprintFor is the canonical (agent, its-constraints) cache key the DG
// heuristic memoizes MDDs and dependency weights against: two nodes where agentID's own
// constraint subset is identical will always build the same private grid for it.
func (n *Node) constraintFingerprintFor(agentID string) string {
	var fingerprints []string
	for _, c := range n.Constraints {
		if c.Agent != agentID {
			continue
		}
		fingerprints = append(fingerprints, constraintFingerprint(c))
	}
	sort.Strings(fingerprints)
	return strings.Join(fingerprints, "|")
}

func (n *Node) agentIDs() []string {
	ids := make([]string, len(n.Agents))
	for i, a := range n.Agents {
		ids[i] = a.ID
	}
	return ids
}

// computePaths plans every agent still missing an entry in n.Paths, against a private
// grid unioning the scenario's static obstacles with that agent's own constraints, and
// against a CAT seeded from already-planned paths (when enabled).
func (n *Node) computePaths() error {
	cat := lowlevel.CAT{}
	if n.cfg.UseCAT {
		for _, p := range n.Paths {
			addToCAT(cat, p)
		}
	}

	for _, agent := range n.Agents {
		if _, ok := n.Paths[agent.ID]; ok {
			continue
		}
		grid := n.privateGrid(agent.ID)
		heuristic := n.cfg.lowLevelHeuristic(grid)
		res, err := lowlevel.FindPath(grid, agent.Start, cat, heuristic)
		if err != nil {
			return fmt.Errorf("cbs: agent %s has no feasible path under current constraints: %w", agent.ID, err)
		}
		n.cfg.Stats.LowLevelGenerated += res.NodesGenerated
		n.Paths[agent.ID] = res.Path
		if n.cfg.UseCAT {
			addToCAT(cat, res.Path)
		}
	}
	return nil
}

func addToCAT(cat lowlevel.CAT, path core.Path) {
	for t := 1; t < len(path); t++ {
		cat[core.LocationTime{Cell: path[t], Time: t}] = struct{}{}
	}
}

// privateGrid clones the scenario grid, points it at agentID's own goal, and adds every
// constraint scoped to agentID as an obstacle.
func (n *Node) privateGrid(agentID string) *core.Grid {
	grid := n.cfg.Grid.Clone()
	grid.Goal = n.agentByID(agentID).Goal
	for _, c := range n.Constraints {
		if c.Agent != agentID {
			continue
		}
		loc, obstacles := c.ToObstacle()
		grid.AddObstacle(loc, obstacles)
	}
	return grid
}

// G is the sum of all agents' current path lengths.
func (n *Node) G() float64 {
	total := 0
	for _, p := range n.Paths {
		total += len(p)
	}
	return float64(total)
}

// H delegates to the configured heuristic.
func (n *Node) H() float64 {
	return n.cfg.Heuristic.H(n)
}

// IsGoal reports whether the node's joint plan is already conflict-free.
func (n *Node) IsGoal() bool { return len(n.Conflicts) == 0 }

// ID fingerprints a node by its constraint set, which uniquely determines every path it
// plans (two nodes with the same constraints always replan identically).
func (n *Node) ID() string {
	fingerprints := make([]string, len(n.Constraints))
	for i, c := range n.Constraints {
		fingerprints[i] = constraintFingerprint(c)
	}
	sort.Strings(fingerprints)
	return strings.Join(fingerprints, "|")
}

func constraintFingerprint(c core.Constraint) string {
	if c.HasPrevLoc {
		return fmt.Sprintf("%s@%d:%s<-%s", c.Agent, c.Time, c.Loc, c.PrevLoc)
	}
	return fmt.Sprintf("%s@%d:%s", c.Agent, c.Time, c.Loc)
}

// Less implements the kernel tie-break: more constraints first (deeper in the tree),
// then fewer conflicts.
func (n *Node) Less(other *Node) bool {
	if len(n.Constraints) != len(other.Constraints) {
		return len(n.Constraints) > len(other.Constraints)
	}
	return len(n.Conflicts) < len(other.Conflicts)
}

// Expand branches on one conflict, producing up to two children (one per agent, vertex or
// edge constraint), or the single rewritten parent the post-expansion callback returns
// when bypassing applies. An empty result means the node has no viable children (every
// candidate branch was infeasible or already constrained); a node with no conflicts
// returns an empty slice defensively, since IsGoal already covers that case.
func (n *Node) Expand() ([]*Node, bool) {
	if len(n.Conflicts) == 0 {
		return []*Node{}, true
	}
	picker := n.cfg.ConflictPicker
	if picker == nil {
		picker = DefaultConflictPicker
	}
	conflict, ok := picker(n)
	if !ok {
		return nil, false // delayed expansion
	}

	var children []*Node
	if conflict.Kind == core.VertexConflictKind {
		children = n.expandVertex(conflict)
	} else {
		children = n.expandEdge(conflict)
	}

	if n.cfg.PostExpanded != nil {
		children = n.cfg.PostExpanded(n, conflict, children)
	}
	return children, true
}

func (n *Node) expandVertex(conflict core.Conflict) []*Node {
	var children []*Node
	for _, agentID := range []string{conflict.Agent1, conflict.Agent2} {
		constraint := core.VertexConstraint(agentID, conflict.Time, conflict.Loc1)
		if n.hasConstraint(constraint) {
			continue
		}
		child := n.childWithoutAgent(constraint, agentID)
		if child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (n *Node) expandEdge(conflict core.Conflict) []*Node {
	var children []*Node
	// Agent1 travels loc2->loc1; forbid it from entering loc1 at t from loc2.
	// Agent2 travels loc1->loc2; forbid it from entering loc2 at t from loc1.
	moves := []struct {
		agent    string
		to, from core.Cell
	}{
		{conflict.Agent1, conflict.Loc1, conflict.Loc2},
		{conflict.Agent2, conflict.Loc2, conflict.Loc1},
	}
	for _, mv := range moves {
		constraint := core.EdgeConstraint(mv.agent, conflict.Time, mv.from, mv.to)
		if n.hasConstraint(constraint) || n.dominatedByVertex(constraint) {
			continue
		}
		child := n.childWithoutAgent(constraint, mv.agent)
		if child != nil {
			children = append(children, child)
		}
	}
	return children
}

func (n *Node) hasConstraint(c core.Constraint) bool {
	for _, existing := range n.Constraints {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}

// dominatedByVertex reports whether some existing vertex constraint already forbids the
// same (agent, time, loc) the edge constraint would forbid.
func (n *Node) dominatedByVertex(edge core.Constraint) bool {
	for _, existing := range n.Constraints {
		if existing.Dominates(edge) {
			return true
		}
	}
	return false
}

func (n *Node) childWithoutAgent(constraint core.Constraint, agentID string) *Node {
	newConstraints := make([]core.Constraint, len(n.Constraints), len(n.Constraints)+1)
	copy(newConstraints, n.Constraints)
	newConstraints = append(newConstraints, constraint)

	newPaths := make(map[string]core.Path, len(n.Paths))
	for id, p := range n.Paths {
		if id == agentID {
			continue
		}
		newPaths[id] = p
	}

	child, err := New(n.Agents, newConstraints, newPaths, n.cfg)
	if err != nil {
		return nil // infeasible branch: pruned, not fatal
	}
	n.cfg.Stats.HighLevelGenerated++
	return child
}
