package cbs

import (
	"fmt"

	"github.com/elektrokombinacija/mapf-cbs/internal/mdd"
	"github.com/elektrokombinacija/mapf-cbs/internal/vertexcover"
)

// Heuristic estimates the remaining cost of a conflict tree node for the high-level
// search.
type Heuristic interface {
	H(n *Node) float64
}

// ZeroHeuristic is plain CBS: no lookahead, relies entirely on the kernel's g-ordering.
type ZeroHeuristic struct{}

// H always returns zero.
func (ZeroHeuristic) H(n *Node) float64 { return 0 }

// DGHeuristic is the dependency-graph heuristic: its value is the size of a minimum
// vertex cover of the graph connecting every pair of agents whose joint MDD proves they
// cannot both reach their goals without colliding — each such pair needs at least one
// more high-level split, so the cover size lower-bounds the remaining splits.
type DGHeuristic struct {
	mddCache *mdd.Cache
}

// NewDGHeuristic creates a DG heuristic with an empty per-solve MDD cache.
func NewDGHeuristic() *DGHeuristic {
	return &DGHeuristic{mddCache: mdd.NewCache()}
}

// H computes the dependency graph for n and returns its minimum vertex cover's size.
func (h *DGHeuristic) H(n *Node) float64 {
	ids := n.agentIDs()
	graph := vertexcover.NewGraph[string]()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if h.dependent(n, ids[i], ids[j]) {
				graph.AddEdge(ids[i], ids[j])
			}
		}
	}
	return float64(len(vertexcover.FindMinimum(graph)))
}

// dependent reports whether agents a and b are forced to conflict: the merge of their
// MDDs either can't reach (goal_a, goal_b) in its last layer, or has an empty
// intermediate layer (no simultaneous placement possible at all at some step).
func (h *DGHeuristic) dependent(n *Node, a, b string) bool {
	ca, cb := len(n.Paths[a])-1, len(n.Paths[b])-1
	mddA, errA := h.mddFor(n, a, ca)
	if errA != nil {
		return false // GoalUnreachable: leave this pair's dependency unknown
	}
	mddB, errB := h.mddFor(n, b, cb)
	if errB != nil {
		return false
	}
	c := ca
	if cb > c {
		c = cb
	}
	if c < 0 {
		c = 0
	}
	joint := mdd.Merge(mddA, mddB, c)
	agentA, agentB := n.agentByID(a), n.agentByID(b)
	if !joint.LastLayerContains(agentA.Goal, agentB.Goal) {
		return true
	}
	for _, layer := range joint.Layers {
		if len(layer) == 0 {
			return true
		}
	}
	return false
}

func (h *DGHeuristic) mddFor(n *Node, agentID string, c int) (mdd.MDD, error) {
	if c < 0 {
		c = 0
	}
	key := fmt.Sprintf("%s#%s@%d", agentID, n.constraintFingerprintFor(agentID), c)
	grid := n.privateGrid(agentID)
	agent := n.agentByID(agentID)
	return h.mddCache.Get(key, grid, agent.Start, agent.Goal, c)
}
