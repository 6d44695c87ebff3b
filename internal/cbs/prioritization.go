package cbs

import (
	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/mdd"
)

// cardinality ranks how forced a conflict is: Cardinal < SemiCardinal < NonCardinal, so
// sorting (or min-ing) by cardinality prefers branching on conflicts most likely to
// shrink the tree.
type cardinality int

const (
	cardinal cardinality = iota
	semiCardinal
	nonCardinal
)

// PrioritizingConflictPicker picks the conflict whose two agents are least free to
// route around it: a conflict is Cardinal when both agents' MDD layers at the conflict
// step are singletons (neither can avoid it without lengthening its path), Semi-cardinal
// when only one is, and Non-cardinal otherwise.
func PrioritizingConflictPicker(n *Node) (core.Conflict, bool) {
	if len(n.Conflicts) == 0 {
		return core.Conflict{}, false
	}
	best := n.Conflicts[0]
	bestRank := conflictCardinality(n, best)
	for _, c := range n.Conflicts[1:] {
		if rank := conflictCardinality(n, c); rank < bestRank {
			best, bestRank = c, rank
		}
	}
	return best, true
}

func conflictCardinality(n *Node, conflict core.Conflict) cardinality {
	c1 := len(n.Paths[conflict.Agent1])
	c2 := len(n.Paths[conflict.Agent2])
	mdd1, err1 := mdd.Build(n.privateGrid(conflict.Agent1), n.agentByID(conflict.Agent1).Start, n.agentByID(conflict.Agent1).Goal, c1)
	mdd2, err2 := mdd.Build(n.privateGrid(conflict.Agent2), n.agentByID(conflict.Agent2).Start, n.agentByID(conflict.Agent2).Goal, c2)
	if err1 != nil || err2 != nil {
		return nonCardinal
	}
	singleton1 := len(mdd1.At(conflict.Time)) == 1
	singleton2 := len(mdd2.At(conflict.Time)) == 1
	switch {
	case singleton1 && singleton2:
		return cardinal
	case singleton1 || singleton2:
		return semiCardinal
	default:
		return nonCardinal
	}
}
