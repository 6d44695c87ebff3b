package cbs

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// BypassingPostExpanded implements conflict bypassing: if replanning produced a child
// whose path for one of the conflict's two agents is no longer than the parent's path
// for that agent, and splicing that single path into the parent strictly reduces the
// parent's conflict count, the split is unnecessary — the parent is rewritten in place
// (same constraints, one swapped-in path) and returned alone instead of both children.
// The comparison is purely on conflict *count*, never identity or content, matching
// the bypass acceptance test.
func BypassingPostExpanded(parent *Node, conflict core.Conflict, children []*Node) []*Node {
	for _, child := range children {
		for _, agentID := range []string{conflict.Agent1, conflict.Agent2} {
			candidatePath, ok := child.Paths[agentID]
			if !ok {
				continue
			}
			parentPath, ok := parent.Paths[agentID]
			if !ok || len(candidatePath) > len(parentPath) {
				continue
			}
			rewritten := rewriteWithPath(parent, agentID, candidatePath)
			if len(rewritten.Conflicts) < len(parent.Conflicts) {
				return []*Node{rewritten}
			}
		}
	}
	return children
}

// rewriteWithPath clones parent's paths, splices in path for agentID, and recomputes
// conflicts against the spliced set — it never re-plans anything, so it can't fail the
// way New can.
func rewriteWithPath(parent *Node, agentID string, path core.Path) *Node {
	newPaths := make(map[string]core.Path, len(parent.Paths))
	for id, p := range parent.Paths {
		newPaths[id] = p
	}
	newPaths[agentID] = path.Clone()

	rewritten := &Node{
		Agents:      parent.Agents,
		Constraints: parent.Constraints,
		Paths:       newPaths,
		cfg:         parent.cfg,
	}
	rewritten.Conflicts = computeConflicts(rewritten.agentIDs(), rewritten.Paths)
	return rewritten
}
