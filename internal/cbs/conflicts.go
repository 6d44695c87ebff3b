package cbs

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// computeConflicts scans every time step from 0 to the longest path's length minus one,
// comparing every unordered agent pair still present at that step. An agent whose own
// path has already ended is treated as parked at its last cell (Path.At's convention),
// matching the scan algorithm's map-of-occupants model: an agent is only removed from its
// cell once it actually moves away, never simply because its plan ran out. Enumeration
// walks time then pair index in the fixed agent order, so the result is fully
// deterministic regardless of any map's iteration order.
func computeConflicts(agentIDs []string, paths map[string]core.Path) []core.Conflict {
	maxLen := 0
	for _, id := range agentIDs {
		if l := len(paths[id]); l > maxLen {
			maxLen = l
		}
	}
	var conflicts []core.Conflict
	for t := 0; t < maxLen; t++ {
		for i := 0; i < len(agentIDs); i++ {
			pa := paths[agentIDs[i]]
			cellA, _ := pa.At(t)
			for j := i + 1; j < len(agentIDs); j++ {
				pb := paths[agentIDs[j]]
				cellB, _ := pb.At(t)
				if cellA == cellB {
					conflicts = append(conflicts, core.VertexConflict(agentIDs[i], agentIDs[j], t, cellA))
				}
				if t > 0 {
					prevA, _ := pa.At(t - 1)
					prevB, _ := pb.At(t - 1)
					if prevA == cellB && cellA == prevB {
						conflicts = append(conflicts, core.EdgeConflict(agentIDs[i], agentIDs[j], t, cellA, prevA))
					}
				}
			}
		}
	}
	return conflicts
}
