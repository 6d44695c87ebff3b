package lowlevel

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// CAT is a conflict-avoidance table: the (cell, time) footprint of other agents'
// currently planned paths, consulted by the low-level tie-break as a soft preference,
// never a hard constraint.
type CAT map[core.LocationTime]struct{}

// NewCAT builds a CAT from a set of already-planned paths, skipping the path named
// skipAgent (an agent's own path never avoids itself).
func NewCAT(paths map[string]core.Path, skipAgent string) CAT {
	cat := make(CAT)
	for agent, path := range paths {
		if agent == skipAgent {
			continue
		}
		for t, cell := range path {
			cat[core.LocationTime{Cell: cell, Time: t}] = struct{}{}
		}
	}
	return cat
}

// Contains reports whether (cell, t) is occupied in the table.
func (c CAT) Contains(cell core.Cell, t int) bool {
	_, ok := c[core.LocationTime{Cell: cell, Time: t}]
	return ok
}
