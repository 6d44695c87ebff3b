package mapio

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

// FormatPaths renders one line per agent: "Agent <id>: (y,x)->(y,x)->...". The printed
// coordinate order is (y, x) — the second coordinate first — per the external output
// convention; this is independent of the internal (x, y) cell representation and must
// not be "corrected" to match it. Agents are ordered numerically by id when every id
// parses as an integer (the common case, since scenario ids are line indices), and
// lexically otherwise.
func FormatPaths(agents []core.Agent, paths map[string]core.Path) string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	sortAgentIDs(ids)

	var out strings.Builder
	for _, id := range ids {
		steps := make([]string, len(paths[id]))
		for i, c := range paths[id] {
			steps[i] = fmt.Sprintf("(%d,%d)", c.Y, c.X)
		}
		fmt.Fprintf(&out, "Agent %s: %s\n", id, strings.Join(steps, "->"))
	}
	return out.String()
}

func sortAgentIDs(ids []string) {
	allNumeric := true
	for _, id := range ids {
		if _, err := strconv.Atoi(id); err != nil {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		sort.Slice(ids, func(i, j int) bool {
			a, _ := strconv.Atoi(ids[i])
			b, _ := strconv.Atoi(ids[j])
			return a < b
		})
		return
	}
	sort.Strings(ids)
}

// FormatMetrics renders the two-line high-level search metrics report.
func FormatMetrics(highLevelGenerated int) string {
	return fmt.Sprintf("#high-level generated\n%d\n", highLevelGenerated)
}
