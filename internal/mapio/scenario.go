package mapio

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

// ErrInvalidScenario is returned when a scenario file does not match the header/agent-line
// shape.
var ErrInvalidScenario = errors.New("invalid scenario file")

var scenarioHeaderRegexp = regexp.MustCompile(`version \d+(?:\.\d+)?\r?\n`)
var agentLineRegexp = regexp.MustCompile(`^(\d+)\t(.+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)\t(\d+)\t([\d.]+)$`)

// ParseScenario reads a scenario file into an ordered list of agents. Agent id is the
// zero-based line index among agent lines, not any field in the file. Coordinates are
// parsed verbatim; no shift is applied.
func ParseScenario(content string) ([]core.Agent, error) {
	loc := scenarioHeaderRegexp.FindStringIndex(content)
	if loc == nil {
		return nil, fmt.Errorf("%w: missing version header", ErrInvalidScenario)
	}
	body := content[loc[1]:]

	var agents []core.Agent
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		m := agentLineRegexp.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: malformed agent line %q", ErrInvalidScenario, line)
		}
		sx, err := strconv.Atoi(m[5])
		if err != nil {
			return nil, fmt.Errorf("%w: start x not a number", ErrInvalidScenario)
		}
		sy, err := strconv.Atoi(m[6])
		if err != nil {
			return nil, fmt.Errorf("%w: start y not a number", ErrInvalidScenario)
		}
		gx, err := strconv.Atoi(m[7])
		if err != nil {
			return nil, fmt.Errorf("%w: goal x not a number", ErrInvalidScenario)
		}
		gy, err := strconv.Atoi(m[8])
		if err != nil {
			return nil, fmt.Errorf("%w: goal y not a number", ErrInvalidScenario)
		}
		agents = append(agents, core.Agent{
			ID:    strconv.Itoa(len(agents)),
			Start: core.Cell{X: sx, Y: sy},
			Goal:  core.Cell{X: gx, Y: gy},
		})
	}
	if len(agents) == 0 {
		return nil, fmt.Errorf("%w: no agent lines found", ErrInvalidScenario)
	}
	return agents, nil
}

// FormatScenario serializes agents into a scenario file body: a `version 1` header
// followed by one tab-separated line per agent, in slice order. The optimal-length field
// is unknown to callers that only hold an Agent (it is a property of a solved instance,
// not the agent itself), so it is always written as 0; readers parse but never
// interpret it. The bucket field is always "0".
func FormatScenario(mapName string, width, height int, agents []core.Agent) string {
	var b strings.Builder
	b.WriteString("version 1\n")
	for _, a := range agents {
		fmt.Fprintf(&b, "0\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t0\n", mapName, width, height, a.Start.X, a.Start.Y, a.Goal.X, a.Goal.Y)
	}
	return b.String()
}
