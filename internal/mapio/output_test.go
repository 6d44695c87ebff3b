package mapio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestFormatPathsPrintsYXOrder(t *testing.T) {
	agents := []core.Agent{{ID: "0", Start: core.Cell{X: 0, Y: 0}, Goal: core.Cell{X: 1, Y: 0}}}
	paths := map[string]core.Path{
		"0": {{X: 0, Y: 0}, {X: 1, Y: 0}},
	}
	got := FormatPaths(agents, paths)
	assert.Equal(t, "Agent 0: (0,0)->(0,1)\n", got)
}

func TestFormatPathsOrdersAgentsNumerically(t *testing.T) {
	agents := []core.Agent{
		{ID: "10", Start: core.Cell{}, Goal: core.Cell{}},
		{ID: "2", Start: core.Cell{}, Goal: core.Cell{}},
	}
	paths := map[string]core.Path{
		"10": {{X: 0, Y: 0}},
		"2":  {{X: 0, Y: 0}},
	}
	got := FormatPaths(agents, paths)
	assert.Equal(t, "Agent 2: (0,0)\nAgent 10: (0,0)\n", got)
}

func TestFormatMetrics(t *testing.T) {
	assert.Equal(t, "#high-level generated\n42\n", FormatMetrics(42))
}
