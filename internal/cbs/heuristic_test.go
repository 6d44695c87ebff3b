package cbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestZeroHeuristicAlwaysZero(t *testing.T) {
	grid := core.NewGrid(3, 3, core.Cell{})
	agents := []core.Agent{{ID: "a", Start: core.Cell{X: 0, Y: 0}, Goal: core.Cell{X: 2, Y: 2}}}
	n, err := New(agents, nil, map[string]core.Path{}, testConfig(grid))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ZeroHeuristic{}.H(n))
}

func TestDGHeuristicFindsDependencyInForcedCorridorConflict(t *testing.T) {
	grid := core.NewGrid(1, 3, core.Cell{})
	agents := []core.Agent{
		{ID: "a", Start: core.Cell{X: 0, Y: 0}, Goal: core.Cell{X: 0, Y: 2}},
		{ID: "b", Start: core.Cell{X: 0, Y: 2}, Goal: core.Cell{X: 0, Y: 0}},
	}
	cfg := testConfig(grid)
	cfg.Heuristic = NewDGHeuristic()
	n, err := New(agents, nil, map[string]core.Path{}, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, n.Conflicts)

	h := cfg.Heuristic.H(n)
	assert.GreaterOrEqual(t, h, 1.0, "two agents forced through the same single-lane cell must be dependent")
}

func TestDGHeuristicZeroWhenNoConflicts(t *testing.T) {
	grid := core.NewGrid(5, 5, core.Cell{})
	agents := []core.Agent{
		{ID: "a", Start: core.Cell{X: 0, Y: 0}, Goal: core.Cell{X: 0, Y: 4}},
		{ID: "b", Start: core.Cell{X: 4, Y: 0}, Goal: core.Cell{X: 4, Y: 4}},
	}
	cfg := testConfig(grid)
	cfg.Heuristic = NewDGHeuristic()
	n, err := New(agents, nil, map[string]core.Path{}, cfg)
	require.NoError(t, err)
	require.True(t, n.IsGoal())
	assert.Equal(t, 0.0, cfg.Heuristic.H(n))
}
