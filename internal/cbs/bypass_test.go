package cbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func TestBypassingPostExpandedRewritesParentWhenConflictsDrop(t *testing.T) {
	grid := core.NewGrid(5, 1, core.Cell{})
	agents := []core.Agent{
		{ID: "a", Start: core.Cell{X: 0, Y: 0}, Goal: core.Cell{X: 4, Y: 0}},
		{ID: "b", Start: core.Cell{X: 4, Y: 0}, Goal: core.Cell{X: 0, Y: 0}},
		{ID: "c", Start: core.Cell{X: 2, Y: 0}, Goal: core.Cell{X: 2, Y: 0}},
	}
	cfg := testConfig(grid)
	parent := &Node{
		Agents:      agents,
		Constraints: nil,
		cfg:         cfg,
		Paths: map[string]core.Path{
			"a": {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
			"b": {{X: 4, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}},
			"c": {{X: 2, Y: 0}},
		},
	}
	parent.Conflicts = computeConflicts(parent.agentIDs(), parent.Paths)
	require.NotEmpty(t, parent.Conflicts)

	conflict := parent.Conflicts[0]
	// A same-length alternate path for "a" that stays at (1,0) instead of running into the
	// parked "c" at (2,0): the parent's three conflicts drop to two once it is spliced in.
	child := &Node{cfg: cfg, Paths: map[string]core.Path{
		"a": {{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}},
	}}

	rewritten := BypassingPostExpanded(parent, conflict, []*Node{child})
	require.Len(t, rewritten, 1)
	assert.Less(t, len(rewritten[0].Conflicts), len(parent.Conflicts))
	assert.Len(t, rewritten[0].Paths, 3, "the rewritten parent keeps every agent's path, unlike the child")
	assert.Equal(t, parent.Constraints, rewritten[0].Constraints)
}

func TestBypassingPostExpandedKeepsChildrenWhenNoImprovement(t *testing.T) {
	grid := core.NewGrid(3, 1, core.Cell{})
	cfg := testConfig(grid)
	parent := &Node{
		cfg: cfg,
		Paths: map[string]core.Path{
			"a": {{X: 0, Y: 0}, {X: 1, Y: 0}},
			"b": {{X: 1, Y: 0}, {X: 0, Y: 0}},
		},
	}
	parent.Conflicts = computeConflicts([]string{"a", "b"}, parent.Paths)
	require.NotEmpty(t, parent.Conflicts)
	conflict := parent.Conflicts[0]

	children := []*Node{{cfg: cfg, Paths: map[string]core.Path{"a": {{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}}}}}
	result := BypassingPostExpanded(parent, conflict, children)
	assert.Equal(t, children, result)
}
