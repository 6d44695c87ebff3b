package lowlevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

func emptyGrid(w, h int, goal core.Cell) *core.Grid {
	return core.NewGrid(w, h, goal)
}

func TestFindPathStraightLine(t *testing.T) {
	grid := emptyGrid(5, 5, core.Cell{X: 4, Y: 0})
	res, err := FindPath(grid, core.Cell{X: 0, Y: 0}, CAT{}, ManhattanDistance{Goal: grid.Goal})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Path.Len())
	assert.Equal(t, core.Cell{X: 4, Y: 0}, res.Path[len(res.Path)-1])
}

func TestFindPathRespectsVertexConstraint(t *testing.T) {
	grid := emptyGrid(3, 1, core.Cell{X: 2, Y: 0})
	// Block the middle cell at t=1: the agent must wait a step before proceeding.
	c := core.VertexConstraint("a1", 1, core.Cell{X: 1, Y: 0})
	loc, obstacles := c.ToObstacle()
	grid.AddObstacle(loc, obstacles)

	res, err := FindPath(grid, core.Cell{X: 0, Y: 0}, CAT{}, ManhattanDistance{Goal: grid.Goal})
	require.NoError(t, err)
	assert.Equal(t, core.Cell{X: 0, Y: 0}, res.Path[0])
	assert.Equal(t, core.Cell{X: 2, Y: 0}, res.Path[len(res.Path)-1])
	assert.Greater(t, res.Path.Len(), 3) // longer than the unconstrained 3-step path
}

func TestFindPathWithTrueDistanceMatchesManhattanOnOpenGrid(t *testing.T) {
	grid := emptyGrid(6, 6, core.Cell{X: 5, Y: 5})
	td := NewTrueDistance(grid)
	res, err := FindPath(grid, core.Cell{X: 0, Y: 0}, CAT{}, td)
	require.NoError(t, err)
	assert.Equal(t, 11, res.Path.Len()) // Manhattan distance 10 + start cell
}

func TestFindPathUnreachableGoalFails(t *testing.T) {
	grid := emptyGrid(3, 3, core.Cell{X: 2, Y: 2})
	// Wall off the goal entirely.
	for _, c := range []core.Cell{{X: 1, Y: 2}, {X: 2, Y: 1}} {
		grid.AddObstacle(core.LocationTime{Cell: c, Time: core.AllTimes}, core.ObstacleSet{})
	}
	_, err := FindPath(grid, core.Cell{X: 0, Y: 0}, CAT{}, ManhattanDistance{Goal: grid.Goal})
	assert.Error(t, err)
}

func TestNewCATRecordsOtherAgentsCells(t *testing.T) {
	paths := map[string]core.Path{
		"a1": {{X: 1, Y: 0}, {X: 1, Y: 0}},
	}
	cat := NewCAT(paths, "a2")
	assert.True(t, cat.Contains(core.Cell{X: 1, Y: 0}, 0))
	assert.False(t, cat.Contains(core.Cell{X: 1, Y: 0}, 5))
}
