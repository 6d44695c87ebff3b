package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellAdd(t *testing.T) {
	c := Cell{X: 2, Y: 3}
	assert.Equal(t, Cell{X: 3, Y: 3}, c.Add(1, 0))
	assert.Equal(t, Cell{X: 2, Y: 2}, c.Add(0, -1))
}

func TestCellManhattanDistance(t *testing.T) {
	a := Cell{X: 0, Y: 0}
	b := Cell{X: 3, Y: 4}
	assert.Equal(t, 7, a.ManhattanDistance(b))
	assert.Equal(t, 7, b.ManhattanDistance(a))
	assert.Equal(t, 0, a.ManhattanDistance(a))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "(1,2)", Cell{X: 1, Y: 2}.String())
}

func TestLocationTimeString(t *testing.T) {
	lt := LocationTime{Cell: Cell{X: 1, Y: 2}, Time: 5}
	assert.Equal(t, "(1,2)@5", lt.String())
}

func TestPathAtClampsToLastCell(t *testing.T) {
	p := Path{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	cell, ok := p.At(5)
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 2, Y: 0}, cell, "agent stays parked at its last cell forever")

	cell, ok = p.At(-3)
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 0, Y: 0}, cell)
}

func TestPathAtEmptyPath(t *testing.T) {
	var p Path
	_, ok := p.At(0)
	assert.False(t, ok)
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := Path{{X: 0, Y: 0}, {X: 1, Y: 0}}
	clone := p.Clone()
	clone[0] = Cell{X: 9, Y: 9}
	assert.Equal(t, Cell{X: 0, Y: 0}, p[0], "mutating the clone must not affect the original")
}
