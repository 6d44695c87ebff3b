package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridNode is a minimal Node[T] implementation over a small hand-rolled grid, used to
// exercise the kernel without depending on the lowlevel package.
type gridNode struct {
	x, y   int
	g      float64
	goalX  int
	goalY  int
	blocked map[[2]int]bool
}

func (n gridNode) G() float64   { return n.g }
func (n gridNode) H() float64   { return float64(abs(n.goalX-n.x) + abs(n.goalY-n.y)) }
func (n gridNode) IsGoal() bool { return n.x == n.goalX && n.y == n.goalY }
func (n gridNode) ID() string   { return key(n.x, n.y) }
func (n gridNode) Less(other gridNode) bool {
	if n.x != other.x {
		return n.x < other.x
	}
	return n.y < other.y
}

func (n gridNode) Expand() ([]gridNode, bool) {
	deltas := [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}
	var out []gridNode
	for _, d := range deltas {
		nx, ny := n.x+d[0], n.y+d[1]
		if nx < 0 || ny < 0 || nx > 20 || ny > 20 {
			continue
		}
		if n.blocked[[2]int{nx, ny}] {
			continue
		}
		out = append(out, gridNode{x: nx, y: ny, g: n.g + 1, goalX: n.goalX, goalY: n.goalY, blocked: n.blocked})
	}
	return out, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func key(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

func TestSearchFindsShortestPath(t *testing.T) {
	root := gridNode{x: 0, y: 0, goalX: 3, goalY: 0, blocked: map[[2]int]bool{}}
	path, generated, err := Search[gridNode](root)
	require.NoError(t, err)
	assert.Greater(t, generated, 0)
	require.NotEmpty(t, path)
	last := path[len(path)-1]
	assert.True(t, last.IsGoal())
	assert.Equal(t, float64(3), last.G())
	assert.Len(t, path, 4) // (0,0) (1,0) (2,0) (3,0)
}

func TestSearchRoutesAroundObstacle(t *testing.T) {
	blocked := map[[2]int]bool{{1, 0}: true}
	root := gridNode{x: 0, y: 0, goalX: 2, goalY: 0, blocked: blocked}
	path, _, err := Search[gridNode](root)
	require.NoError(t, err)
	last := path[len(path)-1]
	assert.Equal(t, float64(4), last.G()) // forced detour through (0,1)/(1,1)/(2,1)
}

func TestSearchNotFoundWhenGoalUnreachable(t *testing.T) {
	// Seal (1,1) off from (0,0) by blocking both cells adjacent to it.
	blocked := map[[2]int]bool{{1, 0}: true, {0, 1}: true}
	root := gridNode{x: 0, y: 0, goalX: 1, goalY: 1, blocked: blocked}
	_, _, err := Search[gridNode](root)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResumableStateAcrossBoundedRuns(t *testing.T) {
	root := gridNode{x: 0, y: 0, goalX: 5, goalY: 0, blocked: map[[2]int]bool{}}
	s := NewState[gridNode]()
	s.Seed(root)

	_, err := s.Run(2)
	assert.ErrorIs(t, err, ErrNotFound)

	path, err := s.Run(10)
	require.NoError(t, err)
	last := path[len(path)-1]
	assert.Equal(t, float64(5), last.G())
}

func TestBFSVisitsLayersInOrder(t *testing.T) {
	neighbors := func(n int, level int) []int {
		if n >= 3 {
			return nil
		}
		return []int{n + 1}
	}
	var levels []int
	BFS(0, 5, func(node int, level int) bool {
		levels = append(levels, level)
		return false
	}, neighbors)
	assert.Equal(t, []int{0, 1, 2, 3}, levels)
}

func TestDFSFindsGoal(t *testing.T) {
	graph := map[int][]int{
		0: {1, 2},
		1: {3},
		2: {3},
		3: {4},
		4: {},
	}
	var backtracked []int
	visited := map[int]bool{}
	found := DFS(
		visited,
		func(cur int, prev *int) bool { return true },
		func(cur int, prev *int) { backtracked = append(backtracked, cur) },
		0, nil,
		func(cur int) []int { return graph[cur] },
		func(cur int) bool { return cur == 4 },
	)
	assert.True(t, found)
}

func TestDFSRejectsViaVisit(t *testing.T) {
	graph := map[int][]int{0: {1}, 1: {2}, 2: {}}
	visited := map[int]bool{}
	found := DFS(
		visited,
		func(cur int, prev *int) bool { return cur != 1 }, // reject node 1 outright
		func(cur int, prev *int) {},
		0, nil,
		func(cur int) []int { return graph[cur] },
		func(cur int) bool { return cur == 2 },
	)
	assert.False(t, found)
}
