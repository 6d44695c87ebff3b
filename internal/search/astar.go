// Package search implements the generic best-first search kernel shared by the
// low-level single-agent solver and the high-level conflict-tree search: a resumable
// A* over any node type satisfying Node[T], plus bounded BFS/DFS helpers used by the
// MDD builder and the diagonal subsolver.
package search

import (
	"container/heap"
	"errors"
	"math"
)

// ErrNotFound is returned when the open set is exhausted (or, for a resumable run, when
// the budget is exceeded) without reaching a goal.
var ErrNotFound = errors.New("search: open set exhausted without finding a goal")

// Node is the generic best-first search node contract. T is the implementing type
// itself (F-bounded), so Expand can hand back further T values without type erasure.
type Node[T any] interface {
	// G is the cost accumulated to reach this node.
	G() float64
	// H is the heuristic estimate from this node to a goal.
	H() float64
	// IsGoal reports whether this node is an accepting state.
	IsGoal() bool
	// ID is a key identifying this node's underlying state for duplicate detection;
	// two nodes with the same ID are the same search state at possibly different cost.
	ID() string
	// Expand returns the node's successors. Returning (nil, false) requests delayed
	// expansion: the kernel re-enqueues the node unchanged rather than dropping it. A
	// caller relying on this must ensure some other node eventually makes progress.
	Expand() ([]T, bool)
	// Less breaks a tie between two nodes with equal f = g+h and equal g; true means
	// self should be preferred (popped first).
	Less(other T) bool
}

// entry is a heap slot: the node plus its accepted g and a predecessor link used to
// reconstruct the path on success.
type entry[T Node[T]] struct {
	node T
	g    float64
	prev *entry[T]
}

// openQueue orders entries by f = g+h ascending; ties break by larger g first (favoring
// nodes closer to completion), then by the node's own Less.
type openQueue[T Node[T]] []*entry[T]

func (q openQueue[T]) Len() int { return len(q) }

func (q openQueue[T]) Less(i, j int) bool {
	a, b := q[i], q[j]
	fa, fb := a.g+a.node.H(), b.g+b.node.H()
	if fa != fb {
		return fa < fb
	}
	if a.g != b.g {
		return a.g > b.g
	}
	return a.node.Less(b.node)
}

func (q openQueue[T]) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *openQueue[T]) Push(x any) {
	*q = append(*q, x.(*entry[T]))
}

func (q *openQueue[T]) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// State is the resumable search state: an open set and a best-known-g table that can
// be driven across multiple bounded Run calls. The low-level's backward true-distance
// heuristic keeps one State alive for an entire solve and resumes it per query.
type State[T Node[T]] struct {
	open      openQueue[T]
	bestG     map[string]float64
	Generated int
}

// NewState creates an empty resumable search state.
func NewState[T Node[T]]() *State[T] {
	return &State[T]{bestG: make(map[string]float64)}
}

// Seed inserts root into the open set as a root node (no predecessor).
func (s *State[T]) Seed(root T) {
	s.tryPush(root, root.G(), nil)
}

// BestG reports the best known cost to reach the node identified by id, if any.
func (s *State[T]) BestG(id string) (float64, bool) {
	g, ok := s.bestG[id]
	return g, ok
}

// Exhausted reports whether the open set is empty: a subsequent Run at any bound can
// find nothing new. A bounded Run returning ErrNotFound with Exhausted false just means
// the bound was too tight, not that the search is over.
func (s *State[T]) Exhausted() bool {
	return s.open.Len() == 0
}

func (s *State[T]) tryPush(node T, g float64, prev *entry[T]) bool {
	id := node.ID()
	if existing, ok := s.bestG[id]; ok && g >= existing {
		return false
	}
	s.bestG[id] = g
	heap.Push(&s.open, &entry[T]{node: node, g: g, prev: prev})
	s.Generated++
	return true
}

func reconstruct[T Node[T]](e *entry[T]) []T {
	var out []T
	for cur := e; cur != nil; cur = cur.prev {
		out = append(out, cur.node)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Run drives the search until either a goal pops (returning its reconstructed path) or
// the open set is exhausted, or — for a bounded run — the top-of-heap entry's g exceeds
// maxG, in which case that entry is left in the open set untouched and ErrNotFound is
// returned so the caller can resume later with a larger maxG.
func (s *State[T]) Run(maxG float64) ([]T, error) {
	for s.open.Len() > 0 {
		top := s.open[0]
		if top.g > maxG {
			return nil, ErrNotFound
		}
		cur := heap.Pop(&s.open).(*entry[T])
		if best, ok := s.bestG[cur.node.ID()]; ok && cur.g > best {
			continue // superseded by a better path discovered since this was pushed
		}
		if cur.node.IsGoal() {
			return reconstruct(cur), nil
		}
		children, ok := cur.node.Expand()
		if !ok {
			heap.Push(&s.open, cur)
			continue
		}
		for _, child := range children {
			s.tryPush(child, child.G(), cur)
		}
	}
	return nil, ErrNotFound
}

// Search is the ordinary, non-resumable A* entry point: a fresh state seeded with root
// and run to convergence. It returns the reconstructed root-to-goal path and the number
// of nodes generated.
func Search[T Node[T]](root T) ([]T, int, error) {
	s := NewState[T]()
	s.Seed(root)
	path, err := s.Run(math.Inf(1))
	return path, s.Generated, err
}
