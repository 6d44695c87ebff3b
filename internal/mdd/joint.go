package mdd

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// Pair is a simultaneous (non-colliding-by-vertex) placement of two agents at the same
// layer of a joint MDD.
type Pair struct {
	First  core.Cell
	Second core.Cell
}

// Joint is a joint MDD: Layers[k] holds every pair (u, v) with u in mdd1's k-th layer, v
// in mdd2's k-th layer, u != v, after edge-swap pruning removes pairs that would require
// the two agents to swap cells between layer k-1 and k.
type Joint struct {
	Layers []map[Pair]struct{}
}

// Merge builds the joint MDD of mdd1 and mdd2 out to horizon c. A shorter MDD's last
// layer is reused beyond its own depth (the agent waits at its goal).
func Merge(mdd1, mdd2 MDD, c int) Joint {
	layers := make([]map[Pair]struct{}, c+1)
	var prev map[Pair]struct{}
	for k := 0; k <= c; k++ {
		layer := make(map[Pair]struct{})
		l1, l2 := mdd1.At(k), mdd2.At(k)
		for u := range l1 {
			for v := range l2 {
				if u == v {
					continue
				}
				pair := Pair{First: u, Second: v}
				if prev != nil {
					swapped := Pair{First: v, Second: u}
					if _, wasSwap := prev[swapped]; wasSwap {
						continue // edge-swap pruning: u/v traded places since layer k-1
					}
				}
				layer[pair] = struct{}{}
			}
		}
		layers[k] = layer
		prev = layer
	}
	return Joint{Layers: layers}
}

// LastLayerContains reports whether the joint MDD's final layer admits the pair
// (goal1, goal2) — i.e. whether the two agents can simultaneously reach their
// respective goals without ever being forced to collide.
func (j Joint) LastLayerContains(goal1, goal2 core.Cell) bool {
	if len(j.Layers) == 0 {
		return false
	}
	_, ok := j.Layers[len(j.Layers)-1][Pair{First: goal1, Second: goal2}]
	return ok
}
