package search

// BFS performs a layered breadth-first traversal from root out to depth levels
// (inclusive), used by the MDD builder's backward and forward sweeps. visit is called
// once per node reached at each level with that level's index; if it returns true the
// node's neighbours are not explored further (a "prune this branch" signal). neighbors
// enumerates a node's successors given the level it was reached at, so a time-indexed
// caller (the forward sweep, moving from level to level+1) can validate the step
// against that specific time; it is the caller's job to avoid exploring the same node
// twice within the traversal if that matters for its use case.
func BFS[K comparable](root K, depth int, visit func(node K, level int) (skip bool), neighbors func(node K, level int) []K) {
	frontier := []K{root}
	for level := 0; level <= depth && len(frontier) > 0; level++ {
		var next []K
		for _, node := range frontier {
			if visit(node, level) {
				continue
			}
			next = append(next, neighbors(node, level)...)
		}
		frontier = next
	}
}
