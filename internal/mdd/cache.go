package mdd

import "github.com/elektrokombinacija/mapf-cbs/internal/core"

// Cache memoizes Build results under a caller-supplied key. The private grid passed to
// each Build is typically a fresh clone per call (a conflict tree node clones its
// scenario grid per constrained agent), so keying by grid identity would never hit the
// same entry twice; callers instead fingerprint whatever state the grid's obstacle
// configuration actually derives from (e.g. a constraint fingerprint). The cache itself
// is owned by a single solve/heuristic instance and never shared across instances.
type Cache struct {
	entries map[string]cacheEntry
}

type cacheEntry struct {
	mdd MDD
	err error
}

// NewCache creates an empty MDD cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get builds (or returns the cached build of) the MDD from start to goal against grid
// out to horizon c, under key.
func (cache *Cache) Get(key string, grid *core.Grid, start, goal core.Cell, c int) (MDD, error) {
	if entry, ok := cache.entries[key]; ok {
		return entry.mdd, entry.err
	}
	m, err := Build(grid, start, goal, c)
	cache.entries[key] = cacheEntry{mdd: m, err: err}
	return m, err
}
