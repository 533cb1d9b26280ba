package hnsw

import "cmp"

// DistanceFunc compares two items from the caller's space and returns a
// totally-ordered distance. It must be pure and deterministic: the same
// pair of items always yields the same value for the lifetime of a
// graph.
type DistanceFunc[T any, D cmp.Ordered] func(a, b T) D

type pairKey struct {
	lo, hi Id
}

func pairKeyFor(a, b Id) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// distanceCache memoizes pairwise distances by unordered id pair for the
// duration of one insertion. It is created fresh per insertion and
// discarded when that insertion returns, so it can never
// serve a stale value under the insert-only model. When disabled, every
// lookup recomputes and the map is never populated.
type distanceCache[T any, D cmp.Ordered] struct {
	items   []T
	dist    DistanceFunc[T, D]
	enabled bool
	values  map[pairKey]D
}

func newDistanceCache[T any, D cmp.Ordered](items []T, dist DistanceFunc[T, D], enabled bool) *distanceCache[T, D] {
	c := &distanceCache[T, D]{items: items, dist: dist, enabled: enabled}
	if enabled {
		c.values = make(map[pairKey]D)
	}
	return c
}

// distance returns dist(items[a], items[b]), memoizing when the cache is
// enabled.
func (c *distanceCache[T, D]) distance(a, b Id) D {
	if !c.enabled {
		return c.dist(c.items[a], c.items[b])
	}
	key := pairKeyFor(a, b)
	if v, ok := c.values[key]; ok {
		return v
	}
	v := c.dist(c.items[a], c.items[b])
	c.values[key] = v
	return v
}

// distanceToItem returns dist(items[a], target), where target is not a
// node in the graph (e.g. a query). These are never cached since the
// query side of the pair has no stable id to key on.
func (c *distanceCache[T, D]) distanceToItem(a Id, target T) D {
	return c.dist(c.items[a], target)
}
