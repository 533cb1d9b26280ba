package hnsw

import (
	"cmp"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Node owns the per-layer neighbor lists for one inserted item.
// connections[l] holds the distinct neighbor ids at layer l;
// len(connections) == maxLayer+1.
type Node[D cmp.Ordered] struct {
	id       Id
	maxLayer int

	// connections[l] is a set of neighbor ids at layer l. A map gives
	// O(1) membership checks and dedup; iteration order is never relied
	// upon directly, callers go through neighborsAt which returns a
	// sorted, deterministic slice.
	connections []map[Id]struct{}
}

func newNode[D cmp.Ordered](id Id, maxLayer int) *Node[D] {
	n := &Node[D]{id: id, maxLayer: maxLayer, connections: make([]map[Id]struct{}, maxLayer+1)}
	for l := range n.connections {
		n.connections[l] = make(map[Id]struct{})
	}
	return n
}

// Id returns the node's stable identifier.
func (n *Node[D]) Id() Id { return n.id }

// MaxLayer returns the top layer at which this node participates.
func (n *Node[D]) MaxLayer() int { return n.maxLayer }

// degree returns the number of neighbors at layer l.
func (n *Node[D]) degree(l int) int {
	if l > n.maxLayer {
		return 0
	}
	return len(n.connections[l])
}

// neighborsAt returns the neighbor ids at layer l in ascending order, so
// that iteration is deterministic for a fixed graph regardless of map
// iteration order.
func (n *Node[D]) neighborsAt(l int) []Id {
	if l > n.maxLayer {
		return nil
	}
	ids := maps.Keys(n.connections[l])
	slices.Sort(ids)
	return ids
}

// hasNeighborAt reports whether id is a neighbor of n at layer l.
func (n *Node[D]) hasNeighborAt(l int, id Id) bool {
	if l > n.maxLayer {
		return false
	}
	_, ok := n.connections[l][id]
	return ok
}

// addNeighborAt adds id to the neighbor set at layer l. It is a no-op if
// id already belongs (neighbor lists have unique entries).
func (n *Node[D]) addNeighborAt(l int, id Id) {
	n.connections[l][id] = struct{}{}
}

// removeNeighborAt removes id from the neighbor set at layer l.
func (n *Node[D]) removeNeighborAt(l int, id Id) {
	delete(n.connections[l], id)
}

// setNeighborsAt replaces the neighbor set at layer l wholesale, used
// when a node is pruned back down to its degree bound.
func (n *Node[D]) setNeighborsAt(l int, ids []Id) {
	set := make(map[Id]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	n.connections[l] = set
}

// candidate pairs a node id with its distance to some target, the
// common currency between the navigator and the selection heuristics.
type candidate[D cmp.Ordered] struct {
	id   Id
	dist D
}

// Less orders candidates by ascending distance, breaking ties on
// ascending id so that selection is deterministic under a fixed rng.
func (c candidate[D]) Less(o candidate[D]) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.id < o.id
}

// neighborProvider is the minimal read-only graph view the selection
// heuristics need: layer-l neighbors of a node, and the distance
// between two ids (routed through the distance cache when enabled).
// graphView satisfies this.
type neighborProvider[D cmp.Ordered] interface {
	neighborsAt(id Id, layer int) []Id
	distanceBetween(a, b Id) D
}

// selectNeighborsSimple implements Algorithm 3: the m candidates with
// smallest distance to target, ties broken by ascending id.
func selectNeighborsSimple[D cmp.Ordered](candidates []candidate[D], m int) []Id {
	sorted := append([]candidate[D](nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	if len(sorted) > m {
		sorted = sorted[:m]
	}
	out := make([]Id, len(sorted))
	for i, c := range sorted {
		out[i] = c.id
	}
	return out
}

// selectNeighborsHeuristic implements Algorithm 4, the diversity-aware
// heuristic: prefer candidates that are closer to the target than to
// any neighbor already selected, optionally expanding the candidate
// pool by one hop and optionally backfilling discarded candidates.
func selectNeighborsHeuristic[D cmp.Ordered](g neighborProvider[D], target Id, candidates []candidate[D], m int, layer int, p Parameters) []Id {
	working := append([]candidate[D](nil), candidates...)

	if p.ExpandBestSelection {
		seen := make(map[Id]struct{}, len(working))
		for _, c := range working {
			seen[c.id] = struct{}{}
		}
		seen[target] = struct{}{}
		for _, c := range candidates {
			for _, n := range g.neighborsAt(c.id, layer) {
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				working = append(working, candidate[D]{id: n, dist: g.distanceBetween(n, target)})
			}
		}
	}

	sort.Slice(working, func(i, j int) bool { return working[i].Less(working[j]) })

	var (
		result    []Id
		discarded []candidate[D]
	)
	for _, e := range working {
		if len(result) >= m {
			break
		}
		closerToTargetThanEveryResult := true
		for _, r := range result {
			if g.distanceBetween(e.id, target) >= g.distanceBetween(e.id, r) {
				closerToTargetThanEveryResult = false
				break
			}
		}
		if len(result) == 0 || closerToTargetThanEveryResult {
			result = append(result, e.id)
		} else {
			discarded = append(discarded, e)
		}
	}

	if p.KeepPrunedConnections {
		sort.Slice(discarded, func(i, j int) bool { return discarded[i].Less(discarded[j]) })
		for _, e := range discarded {
			if len(result) >= m {
				break
			}
			result = append(result, e.id)
		}
	}

	return result
}
