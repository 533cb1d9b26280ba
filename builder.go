package hnsw

import "cmp"

// graphView adapts a *Graph plus an insertion-scoped distance cache to
// the neighborProvider capability the selection heuristics need. It
// exists only for the lifetime of one insertion.
type graphView[T any, D cmp.Ordered] struct {
	g     *Graph[T, D]
	cache *distanceCache[T, D]
}

func (v graphView[T, D]) neighborsAt(id Id, layer int) []Id {
	return v.g.nodes[id].neighborsAt(layer)
}

func (v graphView[T, D]) distanceBetween(a, b Id) D {
	return v.cache.distance(a, b)
}

// insert runs the incremental insertion protocol for the node at id x,
// which must already be x's position in g.items.
func (g *Graph[T, D]) insert(x Id, rng Rng) {
	level := sampleLevel(rng, g.params.LevelLambda)
	node := newNode[D](x, level)
	g.nodes[x] = node

	if !g.hasEntryPoint {
		g.entryPoint = x
		g.entryPointLayer = level
		g.hasEntryPoint = true
		return
	}

	cache := newDistanceCache(g.items, g.Distance, g.params.EnableDistanceCacheForConstruction)
	view := graphView[T, D]{g: g, cache: cache}
	dist := func(id Id) D { return cache.distance(id, x) }

	entry := g.greedyDescend(dist, g.entryPointLayer, level, g.entryPoint)

	top := level
	if g.entryPointLayer < top {
		top = g.entryPointLayer
	}

	seeds := []Id{entry}
	for l := top; l >= 0; l-- {
		candidates := g.searchLayer(dist, seeds, g.params.ConstructionPruning, l)

		var neighbors []Id
		if g.params.NeighbourHeuristic == SelectHeuristic {
			neighbors = selectNeighborsHeuristic[D](view, x, candidates, g.params.M, l, g.params)
		} else {
			neighbors = selectNeighborsSimple[D](candidates, g.params.M)
		}

		for _, n := range neighbors {
			node.addNeighborAt(l, n)
			g.nodes[n].addNeighborAt(l, x)
			if g.nodes[n].degree(l) > g.params.maxDegree(l) {
				g.pruneNeighborsAt(view, n, l)
			}
		}

		seeds = neighbors
	}

	if level > g.entryPointLayer {
		g.entryPoint = x
		g.entryPointLayer = level
	}
}

// pruneNeighborsAt re-runs the configured selection heuristic over n's
// current neighbor set at layer l, targeting Mmax(l), and replaces it.
// Any neighbor dropped on n's side has its own backlink to n removed,
// so the graph never returns from an insertion with a dangling
// asymmetric edge.
func (g *Graph[T, D]) pruneNeighborsAt(view graphView[T, D], n Id, l int) {
	node := g.nodes[n]
	old := node.neighborsAt(l)

	candidates := make([]candidate[D], len(old))
	for i, id := range old {
		candidates[i] = candidate[D]{id: id, dist: view.cache.distance(n, id)}
	}

	target := g.params.maxDegree(l)
	var kept []Id
	if g.params.NeighbourHeuristic == SelectHeuristic {
		kept = selectNeighborsHeuristic[D](view, n, candidates, target, l, g.params)
	} else {
		kept = selectNeighborsSimple[D](candidates, target)
	}

	keptSet := make(map[Id]struct{}, len(kept))
	for _, id := range kept {
		keptSet[id] = struct{}{}
	}
	for _, id := range old {
		if _, ok := keptSet[id]; !ok {
			g.nodes[id].removeNeighborAt(l, n)
		}
	}
	node.setNeighborsAt(l, kept)
}
