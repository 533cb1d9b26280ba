package hnsw

import "github.com/gopherindex/hnsw/heap"

// distTo is a closure that returns the distance from a node id to
// whatever fixed target the caller is searching for — either another
// id already in the graph (construction, routed through the distance
// cache) or an external query item (KNNSearch, no cache involved since
// the query has no stable id to key on).
type distTo[D any] func(id Id) D

// greedyDescend walks down from fromLayer to toLayer+1, at each layer
// repeatedly stepping to the neighbor with smallest distance to the
// target as long as that strictly improves on the current node. This is
// a beam search with ef=1 collapsed to a single best pointer — cheap
// enough to run once per layer just to hand the finer layer below a
// good starting point.
func (g *Graph[T, D]) greedyDescend(dist distTo[D], fromLayer, toLayer int, start Id) Id {
	current := start
	for l := fromLayer; l > toLayer; l-- {
		current = g.greedyStepAtLayer(dist, current, l)
	}
	return current
}

func (g *Graph[T, D]) greedyStepAtLayer(dist distTo[D], start Id, layer int) Id {
	current := start
	currentDist := dist(current)
	for {
		improved := false
		for _, n := range g.nodes[current].neighborsAt(layer) {
			d := dist(n)
			if d < currentDist {
				current, currentDist = n, d
				improved = true
			}
		}
		if !improved {
			return current
		}
	}
}

// searchLayer runs a beam search: explore outward from entries at the
// given layer, keeping the ef closest nodes visited. entries are treated
// as pre-visited, letting a caller seed the search from several starting
// points at once (the previous layer's selected neighbors become this
// layer's entries). Results are returned sorted ascending by distance.
func (g *Graph[T, D]) searchLayer(dist distTo[D], entries []Id, ef int, layer int) []candidate[D] {
	visited := make(map[Id]bool, ef*2)
	var seed []candidate[D]
	for _, e := range entries {
		if visited[e] {
			continue
		}
		visited[e] = true
		seed = append(seed, candidate[D]{id: e, dist: dist(e)})
	}

	candidates := heap.Heap[candidate[D]]{}
	candidates.Init(append([]candidate[D](nil), seed...))

	best := heap.Heap[candidate[D]]{}
	best.Init(append([]candidate[D](nil), seed...))

	for candidates.Len() > 0 {
		c := candidates.Pop()
		if best.Len() >= ef && c.dist > best.Max().dist {
			break
		}

		for _, n := range g.nodes[c.id].neighborsAt(layer) {
			if visited[n] {
				continue
			}
			visited[n] = true

			d := dist(n)
			if best.Len() < ef || d < best.Max().dist {
				cand := candidate[D]{id: n, dist: d}
				candidates.Push(cand)
				best.Push(cand)
				if best.Len() > ef {
					best.PopLast()
				}
			}
		}
	}

	return best.Slice()
}
