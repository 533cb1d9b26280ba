package hnsw

import "cmp"

// Analyzer holds a graph and provides structural introspection over it:
// layer counts, per-layer connectivity, and per-layer population. None
// of this is needed by the core algorithms; it exists for callers
// debugging recall or tuning Parameters.
type Analyzer[T any, D cmp.Ordered] struct {
	Graph *Graph[T, D]
}

// Height returns the number of layers in the graph (entryPointLayer+1),
// or 0 for an empty graph.
func (a *Analyzer[T, D]) Height() int {
	if !a.Graph.hasEntryPoint {
		return 0
	}
	return a.Graph.entryPointLayer + 1
}

// Topography returns the number of nodes present at each layer, indexed
// from layer 0 upward. A node at maxLayer m is present at every layer
// 0..m.
func (a *Analyzer[T, D]) Topography() []int {
	h := a.Height()
	if h == 0 {
		return nil
	}
	counts := make([]int, h)
	for _, n := range a.Graph.nodes {
		for l := 0; l <= n.maxLayer; l++ {
			counts[l]++
		}
	}
	return counts
}

// Connectivity returns the average out-degree at each layer, indexed
// from layer 0 upward.
func (a *Analyzer[T, D]) Connectivity() []float64 {
	h := a.Height()
	if h == 0 {
		return nil
	}
	sums := make([]float64, h)
	counts := a.Topography()
	for _, n := range a.Graph.nodes {
		for l := 0; l <= n.maxLayer; l++ {
			sums[l] += float64(n.degree(l))
		}
	}
	out := make([]float64, h)
	for l := range out {
		if counts[l] > 0 {
			out[l] = sums[l] / float64(counts[l])
		}
	}
	return out
}
