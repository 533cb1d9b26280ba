package hnsw

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

// Graph is a Hierarchical Navigable Small World graph. It holds node
// topology (identifiers and per-layer neighbor lists) and delegates to
// the caller for the item payloads, the distance function, and the
// random source.
//
// The zero value is not usable directly: construct with NewGraph, which
// binds the distance function, then call BuildGraph. Queries are safe
// to run concurrently with each other once BuildGraph has returned;
// BuildGraph itself is not safe to call concurrently with queries or
// with itself.
type Graph[T any, D cmp.Ordered] struct {
	// Distance compares two items from the caller's space. It must be
	// set (via NewGraph) before BuildGraph is called.
	Distance DistanceFunc[T, D]

	items  []T
	params Parameters
	nodes  map[Id]*Node[D]

	entryPoint      Id
	entryPointLayer int
	hasEntryPoint   bool

	built bool
}

// NewGraph returns an empty, unbuilt graph that will compare items with
// dist.
func NewGraph[T any, D cmp.Ordered](dist DistanceFunc[T, D]) *Graph[T, D] {
	return &Graph[T, D]{Distance: dist}
}

// Result is one hit from KNNSearch: the id, the caller's original item,
// and its distance from the query.
type Result[T any, D cmp.Ordered] struct {
	Id       Id
	Item     T
	Distance D
}

// BuildGraph allocates fresh topology and inserts items in input order,
// assigning id = index in items. It fails with ErrInvalidParameters if
// params violates the invariants in Parameters.Validate. rng may be nil,
// in which case a wall-clock-seeded source is used (not reproducible;
// pass NewMathRand(seed) for deterministic builds).
func (g *Graph[T, D]) BuildGraph(items []T, rng Rng, params Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if g.Distance == nil {
		return fmt.Errorf("%w: Distance function must be set", ErrInvalidParameters)
	}
	if rng == nil {
		rng = defaultRand()
	}

	g.items = items
	g.params = params
	g.nodes = make(map[Id]*Node[D], len(items))
	g.hasEntryPoint = false
	g.entryPointLayer = 0

	for i := range items {
		g.insert(Id(i), rng)
	}

	g.built = true
	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph[T, D]) Len() int {
	return len(g.nodes)
}

// Parameters returns the parameters the graph was built (or rebound)
// with. Only M survives serialization: after DeserializeGraph the other
// fields are zero until RebindParameters supplies them.
func (g *Graph[T, D]) Parameters() Parameters {
	return g.params
}

// RebindParameters lets a caller re-supply the query-time and
// construction-time knobs (efConstruction, the heuristic choice, ...)
// after DeserializeGraph, since only M round-trips through the wire
// format. M itself is left untouched: it is load-bearing for the
// topology that was just restored.
func (g *Graph[T, D]) RebindParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.M = g.params.M
	g.params = p
	return nil
}

// neighborsAt returns id's neighbors at layer in ascending order. Graph
// has no distanceBetween, so it is not itself a neighborProvider; the
// selection heuristics are given a graphView instead.
func (g *Graph[T, D]) neighborsAt(id Id, layer int) []Id {
	return g.nodes[id].neighborsAt(layer)
}

// KNNSearch returns the k items nearest to query, ascending by
// distance. It fails with ErrGraphNotBuilt if BuildGraph has not run,
// and ErrEmptyGraph if the graph has no items.
func (g *Graph[T, D]) KNNSearch(query T, k int) ([]Result[T, D], error) {
	if !g.built {
		return nil, ErrGraphNotBuilt
	}
	if !g.hasEntryPoint {
		return nil, ErrEmptyGraph
	}

	dist := func(id Id) D { return g.Distance(g.items[id], query) }

	ef := g.params.ConstructionPruning
	if k > ef {
		ef = k
	}

	entry := g.greedyDescend(dist, g.entryPointLayer, 0, g.entryPoint)
	found := g.searchLayer(dist, []Id{entry}, ef, 0)

	if len(found) > k {
		found = found[:k]
	}

	out := make([]Result[T, D], len(found))
	for i, c := range found {
		out[i] = Result[T, D]{Id: c.id, Item: g.items[c.id], Distance: c.dist}
	}
	return out, nil
}

// Print writes a human-readable dump of every node's edges. It's a
// debugging aid with no format stability guarantee.
func (g *Graph[T, D]) Print() string {
	ids := make([]Id, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out string
	for _, id := range ids {
		n := g.nodes[id]
		out += fmt.Sprintf("node %d (maxLayer=%d):\n", id, n.maxLayer)
		for l := n.maxLayer; l >= 0; l-- {
			out += fmt.Sprintf("  layer %d: %v\n", l, n.neighborsAt(l))
		}
	}
	return out
}
