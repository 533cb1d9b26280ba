package hnsw

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y float64
}

func euclidean2D(a, b point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func scenarioParams() Parameters {
	return Parameters{
		M:                   4,
		LevelLambda:         1 / math.Log(4),
		NeighbourHeuristic:  SelectSimple,
		ConstructionPruning: 16,
	}
}

// S1: querying an empty graph fails with ErrEmptyGraph.
func TestKNNSearchEmptyGraph(t *testing.T) {
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(nil, NewMathRand(42), scenarioParams()))

	_, err := g.KNNSearch(point{0, 0}, 5)
	require.ErrorIs(t, err, ErrEmptyGraph)
}

func TestKNNSearchBeforeBuild(t *testing.T) {
	g := NewGraph[point, float64](euclidean2D)
	_, err := g.KNNSearch(point{0, 0}, 1)
	require.ErrorIs(t, err, ErrGraphNotBuilt)
}

// S2: a single-item graph returns exactly that item.
func TestKNNSearchSingleton(t *testing.T) {
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph([]point{{1, 1}}, NewMathRand(42), scenarioParams()))

	results, err := g.KNNSearch(point{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, Id(0), results[0].Id)
	require.Equal(t, point{1, 1}, results[0].Item)
	require.InDelta(t, math.Sqrt2, results[0].Distance, 1e-9)
}

// S3: five colinear points, nearest two to (1.1, 0) are ids 1 and 2.
func TestKNNSearchLine(t *testing.T) {
	items := []point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), scenarioParams()))

	results, err := g.KNNSearch(point{1.1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, Id(1), results[0].Id)
	require.Equal(t, Id(2), results[1].Id)
	require.InDelta(t, 0.1, results[0].Distance, 1e-9)
	require.InDelta(t, 0.9, results[1].Distance, 1e-9)
}

func gridItems() []point {
	items := make([]point, 0, 100)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			items = append(items, point{float64(x), float64(y)})
		}
	}
	return items
}

func gridId(x, y int) Id { return Id(x*10 + y) }

// S4: on a 10x10 grid, the 4 nearest neighbors of the cell center
// (5.5,5.5) are its 4 surrounding corners, each at distance sqrt(0.5).
func TestKNNSearchGrid(t *testing.T) {
	items := gridItems()
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), scenarioParams()))

	results, err := g.KNNSearch(point{5.5, 5.5}, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)

	want := map[Id]bool{
		gridId(5, 5): true,
		gridId(6, 5): true,
		gridId(5, 6): true,
		gridId(6, 6): true,
	}
	for _, r := range results {
		require.True(t, want[r.Id], "unexpected id %d in top-4", r.Id)
		require.InDelta(t, math.Sqrt(0.5), r.Distance, 1e-9)
	}
}

// S5: recall against brute force on a random point set.
func TestRecallAgainstBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const n = 500
	items := make([]point, n)
	for i := range items {
		items[i] = point{r.Float64(), r.Float64()}
	}

	g := NewGraph[point, float64](euclidean2D)
	params := DefaultParameters()
	require.NoError(t, g.BuildGraph(items, NewMathRand(7), params))

	const k = 10
	const numQueries = 30
	var totalRecall float64
	for q := 0; q < numQueries; q++ {
		query := point{r.Float64(), r.Float64()}

		approx, err := g.KNNSearch(query, k)
		require.NoError(t, err)

		type scored struct {
			id   Id
			dist float64
		}
		brute := make([]scored, n)
		for i, it := range items {
			brute[i] = scored{id: Id(i), dist: euclidean2D(it, query)}
		}
		sort.Slice(brute, func(i, j int) bool { return brute[i].dist < brute[j].dist })

		exact := make(map[Id]bool, k)
		for i := 0; i < k; i++ {
			exact[brute[i].id] = true
		}

		hits := 0
		for _, a := range approx {
			if exact[a.Id] {
				hits++
			}
		}
		totalRecall += float64(hits) / float64(k)
	}

	avgRecall := totalRecall / numQueries
	require.GreaterOrEqual(t, avgRecall, 0.8, "average recall too low: %f", avgRecall)
}

// S6: serialize/deserialize preserves query results.
func TestSerializeRoundTripPreservesQueries(t *testing.T) {
	items := gridItems()
	g := NewGraph[point, float64](euclidean2D)
	params := scenarioParams()
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), params))

	before, err := g.KNNSearch(point{5.5, 5.5}, 4)
	require.NoError(t, err)

	data, err := g.SerializeGraph()
	require.NoError(t, err)

	restored := NewGraph[point, float64](euclidean2D)
	require.NoError(t, restored.DeserializeGraph(items, data))
	require.NoError(t, restored.RebindParameters(params))

	after, err := restored.KNNSearch(point{5.5, 5.5}, 4)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

// Property: serialize -> deserialize -> serialize is byte-identical.
func TestSerializeDeserializeSerializeIsByteIdentical(t *testing.T) {
	items := gridItems()
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), scenarioParams()))

	data1, err := g.SerializeGraph()
	require.NoError(t, err)

	restored := NewGraph[point, float64](euclidean2D)
	require.NoError(t, restored.DeserializeGraph(items, data1))

	data2, err := restored.SerializeGraph()
	require.NoError(t, err)

	require.Equal(t, data1, data2)
}

// Property: same seed + same input order -> identical edge sets.
func TestBuildIsDeterministicForFixedSeed(t *testing.T) {
	items := gridItems()

	g1 := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g1.BuildGraph(items, NewMathRand(42), scenarioParams()))

	g2 := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g2.BuildGraph(items, NewMathRand(42), scenarioParams()))

	data1, err := g1.SerializeGraph()
	require.NoError(t, err)
	data2, err := g2.SerializeGraph()
	require.NoError(t, err)
	require.Equal(t, data1, data2)
}

// Property: every layer's edge set is symmetric, and degree never
// exceeds Mmax(layer).
func TestInvariantsSymmetryAndDegreeBound(t *testing.T) {
	items := gridItems()
	params := scenarioParams()
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), params))

	for id, n := range g.nodes {
		for l := 0; l <= n.maxLayer; l++ {
			require.LessOrEqual(t, n.degree(l), params.maxDegree(l))
			for _, nb := range n.neighborsAt(l) {
				require.NotEqual(t, id, nb, "self-loop at node %d layer %d", id, l)
				require.True(t, g.nodes[nb].hasNeighborAt(l, id),
					"asymmetric edge %d->%d at layer %d", id, nb, l)
			}
		}
	}
}

// Property: entryPoint.maxLayer == max over nodes of maxLayer.
func TestEntryPointIsHighestLayer(t *testing.T) {
	items := gridItems()
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), scenarioParams()))

	maxLayer := -1
	for _, n := range g.nodes {
		if n.maxLayer > maxLayer {
			maxLayer = n.maxLayer
		}
	}
	require.Equal(t, maxLayer, g.entryPointLayer)
	require.Equal(t, maxLayer, g.nodes[g.entryPoint].maxLayer)
}

// Property: k=N returns every item (recall=1 on a small graph).
func TestKNNSearchFullRecallWhenKEqualsN(t *testing.T) {
	items := []point{{0, 0}, {1, 0}, {2, 1}, {3, 3}, {-1, -1}, {5, 5}}
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(1), scenarioParams()))

	results, err := g.KNNSearch(point{0, 0}, len(items))
	require.NoError(t, err)
	require.Len(t, results, len(items))

	seen := make(map[Id]bool, len(items))
	for i := 1; i < len(results); i++ {
		require.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
	for _, r := range results {
		require.False(t, seen[r.Id])
		seen[r.Id] = true
	}
	require.Len(t, seen, len(items))
}

func TestBuildGraphRejectsInvalidParameters(t *testing.T) {
	g := NewGraph[point, float64](euclidean2D)

	err := g.BuildGraph([]point{{0, 0}}, NewMathRand(1), Parameters{M: 1, ConstructionPruning: 10, LevelLambda: 1})
	require.True(t, errors.Is(err, ErrInvalidParameters))

	err = g.BuildGraph([]point{{0, 0}}, NewMathRand(1), Parameters{M: 4, ConstructionPruning: 0, LevelLambda: 1})
	require.True(t, errors.Is(err, ErrInvalidParameters))

	err = g.BuildGraph([]point{{0, 0}}, NewMathRand(1), Parameters{M: 4, ConstructionPruning: 10, LevelLambda: 0})
	require.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestDeserializeGraphRejectsMismatchedItemCount(t *testing.T) {
	items := []point{{0, 0}, {1, 1}, {2, 2}}
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(1), scenarioParams()))

	data, err := g.SerializeGraph()
	require.NoError(t, err)

	restored := NewGraph[point, float64](euclidean2D)
	err = restored.DeserializeGraph(items[:2], data)
	require.ErrorIs(t, err, ErrMismatchedItems)
}

func TestDeserializeGraphRejectsCorruptInput(t *testing.T) {
	items := []point{{0, 0}}
	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(1), scenarioParams()))

	data, err := g.SerializeGraph()
	require.NoError(t, err)

	corrupt := append([]byte(nil), data...)
	corrupt[0] ^= 0xFF

	restored := NewGraph[point, float64](euclidean2D)
	err = restored.DeserializeGraph(items, corrupt)
	require.ErrorIs(t, err, ErrCorruptGraph)
}

func TestSerializeGraphBeforeBuild(t *testing.T) {
	g := NewGraph[point, float64](euclidean2D)
	_, err := g.SerializeGraph()
	require.ErrorIs(t, err, ErrGraphNotBuilt)
}

func TestHeuristicSelectionBuildsValidGraph(t *testing.T) {
	items := gridItems()
	params := scenarioParams()
	params.NeighbourHeuristic = SelectHeuristic
	params.ExpandBestSelection = true
	params.KeepPrunedConnections = true

	g := NewGraph[point, float64](euclidean2D)
	require.NoError(t, g.BuildGraph(items, NewMathRand(42), params))

	for id, n := range g.nodes {
		for l := 0; l <= n.maxLayer; l++ {
			require.LessOrEqual(t, n.degree(l), params.maxDegree(l))
			for _, nb := range n.neighborsAt(l) {
				require.True(t, g.nodes[nb].hasNeighborAt(l, id))
			}
		}
	}

	results, err := g.KNNSearch(point{5.5, 5.5}, 4)
	require.NoError(t, err)
	require.Len(t, results, 4)
}
