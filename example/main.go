// Command example demonstrates building a graph over float32 vectors,
// querying it, and round-tripping its topology through the wire format.
package main

import (
	"fmt"
	"log"

	"github.com/gopherindex/hnsw"
	"github.com/gopherindex/hnsw/vecdist"
)

func main() {
	items := [][]float32{
		{1, 1, 1},
		{1, -1, 0.999},
		{1, 0, -0.5},
	}

	g := hnsw.NewGraph[[]float32, float32](vecdist.Euclidean)
	params := hnsw.DefaultParameters()
	if err := g.BuildGraph(items, hnsw.NewMathRand(42), params); err != nil {
		log.Fatalf("build graph: %v", err)
	}

	neighbors, err := g.KNNSearch([]float32{0.5, 0.5, 0.5}, 1)
	if err != nil {
		log.Fatalf("search graph: %v", err)
	}
	fmt.Printf("best friend: %v\n", neighbors[0].Item)

	data, err := g.SerializeGraph()
	if err != nil {
		log.Fatalf("serialize graph: %v", err)
	}

	restored := hnsw.NewGraph[[]float32, float32](vecdist.Euclidean)
	if err := restored.DeserializeGraph(items, data); err != nil {
		log.Fatalf("deserialize graph: %v", err)
	}
	if err := restored.RebindParameters(params); err != nil {
		log.Fatalf("rebind parameters: %v", err)
	}

	again, err := restored.KNNSearch([]float32{0.5, 0.5, 0.5}, 1)
	if err != nil {
		log.Fatalf("search restored graph: %v", err)
	}
	fmt.Printf("best friend after reload: %v\n", again[0].Item)
}
