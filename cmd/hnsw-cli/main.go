// Command hnsw-cli builds, queries, and inspects HNSW graphs over
// float32-vector items stored as JSON. It is a thin wrapper over the
// hnsw package, not a replacement for embedding the library directly.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gopherindex/hnsw"
	"github.com/gopherindex/hnsw/vecdist"
)

// config mirrors hnsw.Parameters for YAML loading; fields are optional
// and fall back to hnsw.DefaultParameters().
type config struct {
	M                     int     `yaml:"m"`
	LevelLambda           float64 `yaml:"levelLambda"`
	Heuristic             string  `yaml:"heuristic"`
	ConstructionPruning   int     `yaml:"constructionPruning"`
	ExpandBestSelection   bool    `yaml:"expandBestSelection"`
	KeepPrunedConnections bool    `yaml:"keepPrunedConnections"`
	EnableDistanceCache   bool    `yaml:"enableDistanceCache"`
	Seed                  int64   `yaml:"seed"`
	Metric                string  `yaml:"metric"`
}

func loadConfig(path string) (config, error) {
	c := config{}
	def := hnsw.DefaultParameters()
	c.M = def.M
	c.LevelLambda = def.LevelLambda
	c.ConstructionPruning = def.ConstructionPruning
	c.Heuristic = "simple"
	c.Metric = "euclidean"

	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func (c config) parameters() hnsw.Parameters {
	h := hnsw.SelectSimple
	if strings.EqualFold(c.Heuristic, "heuristic") {
		h = hnsw.SelectHeuristic
	}
	return hnsw.Parameters{
		M:                                  c.M,
		LevelLambda:                        c.LevelLambda,
		NeighbourHeuristic:                 h,
		ConstructionPruning:                c.ConstructionPruning,
		ExpandBestSelection:                c.ExpandBestSelection,
		KeepPrunedConnections:              c.KeepPrunedConnections,
		EnableDistanceCacheForConstruction: c.EnableDistanceCache,
	}
}

func (c config) distance() hnsw.DistanceFunc[[]float32, float32] {
	if strings.EqualFold(c.Metric, "cosine") {
		return vecdist.Cosine
	}
	return vecdist.Euclidean
}

func loadItems(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	var items [][]float32
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse items %s: %w", path, err)
	}
	return items, nil
}

func parseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parse vector component %q: %w", p, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "hnsw-cli",
		Short: "Build, query, and inspect HNSW graphs",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML Parameters file")

	root.AddCommand(newBuildCmd(&configPath))
	root.AddCommand(newQueryCmd(&configPath))
	root.AddCommand(newInspectCmd(&configPath))
	return root
}

func newBuildCmd(configPath *string) *cobra.Command {
	var itemsPath, outPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a graph from a JSON array of vectors and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			items, err := loadItems(itemsPath)
			if err != nil {
				return err
			}

			g := hnsw.NewGraph[[]float32, float32](cfg.distance())
			rng := hnsw.NewMathRand(cfg.Seed)
			if err := g.BuildGraph(items, rng, cfg.parameters()); err != nil {
				return fmt.Errorf("build graph: %w", err)
			}
			if err := g.SaveFile(outPath); err != nil {
				return err
			}
			fmt.Printf("built graph with %d nodes, saved to %s\n", g.Len(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "path to a JSON array of float32 vectors")
	cmd.Flags().StringVar(&outPath, "out", "graph.hnsw", "path to write the serialized graph")
	cmd.MarkFlagRequired("items")
	return cmd
}

func newQueryCmd(configPath *string) *cobra.Command {
	var itemsPath, graphPath, queryStr string
	var k int

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Load a saved graph and run a k-NN search against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			items, err := loadItems(itemsPath)
			if err != nil {
				return err
			}
			query, err := parseVector(queryStr)
			if err != nil {
				return err
			}

			g := hnsw.NewGraph[[]float32, float32](cfg.distance())
			if err := g.LoadFile(items, graphPath); err != nil {
				return err
			}
			if err := g.RebindParameters(cfg.parameters()); err != nil {
				return err
			}

			results, err := g.KNNSearch(query, k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			for _, r := range results {
				fmt.Printf("id=%d distance=%v item=%v\n", r.Id, r.Distance, r.Item)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "path to the same JSON items used to build the graph")
	cmd.Flags().StringVar(&graphPath, "graph", "graph.hnsw", "path to a saved graph")
	cmd.Flags().StringVar(&queryStr, "query", "", "comma-separated query vector, e.g. 0.1,0.2,0.3")
	cmd.Flags().IntVar(&k, "k", 10, "number of neighbors to return")
	cmd.MarkFlagRequired("items")
	cmd.MarkFlagRequired("query")
	return cmd
}

func newInspectCmd(configPath *string) *cobra.Command {
	var itemsPath, graphPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print structural statistics and the raw edge dump of a saved graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			items, err := loadItems(itemsPath)
			if err != nil {
				return err
			}

			g := hnsw.NewGraph[[]float32, float32](cfg.distance())
			if err := g.LoadFile(items, graphPath); err != nil {
				return err
			}

			a := hnsw.Analyzer[[]float32, float32]{Graph: g}
			fmt.Printf("nodes: %d\n", g.Len())
			fmt.Printf("height: %d\n", a.Height())
			fmt.Printf("topography: %v\n", a.Topography())
			fmt.Printf("connectivity: %v\n", a.Connectivity())
			fmt.Print(g.Print())
			return nil
		},
	}
	cmd.Flags().StringVar(&itemsPath, "items", "", "path to the same JSON items used to build the graph")
	cmd.Flags().StringVar(&graphPath, "graph", "graph.hnsw", "path to a saved graph")
	cmd.MarkFlagRequired("items")
	return cmd
}
