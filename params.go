package hnsw

import (
	"fmt"
	"math"
)

// Heuristic selects which of the two neighbor-selection algorithms the
// builder uses both when connecting a newly inserted node and when
// pruning an over-connected neighbor.
type Heuristic int

const (
	// SelectSimple keeps the m closest candidates (Algorithm 3).
	SelectSimple Heuristic = iota
	// SelectHeuristic runs the diversity-aware heuristic (Algorithm 4).
	SelectHeuristic
)

func (h Heuristic) String() string {
	switch h {
	case SelectSimple:
		return "SelectSimple"
	case SelectHeuristic:
		return "SelectHeuristic"
	default:
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
}

// Parameters are the tuning knobs for graph construction and search.
// All public fields must be set (or start from DefaultParameters) before
// the first call to BuildGraph.
type Parameters struct {
	// M is the target degree. Mmax0 = 2*M governs layer 0, Mmax = M
	// governs every layer above it.
	M int

	// LevelLambda (mL in the paper) is the level-sampling decay. Larger
	// values produce taller hierarchies; smaller values keep more nodes
	// on the lower layers.
	LevelLambda float64

	// NeighbourHeuristic picks SelectSimple or SelectHeuristic.
	NeighbourHeuristic Heuristic

	// ConstructionPruning (efConstruction) is the beam width used while
	// inserting nodes.
	ConstructionPruning int

	// ExpandBestSelection, heuristic-only: extend the candidate set with
	// one hop through each candidate's existing neighbors before pruning.
	ExpandBestSelection bool

	// KeepPrunedConnections, heuristic-only: backfill discarded
	// candidates until the degree target is reached.
	KeepPrunedConnections bool

	// EnableDistanceCacheForConstruction turns on per-insertion distance
	// memoization (C1). Off by default; it only pays for itself once
	// nodes accumulate enough shared neighbors to repeat pair lookups.
	EnableDistanceCacheForConstruction bool
}

// DefaultParameters returns the parameter set recommended by the paper
// for moderate-dimensional data: M=10, efConstruction=200,
// SelectSimple, LevelLambda = 1/ln(M).
func DefaultParameters() Parameters {
	const m = 10
	return Parameters{
		M:                   m,
		LevelLambda:         1 / math.Log(float64(m)),
		NeighbourHeuristic:  SelectSimple,
		ConstructionPruning: 200,
	}
}

// Validate checks the structural invariants on Parameters, returning
// ErrInvalidParameters (wrapped with the offending detail) if any is
// violated.
func (p Parameters) Validate() error {
	if p.M < 2 {
		return fmt.Errorf("%w: M must be >= 2, got %d", ErrInvalidParameters, p.M)
	}
	if p.ConstructionPruning < 1 {
		return fmt.Errorf("%w: ConstructionPruning must be >= 1, got %d", ErrInvalidParameters, p.ConstructionPruning)
	}
	if p.LevelLambda <= 0 {
		return fmt.Errorf("%w: LevelLambda must be > 0, got %f", ErrInvalidParameters, p.LevelLambda)
	}
	return nil
}

// maxDegree returns Mmax(layer): 2*M at layer 0, M above it.
func (p Parameters) maxDegree(layer int) int {
	if layer == 0 {
		return 2 * p.M
	}
	return p.M
}
