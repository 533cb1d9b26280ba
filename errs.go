package hnsw

import "errors"

// Sentinel error kinds returned by the graph's public operations. Use
// errors.Is to test for a specific kind; the concrete error also carries
// a human-readable message via Error().
var (
	// ErrInvalidParameters is returned when Parameters violate one of the
	// invariants in Validate: M < 2, ConstructionPruning < 1, or
	// LevelLambda <= 0.
	ErrInvalidParameters = errors.New("hnsw: invalid parameters")

	// ErrGraphNotBuilt is returned by queries or SerializeGraph when
	// neither BuildGraph nor DeserializeGraph has completed on the graph.
	ErrGraphNotBuilt = errors.New("hnsw: graph not built")

	// ErrEmptyGraph is returned by KNNSearch against a zero-item graph.
	ErrEmptyGraph = errors.New("hnsw: graph has no items")

	// ErrCorruptGraph is returned by DeserializeGraph when the byte
	// layout is malformed, or encodes duplicate ids, self-loops, or
	// asymmetric edges.
	ErrCorruptGraph = errors.New("hnsw: corrupt graph encoding")

	// ErrMismatchedItems is returned by DeserializeGraph when the
	// caller-supplied item count doesn't match the encoded node count.
	ErrMismatchedItems = errors.New("hnsw: item count does not match encoded graph")
)
