// Package vecdist provides ready-made float32-vector distance functions
// satisfying the generic DistanceFunc capability the core hnsw package
// expects. The core graph has no opinion on what an "item" is; this
// package is the plug-in for the common case where items are
// fixed-dimension float32 embeddings (e.g. OpenAI-style vectors), built
// on the SIMD-accelerated vek32 kernels rather than hand-rolled loops.
package vecdist

import (
	"github.com/chewxy/math32"
	"github.com/viterin/vek/vek32"
)

// Euclidean returns the straight-line distance between a and b.
func Euclidean(a, b []float32) float32 {
	diff := vek32.Sub(a, b)
	return math32.Sqrt(vek32.Dot(diff, diff))
}

// Cosine returns 1 minus the cosine similarity between a and b, so that
// 0 means identical direction and larger values mean more dissimilar —
// consistent with the rest of this package returning distances, not
// similarities. Returns 1 (maximally distant) for a zero vector, since
// cosine similarity is undefined there.
func Cosine(a, b []float32) float32 {
	na := math32.Sqrt(vek32.Dot(a, a))
	nb := math32.Sqrt(vek32.Dot(b, b))
	if na == 0 || nb == 0 {
		return 1
	}
	sim := vek32.Dot(a, b) / (na * nb)
	// Guard against floating-point drift pushing |sim| a hair past 1,
	// which would make the resulting distance negative.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return 1 - sim
}
