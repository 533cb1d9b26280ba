package hnsw

import (
	"math/rand"
	"time"
)

// Rng is the random-value capability the graph needs during construction:
// a uniform draw in (0,1] for level sampling, and a uniform draw in [0,n)
// should a caller-supplied heuristic ever need one. Callers inject their
// own implementation for reproducible builds; the graph never reaches
// into a process-wide generator.
type Rng interface {
	// NextFloat64 returns a value in (0,1].
	NextFloat64() float64
	// NextInt returns a value in [0,n). n must be > 0.
	NextInt(n int) int
}

// mathRand adapts math/rand.Rand to the Rng capability.
type mathRand struct {
	r *rand.Rand
}

// NewMathRand returns an Rng backed by math/rand, seeded deterministically
// with seed. Two graphs built with the same seed, the same input order,
// and the same Parameters produce identical edge sets.
func NewMathRand(seed int64) Rng {
	return &mathRand{r: rand.New(rand.NewSource(seed))}
}

// defaultRand seeds from the wall clock, for callers who don't care
// about reproducibility.
func defaultRand() Rng {
	return &mathRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (m *mathRand) NextFloat64() float64 {
	// rand.Float64 returns [0,1); 1-r remaps to (0,1] so -ln(U) never
	// sees a zero input.
	return 1 - m.r.Float64()
}

func (m *mathRand) NextInt(n int) int {
	return m.r.Intn(n)
}
