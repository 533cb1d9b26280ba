package hnsw

import "math"

// sampleLevel draws a random insertion level from the geometric-like
// distribution floor(-ln(U) * mL), with U drawn from rng.NextFloat64()
// (always in (0,1], so -ln(U) is always finite).
func sampleLevel(rng Rng, mL float64) int {
	u := rng.NextFloat64()
	return int(math.Floor(-math.Log(u) * mL))
}
