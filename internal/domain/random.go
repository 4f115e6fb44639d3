package domain

import (
	"math/rand/v2"
	"time"
)

// Random is the sampling source for generation and pacing.
// *rand.Rand satisfies it.
type Random interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int

	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// NewRandom returns a PCG generator seeded from the current time.
func NewRandom() *rand.Rand {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
