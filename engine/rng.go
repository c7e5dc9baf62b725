package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// A fixed seed reproduces the exact draw sequence, which is what makes
// scripted replays and the walkthrough checker reproducible.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// IntRange returns a random integer in [lo, hi] inclusive.
// lo must be <= hi.
func (r *RNG) IntRange(lo, hi int) int {
	r.pos++
	return lo + r.src.Intn(hi-lo+1)
}

// Seed returns the seed this RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}
