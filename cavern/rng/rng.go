// Package rng provides the small deterministic generator used by the
// background engine. Sequences depend only on the seed.
package rng

// RNG is a 32-bit xorshift generator.
type RNG struct {
	state uint32
}

const defaultSeed = 0x2545F491

// New seeds a generator. A zero seed is replaced since xorshift never
// leaves the all-zero state.
func New(seed uint32) *RNG {
	if seed == 0 {
		seed = defaultSeed
	}
	return &RNG{state: seed}
}

// Next returns the next 32-bit value.
func (r *RNG) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Range returns a value in [lo, hi). An empty range returns lo.
func (r *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(r.Next()%uint32(hi-lo))
}

// Split derives an independent generator, advancing this one.
func (r *RNG) Split() *RNG {
	return New(r.Next() ^ 0x9E3779B9)
}

// Seed returns the current state, for logging reproducible runs.
func (r *RNG) Seed() uint32 {
	return r.state
}
