package rng_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-cavern/cavern/rng"
)

func TestDeterministic(t *testing.T) {
	a, b := rng.New(42), rng.New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestZeroSeed(t *testing.T) {
	r := rng.New(0)
	assert.NotZero(t, r.Next())
}

func TestRange(t *testing.T) {
	r := rng.New(7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := r.Range(-3, 3)
		assert.GreaterOrEqual(t, v, -3)
		assert.Less(t, v, 3)
		seen[v] = true
	}
	assert.Len(t, seen, 6)

	assert.Equal(t, 5, r.Range(5, 5))
	assert.Equal(t, 5, r.Range(5, 1))
}

func TestSplit(t *testing.T) {
	parent := rng.New(99)
	child := parent.Split()
	assert.NotEqual(t, parent.Next(), child.Next())

	again := rng.New(99).Split()
	assert.Equal(t, rng.New(99).Split().Next(), again.Next())
}
