package rng_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/rng"
)

func TestFromSeedIsReproducible(t *testing.T) {
	a := rng.FromSeed(42)
	b := rng.FromSeed(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntRange(0, 1000), b.IntRange(0, 1000))
	}
}

func TestResetRewindsSeededStream(t *testing.T) {
	r := rng.FromSeed(7)
	first := make([]float64, 10)
	for i := range first {
		first[i] = r.Float64()
	}
	r.Reset()
	for i := range first {
		require.Equal(t, first[i], r.Float64())
	}
}

func TestShuffleIntsIsPermutation(t *testing.T) {
	r := rng.FromSeed(1)
	a := []int{1, 2, 3, 4, 5, 6, 7, 8, 9}
	r.ShuffleInts(a)
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	require.Len(t, seen, 9)
	for v := 1; v <= 9; v++ {
		require.True(t, seen[v])
	}
}

func TestIntRangeBounds(t *testing.T) {
	r := rng.FromSeed(3)
	for i := 0; i < 1000; i++ {
		v := r.IntRange(5, 8)
		require.GreaterOrEqual(t, v, 5)
		require.Less(t, v, 8)
	}
	require.Panics(t, func() { r.IntRange(3, 3) })
}
