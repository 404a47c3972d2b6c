package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/config"
)

func TestDefaults(t *testing.T) {
	c := config.Default()
	require.Equal(t, uint64(60), c.TimeLimit)
	require.Equal(t, 25, c.MinPopulationSize)
	require.Equal(t, 0.2, c.FeasibilityProportionTarget)
	require.Equal(t, 1.2, c.PenaltyIncMultiplier)
	require.Equal(t, 0.85, c.PenaltyDecMultiplier)
	require.True(t, c.LinearSplit)
	require.True(t, c.SwapStar)
}

func TestPatchYAMLOverridesAndIgnoresUnknown(t *testing.T) {
	c := config.Default()
	doc := []byte(`
time_limit: 120
min_population_size: 10
swap_star: false
some_unknown_key: 42
`)
	require.NoError(t, c.PatchYAML(doc))
	require.Equal(t, uint64(120), c.TimeLimit)
	require.Equal(t, 10, c.MinPopulationSize)
	require.False(t, c.SwapStar)
	// Keys absent from the document keep their defaults.
	require.Equal(t, 40, c.PopulationLambda)
}

func TestPatchYAMLMalformed(t *testing.T) {
	c := config.Default()
	require.Error(t, c.PatchYAML([]byte("time_limit: [nonsense")))
}

func TestValidate(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate(101))

	bad := c
	bad.FeasibilityProportionTarget = 1.5
	require.ErrorIs(t, bad.Validate(101), config.ErrTargetOutOfRange)

	bad = c
	bad.LocalSearchGranularity = 101
	require.ErrorIs(t, bad.Validate(101), config.ErrGranularityTooLarge)

	bad = c
	bad.MinPopulationSize = 0
	require.ErrorIs(t, bad.Validate(101), config.ErrNonPositiveSize)
}
