package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptimizationMethodString(t *testing.T) {
	require.Equal(t, "greedy", OptimizeGreedy.String())
	for _, name := range []string{"exhaustive", "Exhaustive", "EXHAUSTIVE"} {
		m, err := OptimizationMethodString(name)
		require.NoError(t, err)
		require.Equal(t, OptimizeExhaustive, m)
	}
	_, err := OptimizationMethodString("random")
	require.Error(t, err)
	require.Len(t, OptimizationMethodValues(), 5)
}
