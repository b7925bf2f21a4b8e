package einsum

import (
	"testing"

	"github.com/gomlx/einsum/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensordot(t *testing.T) {
	lhs := sequence(1, 2, 3)
	rhs := sequence(1, 3, 2)

	// Matrix multiplication.
	got, err := Tensordot(lhs, rhs, []int{1}, []int{0})
	require.NoError(t, err)
	want := tensors.FromAnyValue([][]float32{{22, 28}, {49, 64}})
	assert.True(t, want.Equal(got), "got %s", got)

	// Negative axes.
	got, err = Tensordot(lhs, rhs, []int{-1}, []int{-2})
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "got %s", got)

	// Output order.
	got, err = TensordotWithOrder(lhs, rhs, []int{1}, []int{0}, []int{1, 0})
	require.NoError(t, err)
	want = tensors.FromAnyValue([][]float32{{22, 49}, {28, 64}})
	assert.True(t, want.Equal(got), "got %s", got)

	// Contracting the first axis of both.
	got, err = Tensordot(lhs, sequence(1, 2, 2), []int{0}, []int{0})
	require.NoError(t, err)
	want = tensors.FromAnyValue([][]float32{{13, 18}, {17, 24}, {21, 30}})
	assert.True(t, want.Equal(got), "got %s", got)

	// All axes contracted: sum of squares.
	got, err = Tensordot(lhs, lhs, []int{0, 1}, []int{0, 1})
	require.NoError(t, err)
	assert.True(t, got.IsScalar())
	assert.Equal(t, float32(91), tensors.ToScalar[float32](got))

	// No axes: outer product.
	got, err = Tensordot(tensors.FromAnyValue([]float32{1, 2}), tensors.FromAnyValue([]float32{3, 4, 5}), nil, nil)
	require.NoError(t, err)
	want = tensors.FromAnyValue([][]float32{{3, 4, 5}, {6, 8, 10}})
	assert.True(t, want.Equal(got), "got %s", got)

	// The caller's axes are not modified.
	lhsAxes, rhsAxes := []int{-1}, []int{-2}
	_, err = Tensordot(lhs, rhs, lhsAxes, rhsAxes)
	require.NoError(t, err)
	assert.Equal(t, []int{-1}, lhsAxes)
	assert.Equal(t, []int{-2}, rhsAxes)
}

func TestTensordot_Errors(t *testing.T) {
	lhs := sequence(1, 2, 3)
	rhs := sequence(1, 3, 2)
	testCases := []struct {
		name                       string
		lhsAxes, rhsAxes, outOrder []int
	}{
		{"axes count", []int{1}, []int{0, 1}, nil},
		{"axis out of range", []int{2}, []int{0}, nil},
		{"negative axis out of range", []int{1}, []int{-3}, nil},
		{"repeated axis", []int{1, 1}, []int{0, 0}, nil},
		{"dimensions mismatch", []int{0}, []int{0}, nil},
		{"output order repeated", []int{1}, []int{0}, []int{0, 0}},
		{"output order too short", []int{1}, []int{0}, []int{0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := TensordotWithOrder(lhs, rhs, tc.lhsAxes, tc.rhsAxes, tc.outOrder)
			require.Error(t, err)
		})
	}

	_, err := Tensordot(nil, rhs, []int{1}, []int{0})
	require.Error(t, err)
	_, err = Tensordot(lhs, tensors.FromAnyValue([][]float64{{1, 2}, {3, 4}, {5, 6}}), []int{1}, []int{0})
	require.ErrorContains(t, err, "data types")
}

func TestAxisLabel(t *testing.T) {
	seen := make(map[rune]bool)
	for n := range 200 {
		label := axisLabel(n)
		require.False(t, seen[label], "label %q repeated for n=%d", label, n)
		seen[label] = true
	}
	assert.Equal(t, 'a', axisLabel(0))
	assert.Equal(t, 'A', axisLabel(26))
}
