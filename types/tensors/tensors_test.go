package tensors

import (
	"testing"

	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestFromAnyValue(t *testing.T) {
	x := FromAnyValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, x.Shape().Check(dtypes.Float32, 2, 3))
	assert.Equal(t, [][]float32{{1, 2, 3}, {4, 5, 6}}, x.Value())
	assert.False(t, x.IsView())
	assert.True(t, x.IsContiguous())

	// Go int is stored as the platform sized integer.
	xInt := FromAnyValue([]int{1, 2, 3})
	assert.Equal(t, 3, xInt.Size())
	assert.True(t, xInt.Equal(FromAnyValue([]int{1, 2, 3})))

	scalar := FromAnyValue(complex128(2 + 1i))
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, complex128(2+1i), ToScalar[complex128](scalar))

	assert.Panics(t, func() { FromAnyValue([][]float32{{1}, {2, 3}}) })
	assert.Same(t, x, FromAnyValue(x))
}

func TestFromFlatDataAndDimensions(t *testing.T) {
	x := FromFlatDataAndDimensions([]int32{1, 2, 3, 4, 5, 6}, 3, 2)
	assert.Equal(t, [][]int32{{1, 2}, {3, 4}, {5, 6}}, x.Value())
	assert.Panics(t, func() { FromFlatDataAndDimensions([]int32{1, 2, 3}, 2, 2) })

	f16 := FromFlatDataAndDimensions([]float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(-2)}, 2)
	assert.Equal(t, dtypes.Float16, f16.DType())
	bf16 := FromScalar(bfloat16.FromFloat32(3))
	assert.Equal(t, dtypes.BFloat16, bf16.DType())
	assert.Equal(t, float32(3), ToScalar[bfloat16.BFloat16](bf16).Float32())

	flat := []float64{1, 2, 3, 4}
	owned := FromFlat(flat, 2, 2)
	assert.False(t, owned.IsView())
	assert.Panics(t, func() { FromFlat(flat, 3) })
}

func TestTranspose(t *testing.T) {
	x := FromAnyValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	xT := x.Transpose(1, 0)
	assert.True(t, xT.IsView())
	assert.False(t, xT.IsContiguous())
	assert.False(t, xT.IsReadOnly())
	assert.Equal(t, []int{1, 3}, xT.Strides())
	assert.Equal(t, [][]float32{{1, 4}, {2, 5}, {3, 6}}, xT.Value())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, CopyFlatData[float32](xT))

	// Transposing back gives the original layout.
	assert.True(t, xT.Transpose(1, 0).IsContiguous())
	assert.Panics(t, func() { x.Transpose(0, 0) })
	assert.Panics(t, func() { x.Transpose(0) })

	// Views are immutable.
	assert.Panics(t, func() { MutableFlatData(xT, func(flat []float32) {}) })
	clone := xT.Clone()
	MutableFlatData(clone, func(flat []float32) { flat[0] = 100 })
	assert.Equal(t, float32(1), CopyFlatData[float32](x)[0], "clone should not share data")
}

func TestDiagonal(t *testing.T) {
	x := FromAnyValue([][]int64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	diag, copied := x.Diagonal([][]int{{0, 1}})
	assert.False(t, copied)
	assert.True(t, diag.IsReadOnly())
	assert.Equal(t, []int{4}, diag.Strides())
	assert.Equal(t, []int64{1, 5, 9}, diag.Value())
	assert.Panics(t, func() { MutableFlatData(diag, func(flat []int64) {}) })

	// Groups of one axis only permute.
	perm, copied := x.Diagonal([][]int{{1}, {0}})
	assert.False(t, copied)
	assert.False(t, perm.IsReadOnly())
	assert.Equal(t, [][]int64{{1, 4, 7}, {2, 5, 8}, {3, 6, 9}}, perm.Value())

	// Diagonal of a 3D tensor "iji->ij".
	y := FromFlatDataAndDimensions([]float32{0, 1, 2, 3, 4, 5, 6, 7}, 2, 2, 2)
	diag, _ = y.Diagonal([][]int{{0, 2}, {1}})
	assert.Equal(t, [][]float32{{0, 2}, {5, 7}}, diag.Value())

	// Negative strides can't be merged in place: it falls back to a copy.
	flat := []float32{1, 2, 3, 4}
	reversed := must.M1(View(flat, []int{2, 2}, []int{-2, -1}, 3))
	assert.Equal(t, [][]float32{{4, 3}, {2, 1}}, reversed.Value())
	diag, copied = reversed.Diagonal([][]int{{0, 1}})
	assert.True(t, copied)
	assert.Equal(t, []float32{4, 1}, diag.Value())

	assert.Panics(t, func() { x.Diagonal([][]int{{0}}) })
	assert.Panics(t, func() { FromShape(shapes.Make(dtypes.Float32, 2, 3)).Diagonal([][]int{{0, 1}}) })
}

func TestView(t *testing.T) {
	flat := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	// Every other element, in reverse.
	v, err := View(flat, []int{5}, []int{-2}, 9)
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 7, 5, 3, 1}, v.Value())
	assert.True(t, v.IsView())
	assert.Equal(t, 9, v.Offset())
	assert.Equal(t, []int{-2}, v.Strides())

	// Broadcast: zero stride is read-only.
	v, err = View(flat, []int{2, 3}, []int{1, 0}, 4)
	require.NoError(t, err)
	assert.True(t, v.IsReadOnly())
	assert.Equal(t, [][]float64{{4, 4, 4}, {5, 5, 5}}, v.Value())

	// Out of bounds.
	_, err = View(flat, []int{5}, []int{3}, 0)
	require.Error(t, err)
	_, err = View(flat, []int{2}, []int{-1}, 0)
	require.Error(t, err)
	_, err = View(flat, []int{2}, []int{1, 1}, 0)
	require.Error(t, err)
	_, err = View([]string{"a"}, []int{1}, []int{1}, 0)
	require.Error(t, err)

	// Empty views don't address anything.
	v, err = View(flat, []int{0, 3}, []int{100, 100}, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Size())
}

func TestReshapeAndContiguous(t *testing.T) {
	x := FromAnyValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	r := x.Reshape(3, 2)
	assert.Equal(t, [][]float32{{1, 2}, {3, 4}, {5, 6}}, r.Value())
	assert.Same(t, x, x.Contiguous())

	// Reshaping a transposed view requires a copy.
	r = x.Transpose(1, 0).Reshape(6)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, r.Value())
	assert.False(t, r.IsView())
	assert.Panics(t, func() { x.Reshape(4) })

	// Reshaping a zero-sized tensor.
	empty := FromShape(shapes.Make(dtypes.Float32, 0, 3))
	assert.Equal(t, 0, empty.Reshape(3, 0).Size())
}

func TestEqualAndInDelta(t *testing.T) {
	x := FromAnyValue([]float32{1, 2, 3})
	y := FromAnyValue([]float32{1, 2, 3.001})
	assert.False(t, x.Equal(y))
	assert.True(t, x.InDelta(y, 0.01))
	assert.False(t, x.InDelta(y, 0.0001))
	assert.False(t, x.InDelta(FromAnyValue([]float64{1, 2, 3}), 0.01), "different dtypes")

	c := FromAnyValue([]complex64{1 + 1i})
	assert.True(t, c.InDelta(FromAnyValue([]complex64{1 + 1.001i}), 0.01))
	assert.Contains(t, x.String(), "(Float32)[3]")
}
