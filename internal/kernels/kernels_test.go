package kernels

import (
	"math/rand/v2"
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestGather(t *testing.T) {
	// Source is a [2, 3] row-major matrix.
	src := []float32{0, 1, 2, 10, 11, 12}

	// Transposed view: [3, 2].
	got := Gather(dtypes.Float32, src, 0, []int{3, 2}, []int{1, 3})
	assert.Equal(t, []float32{0, 10, 1, 11, 2, 12}, got)

	// Reversed columns, negative stride: starts at the last column.
	got = Gather(dtypes.Float32, src, 2, []int{2, 3}, []int{3, -1})
	assert.Equal(t, []float32{2, 1, 0, 12, 11, 10}, got)

	// Diagonal of a [3, 3] matrix: stride 3+1.
	got = Gather(dtypes.Int32, []int32{1, 2, 3, 4, 5, 6, 7, 8, 9}, 0, []int{3}, []int{4})
	assert.Equal(t, []int32{1, 5, 9}, got)

	// Broadcast with stride 0.
	got = Gather(dtypes.Int64, []int64{7, 8}, 0, []int{2, 3}, []int{1, 0})
	assert.Equal(t, []int64{7, 7, 7, 8, 8, 8}, got)

	// Scalar and empty.
	assert.Equal(t, []float64{3}, Gather(dtypes.Float64, []float64{1, 2, 3}, 2, nil, nil))
	assert.Len(t, Gather(dtypes.Float64, []float64{1, 2, 3}, 0, []int{3, 0}, []int{1, 1}), 0)

	// Booleans can be gathered.
	assert.Equal(t, []bool{true, true}, Gather(dtypes.Bool, []bool{true, false, true}, 0, []int{2}, []int{2}))
}

func TestSumTrailing(t *testing.T) {
	got := SumTrailing(dtypes.Int32, []int32{1, 2, 3, 4, 5, 6}, 2, 3)
	assert.Equal(t, []int32{6, 15}, got)
	got = SumTrailing(dtypes.Complex64, []complex64{1 + 1i, 2 - 3i}, 1, 2)
	assert.Equal(t, []complex64{3 - 2i}, got)
	got = SumTrailing(dtypes.Float32, []float32{}, 3, 0)
	assert.Equal(t, []float32{0, 0, 0}, got)

	f16 := []float16.Float16{float16.Fromfloat32(0.5), float16.Fromfloat32(1.5), float16.Fromfloat32(2)}
	got = SumTrailing(dtypes.Float16, f16, 1, 3)
	require.Len(t, got, 1)
	assert.Equal(t, float32(4), got.([]float16.Float16)[0].Float32())
}

func TestBatchMatMul(t *testing.T) {
	// lhs: [1, 2, 3], rhs: [1, 2, 3] (rhs is already "transposed", with contracting axis last).
	lhs := []float32{1, 2, 3, 4, 5, 6}
	rhs := []float32{1, 0, 0, 1, 1, 1}
	params := BatchMatMulParams{BatchSize: 1, LhsCrossSize: 2, RhsCrossSize: 2, ContractingSize: 3}
	got := BatchMatMul(dtypes.Float32, lhs, rhs, params, nil)
	assert.Equal(t, []float32{1, 6, 4, 15}, got)

	// Contracting size 0 yields zeros.
	params = BatchMatMulParams{BatchSize: 2, LhsCrossSize: 1, RhsCrossSize: 2, ContractingSize: 0}
	got = BatchMatMul(dtypes.Int64, []int64{}, []int64{}, params, nil)
	assert.Equal(t, []int64{0, 0, 0, 0}, got)

	// BFloat16.
	bf := func(values ...float32) []bfloat16.BFloat16 {
		out := make([]bfloat16.BFloat16, len(values))
		for ii, v := range values {
			out[ii] = bfloat16.FromFloat32(v)
		}
		return out
	}
	params = BatchMatMulParams{BatchSize: 1, LhsCrossSize: 1, RhsCrossSize: 1, ContractingSize: 2}
	got = BatchMatMul(dtypes.BFloat16, bf(2, 3), bf(4, 5), params, nil)
	assert.Equal(t, float32(23), got.([]bfloat16.BFloat16)[0].Float32())
}

func TestBatchMatMulParallel(t *testing.T) {
	params := BatchMatMulParams{BatchSize: 17, LhsCrossSize: 5, RhsCrossSize: 7, ContractingSize: 33}
	rng := rand.New(rand.NewPCG(42, 0))
	lhs := make([]float32, params.BatchSize*params.LhsCrossSize*params.ContractingSize)
	rhs := make([]float32, params.BatchSize*params.RhsCrossSize*params.ContractingSize)
	for ii := range lhs {
		lhs[ii] = rng.Float32()*2 - 1
	}
	for ii := range rhs {
		rhs[ii] = rng.Float32()*2 - 1
	}
	want := BatchMatMul(dtypes.Float32, lhs, rhs, params, nil)
	for _, parallelism := range []int{0, 1, 3, -1} {
		got := BatchMatMul(dtypes.Float32, lhs, rhs, params, NewPool(parallelism))
		// Bit-exact: each output element is computed by the same sequential loop.
		require.Equal(t, want, got, "parallelism=%d", parallelism)
	}
	got := BatchMatMul(dtypes.Float32, lhs, rhs, params, NewPoolWithNumCPU())
	require.Equal(t, want, got)
}

func TestMultiply(t *testing.T) {
	assert.Equal(t, []int8{2, 6, 12}, Multiply(dtypes.Int8, []int8{1, 2, 3}, []int8{2, 3, 4}, 3))
	assert.Equal(t, []uint16{3, 6}, Multiply(dtypes.Uint16, []uint16{3}, []uint16{1, 2}, 2))
	assert.Equal(t, []float64{-1, -2}, Multiply(dtypes.Float64, []float64{1, 2}, []float64{-1}, 2))
	got := Multiply(dtypes.Float16, []float16.Float16{float16.Fromfloat32(1.5)},
		[]float16.Float16{float16.Fromfloat32(2), float16.Fromfloat32(-4)}, 2).([]float16.Float16)
	assert.Equal(t, float32(3), got[0].Float32())
	assert.Equal(t, float32(-6), got[1].Float32())
	assert.Panics(t, func() { Multiply(dtypes.Float32, []float32{1, 2}, []float32{1, 2, 3}, 3) })
}

func TestDTypeMap(t *testing.T) {
	assert.True(t, SupportsArithmetic(dtypes.Float32))
	assert.True(t, SupportsArithmetic(dtypes.BFloat16))
	assert.False(t, SupportsArithmetic(dtypes.Bool))
	assert.Panics(t, func() { SumTrailing(dtypes.Bool, []bool{true}, 1, 1) })
	flat := MakeFlat(dtypes.Complex128, 3)
	assert.Equal(t, []complex128{0, 0, 0}, flat)
}
