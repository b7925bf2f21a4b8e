package kernels

import (
	"sync"

	"github.com/gomlx/gopjrt/dtypes"
)

// BatchMatMulParams describes the normalized operands of a batched matrix multiplication:
// lhs is shaped [BatchSize, LhsCrossSize, ContractingSize] and rhs is shaped
// [BatchSize, RhsCrossSize, ContractingSize]. The output is shaped [BatchSize, LhsCrossSize, RhsCrossSize].
type BatchMatMulParams struct {
	BatchSize, LhsCrossSize, RhsCrossSize, ContractingSize int
}

// OutputSize is the number of elements of the output.
func (p BatchMatMulParams) OutputSize() int {
	return p.BatchSize * p.LhsCrossSize * p.RhsCrossSize
}

type batchMatMulFn func(lhs, rhs, output any, params BatchMatMulParams, batchStartIdx, batchEndIdx int)

var batchMatMulDTypeMap = NewDTypeMap[batchMatMulFn]("BatchMatMul")

// BatchMatMul multiplies the normalized contiguous lhs and rhs (see BatchMatMulParams) and returns a new
// contiguous output.
//
// If pool is not nil and enabled, the batch is split among its workers. Each output element is always
// computed by one sequential loop over the contracting axis, so results don't depend on the parallelism.
func BatchMatMul(dtype dtypes.DType, lhs, rhs any, params BatchMatMulParams, pool *Pool) any {
	fn := batchMatMulDTypeMap.Get(dtype)
	output := MakeFlat(dtype, params.OutputSize())
	batchSize := params.BatchSize
	if pool == nil || !pool.IsEnabled() || batchSize <= 1 {
		fn(lhs, rhs, output, params, 0, batchSize)
		return output
	}

	// Split the batch in at most MaxParallelism chunks.
	batchSplitSize := 1
	if !pool.IsUnlimited() {
		batchSplitSize = (batchSize + pool.MaxParallelism() - 1) / pool.MaxParallelism()
	}
	var wg sync.WaitGroup
	for batchStartIdx := 0; batchStartIdx < batchSize; batchStartIdx += batchSplitSize {
		batchEndIdx := min(batchStartIdx+batchSplitSize, batchSize)
		wg.Add(1)
		pool.WaitToStart(func() {
			fn(lhs, rhs, output, params, batchStartIdx, batchEndIdx)
			wg.Done()
		})
	}
	wg.Wait()
	return output
}

func batchMatMulGeneric[T RingConstraints](anyLhs, anyRhs, anyOutput any, params BatchMatMulParams, batchStartIdx, batchEndIdx int) {
	lhsFlat := anyLhs.([]T)
	rhsFlat := anyRhs.([]T)
	outputFlat := anyOutput.([]T)

	contractingSize := params.ContractingSize
	lhsCrossSize := params.LhsCrossSize
	rhsCrossSize := params.RhsCrossSize
	lhsBatchStride := lhsCrossSize * contractingSize
	rhsBatchStride := rhsCrossSize * contractingSize
	outputBatchStride := lhsCrossSize * rhsCrossSize

	for batchIdx := batchStartIdx; batchIdx < batchEndIdx; batchIdx++ {
		lhsBaseIdx := batchIdx * lhsBatchStride
		rhsBaseIdx := batchIdx * rhsBatchStride
		outputIdx := batchIdx * outputBatchStride
		for idxLhsCross := range lhsCrossSize {
			lhsRow := lhsFlat[lhsBaseIdx+idxLhsCross*contractingSize : lhsBaseIdx+(idxLhsCross+1)*contractingSize]
			for idxRhsCross := range rhsCrossSize {
				rhsRow := rhsFlat[rhsBaseIdx+idxRhsCross*contractingSize : rhsBaseIdx+(idxRhsCross+1)*contractingSize]
				var sum T
				for idxContracting, lhsValue := range lhsRow {
					sum += lhsValue * rhsRow[idxContracting]
				}
				outputFlat[outputIdx] = sum
				outputIdx++
			}
		}
	}
}

func batchMatMulHalfFloat[T HalfFloatConstraints](fromFloat32 func(float32) T) batchMatMulFn {
	return func(anyLhs, anyRhs, anyOutput any, params BatchMatMulParams, batchStartIdx, batchEndIdx int) {
		lhsFlat := anyLhs.([]T)
		rhsFlat := anyRhs.([]T)
		outputFlat := anyOutput.([]T)

		contractingSize := params.ContractingSize
		lhsCrossSize := params.LhsCrossSize
		rhsCrossSize := params.RhsCrossSize
		lhsBatchStride := lhsCrossSize * contractingSize
		rhsBatchStride := rhsCrossSize * contractingSize
		outputBatchStride := lhsCrossSize * rhsCrossSize

		for batchIdx := batchStartIdx; batchIdx < batchEndIdx; batchIdx++ {
			lhsBaseIdx := batchIdx * lhsBatchStride
			rhsBaseIdx := batchIdx * rhsBatchStride
			outputIdx := batchIdx * outputBatchStride
			for idxLhsCross := range lhsCrossSize {
				lhsRow := lhsFlat[lhsBaseIdx+idxLhsCross*contractingSize : lhsBaseIdx+(idxLhsCross+1)*contractingSize]
				for idxRhsCross := range rhsCrossSize {
					rhsRow := rhsFlat[rhsBaseIdx+idxRhsCross*contractingSize : rhsBaseIdx+(idxRhsCross+1)*contractingSize]
					sum := fromFloat32(0)
					for idxContracting, lhsValue := range lhsRow {
						product := fromFloat32(lhsValue.Float32() * rhsRow[idxContracting].Float32())
						sum = fromFloat32(sum.Float32() + product.Float32())
					}
					outputFlat[outputIdx] = sum
					outputIdx++
				}
			}
		}
	}
}
