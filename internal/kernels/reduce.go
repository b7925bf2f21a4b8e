package kernels

import (
	"github.com/gomlx/gopjrt/dtypes"
)

type sumTrailingFn func(flat any, outerSize, innerSize int) any

var sumTrailingDTypeMap = NewDTypeMap[sumTrailingFn]("SumTrailing")

// SumTrailing takes a contiguous flat slice shaped [outerSize, innerSize] and returns a new slice
// of outerSize elements with the sum over the inner axis.
//
// Elements are summed sequentially in increasing index order. An innerSize of 0 yields zeros.
func SumTrailing(dtype dtypes.DType, flat any, outerSize, innerSize int) any {
	return sumTrailingDTypeMap.Get(dtype)(flat, outerSize, innerSize)
}

func sumTrailingGeneric[T RingConstraints](anyFlat any, outerSize, innerSize int) any {
	src := anyFlat.([]T)
	dst := make([]T, outerSize)
	for outerIdx := range outerSize {
		row := src[outerIdx*innerSize : (outerIdx+1)*innerSize]
		var sum T
		for _, v := range row {
			sum += v
		}
		dst[outerIdx] = sum
	}
	return dst
}

func sumTrailingHalfFloat[T HalfFloatConstraints](fromFloat32 func(float32) T) sumTrailingFn {
	return func(anyFlat any, outerSize, innerSize int) any {
		src := anyFlat.([]T)
		dst := make([]T, outerSize)
		for outerIdx := range outerSize {
			row := src[outerIdx*innerSize : (outerIdx+1)*innerSize]
			sum := fromFloat32(0)
			for _, v := range row {
				sum = fromFloat32(sum.Float32() + v.Float32())
			}
			dst[outerIdx] = sum
		}
		return dst
	}
}
