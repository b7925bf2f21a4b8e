package kernels

import (
	"github.com/gomlx/gopjrt/dtypes"
)

type gatherFn func(flat any, offset int, dimensions, strides []int) any

var gatherDTypeMap = NewDTypeMap[gatherFn]("Gather")

// Gather copies the elements of a strided view over flat into a new contiguous (row-major) slice.
//
// The view's element at indices (i_0, ..., i_{n-1}) is flat[offset + sum(i_k * strides[k])]. Strides can be
// zero or negative, and several indices can alias the same element: it's the caller's responsibility
// to make sure all addressed positions are within flat.
func Gather(dtype dtypes.DType, flat any, offset int, dimensions, strides []int) any {
	return gatherDTypeMap.Get(dtype)(flat, offset, dimensions, strides)
}

func gatherGeneric[T any](anyFlat any, offset int, dimensions, strides []int) any {
	src := anyFlat.([]T)
	size := 1
	for _, dim := range dimensions {
		size *= dim
	}
	dst := make([]T, size)
	if size == 0 {
		return dst
	}
	rank := len(dimensions)
	if rank == 0 {
		dst[0] = src[offset]
		return dst
	}

	// The innermost axis is copied in a tight loop, the outer axes are iterated with an odometer
	// that keeps track of the source position incrementally.
	innerDim := dimensions[rank-1]
	innerStride := strides[rank-1]
	indices := make([]int, rank-1)
	srcIdx := offset
	dstIdx := 0
	for {
		if innerStride == 1 {
			copy(dst[dstIdx:dstIdx+innerDim], src[srcIdx:srcIdx+innerDim])
		} else {
			pos := srcIdx
			for ii := range innerDim {
				dst[dstIdx+ii] = src[pos]
				pos += innerStride
			}
		}
		dstIdx += innerDim

		axis := rank - 2
		for ; axis >= 0; axis-- {
			indices[axis]++
			srcIdx += strides[axis]
			if indices[axis] < dimensions[axis] {
				break
			}
			// Rewind axis.
			srcIdx -= indices[axis] * strides[axis]
			indices[axis] = 0
		}
		if axis < 0 {
			return dst
		}
	}
}
