package kernels

import (
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// MakeFlat returns a new zero-initialized flat slice of the Go type of dtype.
func MakeFlat(dtype dtypes.DType, size int) any {
	goType := dtype.GoType()
	if goType == nil {
		exceptions.Panicf("MakeFlat: dtype %s has no Go equivalent type", dtype)
	}
	return reflect.MakeSlice(reflect.SliceOf(goType), size, size).Interface()
}

type multiplyFn func(lhs, rhs any, size int) any

var multiplyDTypeMap = NewDTypeMap[multiplyFn]("Multiply")

// Multiply returns the element-wise product lhs[i]*rhs[i] of two contiguous flat slices, for i in [0, size).
//
// Either side can hold exactly one element, in which case it is broadcast: that's the product of a tensor by a scalar.
func Multiply(dtype dtypes.DType, lhs, rhs any, size int) any {
	return multiplyDTypeMap.Get(dtype)(lhs, rhs, size)
}

func multiplyGeneric[T RingConstraints](anyLhs, anyRhs any, size int) any {
	lhs := anyLhs.([]T)
	rhs := anyRhs.([]T)
	output := make([]T, size)
	switch {
	case len(lhs) == size && len(rhs) == size:
		for ii := range output {
			output[ii] = lhs[ii] * rhs[ii]
		}
	case len(lhs) == 1:
		scalar := lhs[0]
		for ii := range output {
			output[ii] = scalar * rhs[ii]
		}
	case len(rhs) == 1:
		scalar := rhs[0]
		for ii := range output {
			output[ii] = lhs[ii] * scalar
		}
	default:
		exceptions.Panicf("Multiply: operands of sizes %d and %d can't produce %d elements", len(lhs), len(rhs), size)
	}
	return output
}

func multiplyHalfFloat[T HalfFloatConstraints](fromFloat32 func(float32) T) multiplyFn {
	return func(anyLhs, anyRhs any, size int) any {
		lhs := anyLhs.([]T)
		rhs := anyRhs.([]T)
		lhsStep, rhsStep := 1, 1
		if len(lhs) == 1 && size != 1 {
			lhsStep = 0
		}
		if len(rhs) == 1 && size != 1 {
			rhsStep = 0
		}
		if (lhsStep == 1 && len(lhs) != size) || (rhsStep == 1 && len(rhs) != size) {
			exceptions.Panicf("Multiply: operands of sizes %d and %d can't produce %d elements", len(lhs), len(rhs), size)
		}
		output := make([]T, size)
		for ii := range output {
			output[ii] = fromFloat32(lhs[ii*lhsStep].Float32() * rhs[ii*rhsStep].Float32())
		}
		return output
	}
}
