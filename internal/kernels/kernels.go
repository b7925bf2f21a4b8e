// Package kernels implements the numeric loops used to execute a contraction path: strided gathers,
// reductions over trailing axes, batched matrix multiplications and element-wise products.
//
// Kernels work on flat Go slices (passed as `any`) of the element type of the dtype, and they are dispatched
// once per operation by dtype, using a DTypeMap. All kernels return newly allocated slices and never
// modify their inputs.
//
// Products and sums use the element type's own arithmetic: there is no implicit upcasting. For Float16 and
// BFloat16 every intermediate product and sum is rounded back to the element type.
package kernels

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// MaxDTypes is the upper bound on the dtypes.DType values handled by a DTypeMap.
const MaxDTypes = 32

// DTypeMap maps a dtype to the implementation of a kernel of type F for that dtype.
type DTypeMap[F any] struct {
	Name  string
	fnMap [MaxDTypes]F
	isSet [MaxDTypes]bool
}

// NewDTypeMap creates a new map of kernels for a class of functions.
func NewDTypeMap[F any](name string) *DTypeMap[F] {
	return &DTypeMap[F]{Name: name}
}

// Register a function to handle a specific dtype.
// This overwrites any previous setting for the same dtype.
func (d *DTypeMap[F]) Register(dtype dtypes.DType, fn F) {
	if dtype < 0 || dtype >= MaxDTypes {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	d.fnMap[dtype] = fn
	d.isSet[dtype] = true
}

// Get returns the function registered for the dtype. It panics if there is none.
func (d *DTypeMap[F]) Get(dtype dtypes.DType) F {
	if dtype < 0 || dtype >= MaxDTypes || !d.isSet[dtype] {
		exceptions.Panicf("dtype %s not supported by %s", dtype, d.Name)
	}
	return d.fnMap[dtype]
}

// Has returns whether there is a function registered for the dtype.
func (d *DTypeMap[F]) Has(dtype dtypes.DType) bool {
	return dtype >= 0 && dtype < MaxDTypes && d.isSet[dtype]
}

// RingConstraints are the Go types whose native + and * operators are used by the generic kernels.
// Float16 and BFloat16 are not included because they are not natively supported by Go,
// they have their own specialized kernels.
type RingConstraints interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64 | complex64 | complex128
}

// HalfFloatConstraints are the 16-bits float types, whose arithmetic is done in float32 and
// rounded back after every operation.
type HalfFloatConstraints interface {
	float16.Float16 | bfloat16.BFloat16
	Float32() float32
}

func init() {
	registerRing[int8](dtypes.Int8)
	registerRing[int16](dtypes.Int16)
	registerRing[int32](dtypes.Int32)
	registerRing[int64](dtypes.Int64)
	registerRing[uint8](dtypes.Uint8)
	registerRing[uint16](dtypes.Uint16)
	registerRing[uint32](dtypes.Uint32)
	registerRing[uint64](dtypes.Uint64)
	registerRing[float32](dtypes.Float32)
	registerRing[float64](dtypes.Float64)
	registerRing[complex64](dtypes.Complex64)
	registerRing[complex128](dtypes.Complex128)
	registerHalfFloat(dtypes.Float16, float16.Fromfloat32)
	registerHalfFloat(dtypes.BFloat16, bfloat16.FromFloat32)

	// Bool is not a ring, but tensors of booleans can still be viewed and copied.
	gatherDTypeMap.Register(dtypes.Bool, gatherGeneric[bool])
}

func registerRing[T RingConstraints](dtype dtypes.DType) {
	gatherDTypeMap.Register(dtype, gatherGeneric[T])
	sumTrailingDTypeMap.Register(dtype, sumTrailingGeneric[T])
	batchMatMulDTypeMap.Register(dtype, batchMatMulGeneric[T])
	multiplyDTypeMap.Register(dtype, multiplyGeneric[T])
}

func registerHalfFloat[T HalfFloatConstraints](dtype dtypes.DType, fromFloat32 func(float32) T) {
	gatherDTypeMap.Register(dtype, gatherGeneric[T])
	sumTrailingDTypeMap.Register(dtype, sumTrailingHalfFloat(fromFloat32))
	batchMatMulDTypeMap.Register(dtype, batchMatMulHalfFloat(fromFloat32))
	multiplyDTypeMap.Register(dtype, multiplyHalfFloat(fromFloat32))
}

// SupportsArithmetic returns whether there are arithmetic kernels (sums and products) for the dtype.
func SupportsArithmetic(dtype dtypes.DType) bool {
	return batchMatMulDTypeMap.Has(dtype)
}
