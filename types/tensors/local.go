package tensors

import (
	"fmt"
	"math/cmplx"
	"reflect"
	"strconv"
	"unsafe"

	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape shapes.Shape) (t *Tensor) {
	if !shape.Ok() {
		exceptions.Panicf("FromShape: invalid shape")
	}
	return newTensor(shape, kernels.MakeFlat(shape.DType, shape.Size()))
}

// FromFlat creates a tensor that owns the given flat slice, with the given dimensions.
// The flat slice is not copied, and it should not be used by the caller afterward.
//
// It panics if the flat slice type is not supported or if its length doesn't match the dimensions.
func FromFlat(flat any, dimensions ...int) *Tensor {
	flatT := reflect.TypeOf(flat)
	if flatT == nil || flatT.Kind() != reflect.Slice {
		exceptions.Panicf("FromFlat: expected a slice, got %T", flat)
	}
	dtype := dtypes.FromGoType(flatT.Elem())
	if dtype == dtypes.InvalidDType {
		exceptions.Panicf("FromFlat: unsupported flat values type %T", flat)
	}
	shape := shapes.Make(dtype, dimensions...)
	if flatLen(flat) != shape.Size() {
		exceptions.Panicf("FromFlat(%s): flat size is %d, but dimensions size is %d", shape, flatLen(flat), shape.Size())
	}
	return newTensor(shape, flat)
}

// FromScalar creates a local tensor with the given scalar.
// The `DType` is inferred from the value.
func FromScalar[T dtypes.Supported](value T) (t *Tensor) {
	return FromFlatDataAndDimensions([]T{value})
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with the flattened values given in `data`.
// The data is copied to the Tensor.
// The `DType` is inferred from the `data` type.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) (t *Tensor) {
	dtype := dtypes.FromGenericsType[T]()
	shape := shapes.Make(dtype, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d", shape, len(data), shape.Size())
	}
	t = FromShape(shape)
	copyIntoFlat(t.flat, data)
	return
}

// copyIntoFlat copies data (a slice) into flat. If data is a slice of Go `int`, flat is reinterpreted as
// a slice of `int`, since it is either an []int64 or an []int32 depending on the platform.
func copyIntoFlat(flat any, data any) {
	dataV := reflect.ValueOf(data)
	if dataV.Type().Elem().Kind() == reflect.Int {
		flat = intSliceOf(flat)
	}
	reflect.Copy(reflect.ValueOf(flat), dataV)
}

// intSliceOf returns flat, either an []int64 or an []int32, reinterpreted as an []int.
func intSliceOf(flat any) []int {
	switch strconv.IntSize {
	case 64:
		flatRef := flat.([]int64)
		return unsafe.Slice((*int)(unsafe.Pointer(unsafe.SliceData(flatRef))), len(flatRef))
	case 32:
		flatRef := flat.([]int32)
		return unsafe.Slice((*int)(unsafe.Pointer(unsafe.SliceData(flatRef))), len(flatRef))
	}
	exceptions.Panicf("cannot use `int` of %d bits -- try using int32 or int64", strconv.IntSize)
	return nil
}

// FromAnyValue creates a tensor from the given multidimensional slice (or scalar).
// The input is expected to be either a scalar or a slice of slices with homogeneous dimensions.
// If the input is a tensor already, it is simply returned.
//
// It panics with an error if `value` type is unsupported or the shape is not regular.
func FromAnyValue(value any) (t *Tensor) {
	if valueT, ok := value.(*Tensor); ok {
		return valueT
	}
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		panic(errors.Wrapf(err, "cannot create shape from %T", value))
	}
	t = FromShape(shape)
	flatAny := t.flat
	if baseType(reflect.TypeOf(value)).Kind() == reflect.Int {
		flatAny = intSliceOf(flatAny)
	}
	flatV := reflect.ValueOf(flatAny)
	if shape.IsScalar() {
		flatV.Index(0).Set(reflect.ValueOf(value))
		return
	}
	copySlicesRecursively(flatV, reflect.ValueOf(value), shape.Strides())
	return
}

// copySlicesRecursively copy values on a multi-dimension slice to a flat data slice
// assuming the strides for each dimension.
func copySlicesRecursively(data reflect.Value, mdSlice reflect.Value, strides []int) {
	if len(strides) == 1 {
		// Last level of slice, just copy over the slice.
		reflect.Copy(data, mdSlice)
		return
	}

	numElements := mdSlice.Len()
	subStrides := strides[1:]
	for ii := 0; ii < numElements; ii++ {
		start := ii * strides[0]
		end := (ii + 1) * strides[0]
		copySlicesRecursively(data.Slice(start, end), mdSlice.Index(ii), subStrides)
	}
}

// baseType returns the element type of multidimensional slices.
func baseType(valueType reflect.Type) reflect.Type {
	for valueType.Kind() == reflect.Slice {
		valueType = valueType.Elem()
	}
	return valueType
}

func flatLen(flat any) int {
	return reflect.ValueOf(flat).Len()
}

// ConstFlatData calls accessFn with the contiguous flat data of the tensor, in row-major order.
//
// If the tensor is a view that is not laid out contiguously, accessFn is called with a temporary copy.
// Either way, the data should not be changed.
func (t *Tensor) ConstFlatData(accessFn func(flat any)) {
	t.AssertValid()
	accessFn(t.Contiguous().flat)
}

// ConstFlatData calls accessFn with the contiguous flat data of the tensor, in row-major order.
// See Tensor.ConstFlatData.
//
// It panics if the generic type doesn't match the DType of the tensor.
func ConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if t.shape.DType != dtypes.FromGenericsType[T]() {
		var v T
		exceptions.Panicf("ConstFlatData[%T] is incompatible with Tensor's dtype %s -- expected dtype %s",
			v, t.shape.DType, dtypes.FromGenericsType[T]())
	}
	t.ConstFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// MutableFlatData calls accessFn with the flat data of the tensor, that can be changed in place.
//
// It panics if the tensor is a view: views don't own their data, and read-only views alias several
// positions to the same element.
func (t *Tensor) MutableFlatData(accessFn func(flat any)) {
	t.AssertValid()
	if t.readOnly {
		exceptions.Panicf("MutableFlatData: tensor %s is a read-only view, its positions alias the same elements", t.shape)
	}
	if t.isView || !t.isPacked() {
		exceptions.Panicf("MutableFlatData: tensor %s is a view and doesn't own its data, use Clone() first", t.shape)
	}
	accessFn(t.flat)
}

// MutableFlatData calls accessFn with the flat data of the tensor, that can be changed in place.
// See Tensor.MutableFlatData.
//
// It panics if the generic type doesn't match the DType of the tensor.
func MutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	if t.shape.DType != dtypes.FromGenericsType[T]() {
		var v T
		exceptions.Panicf("MutableFlatData[%T] is incompatible with Tensor's dtype %s", v, t.shape.DType)
	}
	t.MutableFlatData(func(anyFlat any) {
		accessFn(anyFlat.([]T))
	})
}

// CopyFlatData returns a copy of the flat data of the Tensor, in row-major order.
//
// It will panic if the given generic type doesn't match the DType of the tensor.
func CopyFlatData[T dtypes.Supported](t *Tensor) []T {
	var flatCopy []T
	ConstFlatData(t, func(flat []T) {
		flatCopy = make([]T, len(flat))
		copy(flatCopy, flat)
	})
	return flatCopy
}

// ToScalar returns the scalar value of the Tensor.
//
// It will panic if the given generic type doesn't match the DType of the tensor, or if the tensor is not a scalar.
func ToScalar[T dtypes.Supported](t *Tensor) T {
	if !t.shape.IsScalar() {
		var v T
		exceptions.Panicf("ToScalar[%T] requires scalar Tensor, got shape %s instead", v, t.shape)
	}
	var value T
	ConstFlatData(t, func(flat []T) { value = flat[0] })
	return value
}

// Value returns a multidimensional slice (except if shape is a scalar) containing a copy of the values stored
// in the tensor.
// This is expensive, and usually only used for smaller tensors in tests and to print results.
func (t *Tensor) Value() any {
	var mdSlice any
	t.ConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		if t.shape.IsScalar() {
			mdSlice = flatV.Index(0).Interface()
			return
		}
		flatCopy := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
		reflect.Copy(flatCopy, flatV)
		mdSlice = convertDataToSlices(flatCopy, t.shape.Dimensions...).Interface()
	})
	return mdSlice
}

// convertDataToSlices takes data as a flat slice, and creates a multidimensional slices with the given dimensions that
// points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	strides := make([]int, len(dimensions))
	currentStride := 1
	for dim := len(dimensions) - 1; dim >= 0; dim-- {
		strides[dim] = currentStride
		currentStride *= dimensions[dim]
	}
	return createSlicesRecursively(resultT, dataV, dimensions, strides)
}

// createSlicesRecursively recursively creates the slices of a multidimensional slice pointing to the flat data.
func createSlicesRecursively(resultT reflect.Type, data reflect.Value, dimensions []int, strides []int) reflect.Value {
	if len(strides) == 1 {
		return data
	}
	numElements := dimensions[0]
	slice := reflect.MakeSlice(resultT, numElements, numElements)
	subStrides := strides[1:]
	subDimensions := dimensions[1:]
	subResultT := resultT.Elem()
	for ii := 0; ii < numElements; ii++ {
		start := ii * strides[0]
		end := (ii + 1) * strides[0]
		slice.Index(ii).Set(createSlicesRecursively(subResultT, data.Slice(start, end), subDimensions, subStrides))
	}
	return slice
}

// Equal checks whether t == otherTensor: same shape and same values.
// If they are the same pointer they are considered equal.
//
// Slow implementation: fine for small tensors, but write something specialized for the DType if speed is desired.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	equal := true
	t.ConstFlatData(func(flat0 any) {
		otherTensor.ConstFlatData(func(flat1 any) {
			t0V := reflect.ValueOf(flat0)
			t1V := reflect.ValueOf(flat1)
			for ii := range t0V.Len() {
				if !t0V.Index(ii).Equal(t1V.Index(ii)) {
					equal = false
					return
				}
			}
		})
	})
	return equal
}

// InDelta checks whether Abs(t - otherTensor) <= delta for every element.
// If the shapes are different it returns false.
//
// Slow implementation: fine for small tensors, but write something specialized for the DType if speed is desired.
func (t *Tensor) InDelta(otherTensor *Tensor, delta float64) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	inDelta := true
	t.ConstFlatData(func(flat0 any) {
		otherTensor.ConstFlatData(func(flat1 any) {
			t0V := reflect.ValueOf(flat0)
			t1V := reflect.ValueOf(flat1)
			for ii := range t0V.Len() {
				diff := cmplx.Abs(toComplex128(t0V.Index(ii)) - toComplex128(t1V.Index(ii)))
				if diff > delta {
					inDelta = false
					return
				}
			}
		})
	})
	return inDelta
}

// toComplex128 converts any supported element value to a complex128.
func toComplex128(v reflect.Value) complex128 {
	switch x := v.Interface().(type) {
	case float16.Float16:
		return complex(float64(x.Float32()), 0)
	case bfloat16.BFloat16:
		return complex(float64(x.Float32()), 0)
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return complex(float64(v.Int()), 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return complex(float64(v.Uint()), 0)
	case reflect.Float32, reflect.Float64:
		return complex(v.Float(), 0)
	case reflect.Complex64, reflect.Complex128:
		return v.Complex()
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	}
	exceptions.Panicf("InDelta: unsupported element type %s", v.Type())
	return 0
}

// maxStringSize is the largest tensor size printed in full by String.
const maxStringSize = 100

// String converts the tensor to a string, with its values if it is not too large.
func (t *Tensor) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Size() > maxStringSize {
		return fmt.Sprintf("%s: (%d elements)", t.shape, t.Size())
	}
	return fmt.Sprintf("%s: %v", t.shape, t.Value())
}
