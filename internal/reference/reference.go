// Package reference evaluates contractions directly from their definition: for every assignment of indices
// to all the labels, the product of the operands' elements is added to the output element.
//
// It is slow, and it's only used to verify the results of contraction paths in tests.
package reference

import (
	"math/rand/v2"
	"reflect"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/einsum/types/tensors"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// Contract evaluates the sized contraction on the operands. It accumulates in complex128 and converts the
// result back to the operands' dtype.
//
// It panics if the operands don't match the contraction.
func Contract(sc *contraction.SizedContraction, operands ...*tensors.Tensor) *tensors.Tensor {
	if len(operands) != sc.NumOperands() {
		exceptions.Panicf("reference.Contract(%s): %d operands given", sc, len(operands))
	}
	dtype := operands[0].DType()
	labels := sc.Labels()
	labelPos := make(map[rune]int, len(labels))
	for ii, label := range labels {
		labelPos[label] = ii
	}
	allShape := shapes.Make(dtypes.Bool, sc.Dimensions(labels)...)

	values := make([][]complex128, len(operands))
	operandPos := make([][]int, len(operands))
	operandStrides := make([][]int, len(operands))
	for ii, operand := range operands {
		if err := operand.Shape().CheckDims(sc.OperandDimensions(ii)...); err != nil {
			exceptions.Panicf("reference.Contract(%s): operand #%d: %v", sc, ii, err)
		}
		values[ii] = Values(operand)
		operandStrides[ii] = operand.Shape().Strides()
		for _, label := range sc.Operands[ii] {
			operandPos[ii] = append(operandPos[ii], labelPos[label])
		}
	}
	outputShape := shapes.Make(dtype, sc.OutputDimensions()...)
	outputStrides := outputShape.Strides()
	outputPos := make([]int, len(sc.Output))
	for ii, label := range sc.Output {
		outputPos[ii] = labelPos[label]
	}

	accumulators := make([]complex128, outputShape.Size())
	for indices := range allShape.Iter() {
		product := complex(1, 0)
		for ii := range operands {
			flatIdx := 0
			for axis, pos := range operandPos[ii] {
				flatIdx += indices[pos] * operandStrides[ii][axis]
			}
			product *= values[ii][flatIdx]
		}
		outputIdx := 0
		for axis, pos := range outputPos {
			outputIdx += indices[pos] * outputStrides[axis]
		}
		accumulators[outputIdx] += product
	}

	output := tensors.FromShape(outputShape)
	output.MutableFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		for ii, value := range accumulators {
			setFromComplex(dtype, flatV.Index(ii), value)
		}
	})
	return output
}

// Values returns the values of the tensor converted to complex128, in row-major order.
func Values(t *tensors.Tensor) []complex128 {
	values := make([]complex128, t.Size())
	t.ConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		for ii := range values {
			values[ii] = toComplex(flatV.Index(ii))
		}
	})
	return values
}

func toComplex(v reflect.Value) complex128 {
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
	}
	exceptions.Panicf("reference: unsupported element type %s", v.Type())
	return 0
}

func setFromComplex(dtype dtypes.DType, v reflect.Value, value complex128) {
	switch dtype {
	case dtypes.Float16:
		v.Set(reflect.ValueOf(float16.Fromfloat32(float32(real(value)))))
		return
	case dtypes.BFloat16:
		v.Set(reflect.ValueOf(bfloat16.FromFloat32(float32(real(value)))))
		return
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(real(value)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(real(value)))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(real(value))
	case reflect.Complex64, reflect.Complex128:
		v.SetComplex(value)
	default:
		exceptions.Panicf("reference: unsupported dtype %s", dtype)
	}
}

// Random returns a tensor of the given dtype and dimensions filled with small integer values
// (in [-3, 3], or [0, 3] for unsigned dtypes), so products and sums are exact in every dtype
// as long as the contracted sizes are small.
func Random(rng *rand.Rand, dtype dtypes.DType, dimensions ...int) *tensors.Tensor {
	t := tensors.FromShape(shapes.Make(dtype, dimensions...))
	t.MutableFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		for ii := range flatV.Len() {
			value := float64(rng.IntN(7) - 3)
			if dtype.IsUnsigned() {
				value = float64(rng.IntN(4))
			}
			var c complex128
			if dtype.IsComplex() {
				c = complex(value, float64(rng.IntN(3)-1))
			} else {
				c = complex(value, 0)
			}
			setFromComplex(dtype, flatV.Index(ii), c)
		}
	})
	return t
}
