package shapes

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue attempts to convert a Go "any" value to its expected shape.
// Accepted values are plain-old-data (POD) types (ints, floats, complex, float16, bfloat16) and
// slices (or multiple levels of slices) of POD.
//
// Sub-slices must be regular (all with the same length), and they can't be empty, since it wouldn't be
// possible to figure out the inner dimensions.
//
// Example:
//
//	shape, err := shapes.FromAnyValue([][]float64{{0, 0}}) // Returns shape (Float64)[1 2]
func FromAnyValue(v any) (shape Shape, err error) {
	if v == nil {
		return Invalid(), errors.New("cannot find the shape of a nil value")
	}
	err = shapeForAnyValueRecursive(&shape, reflect.ValueOf(v), 0)
	if err != nil {
		shape = Invalid()
	}
	return
}

// shapeForAnyValueRecursive fills the dimensions of shape starting at depth. The first time a depth
// is visited it defines the dimension, subsequent visits must match it.
func shapeForAnyValueRecursive(shape *Shape, v reflect.Value, depth int) error {
	if v.Kind() != reflect.Slice {
		if depth != len(shape.Dimensions) {
			return errors.Errorf("irregular value: found a %s at depth %d, but expected a slice with %d more levels",
				v.Type(), depth, len(shape.Dimensions)-depth)
		}
		dtype := dtypes.FromGoType(v.Type())
		if dtype == dtypes.InvalidDType {
			return errors.Errorf("cannot convert type %q to a valid shape (maybe type not supported yet?)", v.Type())
		}
		if shape.DType != dtypes.InvalidDType && shape.DType != dtype {
			return errors.Errorf("mixed data types %s and %s in the same value", shape.DType, dtype)
		}
		shape.DType = dtype
		return nil
	}

	if depth == len(shape.Dimensions) {
		if v.Len() == 0 {
			return errors.Errorf("value with empty slice not valid for shape conversion: %s -- it wouldn't be possible to figure out the inner dimensions", v.Type())
		}
		shape.Dimensions = append(shape.Dimensions, v.Len())
	} else if depth > len(shape.Dimensions) || shape.Dimensions[depth] != v.Len() {
		return errors.Errorf("sub-slices have irregular shapes: slice of length %d at depth %d doesn't match the first slice found at that depth, shape so far %v",
			v.Len(), depth, shape.Dimensions)
	}
	for ii := range v.Len() {
		if err := shapeForAnyValueRecursive(shape, v.Index(ii), depth+1); err != nil {
			return err
		}
	}
	return nil
}
