// Package tensors implements Tensor, a strided view over a flat Go slice, with the shape of the data it holds.
//
// A Tensor can either own its data, laid out contiguously in row-major order, or be a view over the
// data of another tensor (or over a caller's buffer, see View). Views are created without copying:
// Transpose permutes the strides, Diagonal merges axes by summing their strides, and Reshape reinterprets
// contiguous data.
//
// Views are immutable. Diagonal views (and views with zero strides) alias several logical positions to
// the same element, and they are marked read-only.
package tensors

import (
	"slices"

	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// Tensor represents a multidimensional array: a flat slice of the Go type of its dtype, plus its shape,
// strides and offset into the flat slice.
//
// The element at indices (i_0, ..., i_{n-1}) is flat[offset + sum(i_k * strides[k])].
type Tensor struct {
	shape shapes.Shape

	// flat holds the array with actual data, a slice of the Go type for the dtype of the shape.
	flat any

	// strides (in number of elements, possibly zero or negative) and offset into flat.
	strides []int
	offset  int

	// isView indicates the flat data is not owned by the tensor.
	isView bool

	// readOnly indicates that several positions of the tensor alias the same element.
	readOnly bool
}

// newTensor creates a Tensor that owns the given flat data, with row-major strides.
func newTensor(shape shapes.Shape, flat any) *Tensor {
	return &Tensor{
		shape:   shape,
		flat:    flat,
		strides: shape.Strides(),
	}
}

// newView creates a Tensor that views t's data.
func (t *Tensor) newView(dimensions, strides []int, offset int, readOnly bool) *Tensor {
	return &Tensor{
		shape:    shapes.Make(t.shape.DType, dimensions...),
		flat:     t.flat,
		strides:  strides,
		offset:   offset,
		isView:   true,
		readOnly: readOnly || t.readOnly,
	}
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank returns the rank of the tensor's shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements in the tensor.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory returns the number of bytes used by the elements of the tensor. For views, it is the
// memory the tensor would use if it were made contiguous.
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Strides returns a copy of the strides of each axis, in number of elements.
func (t *Tensor) Strides() []int { return slices.Clone(t.strides) }

// Offset returns the position in the flat data of the first element.
func (t *Tensor) Offset() int { return t.offset }

// IsView returns whether the tensor doesn't own its data, that is, it was created as a view over
// some other tensor's data, or over a caller's buffer.
func (t *Tensor) IsView() bool { return t.isView }

// IsReadOnly returns whether several positions of the tensor alias the same element in memory, as
// it happens with diagonal views.
func (t *Tensor) IsReadOnly() bool { return t.readOnly }

// IsContiguous returns whether the elements are laid out in row-major order, without gaps, starting at Offset.
// Axes with dimension 1 are not considered, since their stride is never used.
func (t *Tensor) IsContiguous() bool {
	if t.shape.IsZeroSize() {
		return true
	}
	expected := 1
	for axis := t.Rank() - 1; axis >= 0; axis-- {
		dim := t.shape.Dimensions[axis]
		if dim != 1 && t.strides[axis] != expected {
			return false
		}
		expected *= dim
	}
	return true
}

// isPacked returns whether the flat data is exactly the contiguous data of the tensor.
func (t *Tensor) isPacked() bool {
	return t.offset == 0 && t.IsContiguous() && flatLen(t.flat) == t.Size()
}

// AssertValid panics if the tensor is nil or has an invalid shape.
func (t *Tensor) AssertValid() {
	if t == nil {
		exceptions.Panicf("tensor is nil")
	}
	if !t.shape.Ok() {
		exceptions.Panicf("tensor has invalid shape")
	}
}
