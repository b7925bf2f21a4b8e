package tensors

import (
	"reflect"
	"slices"

	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// View creates a tensor viewing a caller's flat slice (e.g. []float32) with arbitrary strides and offset,
// without copying it. The caller keeps ownership of the buffer, and it must not change it while the
// view (or any result derived from it without copying) is in use.
//
// Strides are given in number of elements and may be zero or negative. It returns an error if any
// position addressed by the view falls outside the flat slice.
func View(flat any, dimensions, strides []int, offset int) (*Tensor, error) {
	flatT := reflect.TypeOf(flat)
	if flatT == nil || flatT.Kind() != reflect.Slice {
		return nil, errors.Errorf("View requires a flat slice, got %T", flat)
	}
	dtype := dtypes.FromGoType(flatT.Elem())
	if dtype == dtypes.InvalidDType {
		return nil, errors.Errorf("View: unsupported flat values type %T", flat)
	}
	if len(dimensions) != len(strides) {
		return nil, errors.Errorf("View: %d dimensions given, but %d strides", len(dimensions), len(strides))
	}
	readOnly := false
	lowest, highest := offset, offset
	for axis, dim := range dimensions {
		if dim < 0 {
			return nil, errors.Errorf("View: negative dimension %d for axis %d", dim, axis)
		}
		if dim == 0 {
			// No element is addressed.
			lowest, highest = 0, -1
			break
		}
		span := (dim - 1) * strides[axis]
		if span < 0 {
			lowest += span
		} else {
			highest += span
		}
		if dim > 1 && strides[axis] == 0 {
			readOnly = true
		}
	}
	if lowest <= highest && (lowest < 0 || highest >= flatLen(flat)) {
		return nil, errors.Errorf("View(dimensions=%v, strides=%v, offset=%d) addresses positions [%d, %d], out of bounds for flat of length %d",
			dimensions, strides, offset, lowest, highest, flatLen(flat))
	}
	return &Tensor{
		shape:    shapes.Make(dtype, dimensions...),
		flat:     flat,
		strides:  slices.Clone(strides),
		offset:   offset,
		isView:   true,
		readOnly: readOnly,
	}, nil
}

// Transpose returns a view of the tensor with the axes permuted: output axis i is the input axis permutation[i].
// No data is copied.
//
// It panics if permutation is not a permutation of the axes of t.
func (t *Tensor) Transpose(permutation ...int) *Tensor {
	t.AssertValid()
	rank := t.Rank()
	if len(permutation) != rank {
		exceptions.Panicf("Transpose(%v) requires %d axes for tensor %s", permutation, rank, t.shape)
	}
	used := make([]bool, rank)
	dimensions := make([]int, rank)
	strides := make([]int, rank)
	for axis, srcAxis := range permutation {
		if srcAxis < 0 || srcAxis >= rank || used[srcAxis] {
			exceptions.Panicf("Transpose(%v) is not a valid permutation for tensor %s", permutation, t.shape)
		}
		used[srcAxis] = true
		dimensions[axis] = t.shape.Dimensions[srcAxis]
		strides[axis] = t.strides[srcAxis]
	}
	return t.newView(dimensions, strides, t.offset, false)
}

// Diagonal returns a view of the tensor where each output axis i merges the input axes in axisGroups[i]:
// the output element at index (.., k, ..) is the input element where all merged axes have index k.
// Every input axis must appear in exactly one group, and all axes in a group must have the same dimension.
// Groups with only one axis simply permute it.
//
// The stride of a merged axis is the sum of the strides of the axes it merges, so usually no data is copied.
// But if any of those strides is not positive, the tensor is first copied to a contiguous layout, and
// copied is returned true. The returned view is read-only if any group merges more than one axis.
//
// It panics if the axis groups are invalid.
func (t *Tensor) Diagonal(axisGroups [][]int) (diagonal *Tensor, copied bool) {
	t.AssertValid()
	rank := t.Rank()
	used := make([]bool, rank)
	merging := false
	needsCopy := false
	for _, group := range axisGroups {
		if len(group) == 0 {
			exceptions.Panicf("Diagonal(%v): empty axis group for tensor %s", axisGroups, t.shape)
		}
		dim := -1
		for _, axis := range group {
			if axis < 0 || axis >= rank || used[axis] {
				exceptions.Panicf("Diagonal(%v): invalid or repeated axis %d for tensor %s", axisGroups, axis, t.shape)
			}
			used[axis] = true
			if dim >= 0 && t.shape.Dimensions[axis] != dim {
				exceptions.Panicf("Diagonal(%v): merged axes have different dimensions in tensor %s", axisGroups, t.shape)
			}
			dim = t.shape.Dimensions[axis]
			if len(group) > 1 && t.strides[axis] <= 0 && dim > 1 {
				needsCopy = true
			}
		}
		if len(group) > 1 {
			merging = true
		}
	}
	if slices.Contains(used, false) {
		exceptions.Panicf("Diagonal(%v): not all axes of tensor %s are used", axisGroups, t.shape)
	}

	source := t
	if needsCopy {
		source = t.Clone()
		copied = true
	}
	dimensions := make([]int, len(axisGroups))
	strides := make([]int, len(axisGroups))
	for outAxis, group := range axisGroups {
		dimensions[outAxis] = source.shape.Dimensions[group[0]]
		for _, axis := range group {
			strides[outAxis] += source.strides[axis]
		}
	}
	diagonal = source.newView(dimensions, strides, source.offset, merging)
	return
}

// Reshape returns a tensor with the same elements in row-major order, but with new dimensions.
// If t is contiguous no data is copied, otherwise a contiguous copy is reshaped.
//
// It panics if the new dimensions don't have the same number of elements.
func (t *Tensor) Reshape(dimensions ...int) *Tensor {
	t.AssertValid()
	newShape := shapes.Make(t.shape.DType, dimensions...)
	if newShape.Size() != t.Size() {
		exceptions.Panicf("Reshape(%v): tensor %s has %d elements, but new dimensions have %d", dimensions, t.shape, t.Size(), newShape.Size())
	}
	source := t
	if !t.IsContiguous() || t.readOnly {
		source = t.Contiguous()
	}
	if source.isPacked() && !source.isView {
		return newTensor(newShape, source.flat)
	}
	return &Tensor{
		shape:   newShape,
		flat:    source.flat,
		strides: newShape.Strides(),
		offset:  source.offset,
		isView:  true,
	}
}

// Contiguous returns a tensor with the same values laid out in row-major order.
// It returns t itself if it already holds exactly its contiguous data, otherwise it returns a new copy.
func (t *Tensor) Contiguous() *Tensor {
	t.AssertValid()
	if t.isPacked() && !t.readOnly {
		return t
	}
	return t.Clone()
}

// Clone returns a new tensor that owns a contiguous copy of the data of t.
func (t *Tensor) Clone() *Tensor {
	t.AssertValid()
	flat := kernels.Gather(t.shape.DType, t.flat, t.offset, t.shape.Dimensions, t.strides)
	return newTensor(t.shape.Clone(), flat)
}
