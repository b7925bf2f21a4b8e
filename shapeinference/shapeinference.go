// Package shapeinference calculates the shape resulting from the einsum operations and validates its inputs.
//
// Validation here returns errors: it is used on user provided inputs (operands, axes and permutations)
// before any plan is built or executed.
package shapeinference

import (
	"slices"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/internal/utils"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// AdjustAxisToRank returns the positive axis for the rank, converting negative axes (counting from the end).
// It returns an error if the axis is out of range.
func AdjustAxisToRank(axis, rank int) (int, error) {
	if axis < -rank || axis >= rank {
		return -1, errors.Errorf("axis %d is out of range for the rank %d", axis, rank)
	}
	if axis < 0 {
		axis += rank
	}
	return axis, nil
}

// checkArithmeticDType returns an error if the dtype can't be contracted.
func checkArithmeticDType(dtype dtypes.DType) error {
	if !utils.IsSupportedDType(dtype) || !kernels.SupportsArithmetic(dtype) {
		return errors.Errorf("data type %s is not supported for contractions", dtype)
	}
	return nil
}

// Transpose returns the shape of the operand with its axes permuted: output axis ii is the operand
// axis permutation[ii].
func Transpose(operand shapes.Shape, permutation []int) (output shapes.Shape, err error) {
	rank := operand.Rank()
	if len(permutation) != rank {
		err = errors.Errorf("Transpose() requires all axes permutation to be defined, operand has shape %s, but %d permutation were given",
			operand, len(permutation))
		return
	}
	if rank == 0 {
		return operand, nil
	}

	// Check permutation axes are within range and unique.
	axesSet := slices.Clone(permutation)
	slices.Sort(axesSet)
	for ii, srcAxis := range axesSet {
		if srcAxis < 0 || srcAxis >= rank {
			err = errors.Errorf("invalid permutation axis %d given to Transpose(%s), it must be within the range of its rank",
				srcAxis, operand)
			return
		}
		if ii > 0 && srcAxis == axesSet[ii-1] {
			err = errors.Errorf("invalid permutation given to Transpose(%s, %v), there cannot be any repeated axis, each must appear exactly once",
				operand, permutation)
			return
		}
	}

	output = operand.Clone()
	for axis := range output.Dimensions {
		srcAxis := permutation[axis]
		output.Dimensions[axis] = operand.Dimensions[srcAxis]
	}
	return
}

// adjustAxes converts negative axes in place, and checks they are within range and unique.
func adjustAxes(name string, operand shapes.Shape, axes []int) error {
	rank := operand.Rank()
	seen := utils.MakeSet[int](len(axes))
	for ii, axis := range axes {
		adjusted, err := AdjustAxisToRank(axis, rank)
		if err != nil {
			return errors.WithMessagef(err, "while adjusting %s=%v for Tensordot(%s)", name, axes, operand)
		}
		if seen.Has(adjusted) {
			return errors.Errorf("Tensordot %s=%v has repeated axis %d", name, axes, adjusted)
		}
		seen.Insert(adjusted)
		axes[ii] = adjusted
	}
	return nil
}

// Tensordot returns the shape of the contraction of lhsAxes of lhs with the corresponding rhsAxes of rhs:
// the free (not contracted) axes of lhs, followed by the free axes of rhs.
//
// It also has a side effect on the axes' specifications: it converts negative axes to their
// corresponding positive axes.
func Tensordot(lhs shapes.Shape, lhsAxes []int, rhs shapes.Shape, rhsAxes []int) (output shapes.Shape, err error) {
	dtype := lhs.DType
	if dtype != rhs.DType {
		err = errors.Errorf("Tensordot lhs (left-hand-side) and rhs operands don't match data types: %s and %s", dtype, rhs.DType)
		return
	}
	if err = checkArithmeticDType(dtype); err != nil {
		return
	}
	if len(lhsAxes) != len(rhsAxes) {
		err = errors.Errorf("Tensordot number of contracting axes for lhs (%d) doesn't match rhs (%d)",
			len(lhsAxes), len(rhsAxes))
		return
	}
	if err = adjustAxes("lhsAxes", lhs, lhsAxes); err != nil {
		return
	}
	if err = adjustAxes("rhsAxes", rhs, rhsAxes); err != nil {
		return
	}
	for ii, lhsAxis := range lhsAxes {
		rhsAxis := rhsAxes[ii]
		if lhs.Dimensions[lhsAxis] != rhs.Dimensions[rhsAxis] {
			err = errors.Errorf("Tensordot contracting dimensions don't match: lhs[%d]=%d != rhs[%d]=%d",
				lhsAxis, lhs.Dimensions[lhsAxis], rhsAxis, rhs.Dimensions[rhsAxis])
			return
		}
	}
	dims := make([]int, 0, lhs.Rank()+rhs.Rank()-2*len(lhsAxes))
	dims = append(dims, freeDimensions(lhs, lhsAxes)...)
	dims = append(dims, freeDimensions(rhs, rhsAxes)...)
	output = shapes.Make(dtype, dims...)
	return
}

func freeDimensions(shape shapes.Shape, contractingAxes []int) []int {
	dims := make([]int, 0, shape.Rank()-len(contractingAxes))
	for axis, dim := range shape.Dimensions {
		if !slices.Contains(contractingAxes, axis) {
			dims = append(dims, dim)
		}
	}
	return dims
}

// Contract validates the operand shapes against the contraction, and returns the sized contraction and
// the shape of its output.
//
// All operands must have the same dtype, with arithmetic support, and dimensions consistent with the labels.
func Contract(c *contraction.Contraction, operands ...shapes.Shape) (sc *contraction.SizedContraction, output shapes.Shape, err error) {
	if len(operands) == 0 {
		err = errors.Errorf("contraction %s given no operands", c)
		return
	}
	dtype := operands[0].DType
	operandsDims := make([][]int, len(operands))
	for ii, operand := range operands {
		if operand.DType != dtype {
			err = errors.Errorf("operands of contraction %s must have the same data type, got %s for operand #0 and %s for operand #%d",
				c, dtype, operand.DType, ii)
			return
		}
		operandsDims[ii] = operand.Dimensions
	}
	if err = checkArithmeticDType(dtype); err != nil {
		err = errors.WithMessagef(err, "contraction %s", c)
		return
	}
	sc, err = contraction.SizeFromDimensions(c, operandsDims...)
	if err != nil {
		return
	}
	output = shapes.Make(dtype, sc.OutputDimensions()...)
	return
}
