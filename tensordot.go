package einsum

import (
	"slices"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/shapeinference"
	"github.com/gomlx/einsum/types/tensors"
	"github.com/pkg/errors"
)

// Tensordot contracts lhsAxes of lhs with the corresponding rhsAxes of rhs (the dimensions must match),
// and returns a tensor with the remaining axes of lhs followed by the remaining axes of rhs, in order.
//
// Negative axes are counted from the end. It returns an error if the number of axes differ, if an axis is
// out of range or repeated, or if the dimensions of the contracted axes don't match.
//
// Tensordot with no axes is the outer product.
func Tensordot(lhs, rhs *tensors.Tensor, lhsAxes, rhsAxes []int) (*tensors.Tensor, error) {
	return TensordotWithOrder(lhs, rhs, lhsAxes, rhsAxes, nil)
}

// TensordotWithOrder is like Tensordot, but the output axes are permuted by outputOrder: output axis ii is
// the axis outputOrder[ii] of the result of Tensordot. If outputOrder is nil the order of Tensordot is used.
func TensordotWithOrder(lhs, rhs *tensors.Tensor, lhsAxes, rhsAxes, outputOrder []int) (*tensors.Tensor, error) {
	if lhs == nil || rhs == nil {
		return nil, errors.New("Tensordot: lhs and rhs must not be nil")
	}
	sc, err := tensordotContraction(lhs, rhs, lhsAxes, rhsAxes, outputOrder)
	if err != nil {
		return nil, err
	}
	return Contract(sc, lhs, rhs)
}

// tensordotContraction creates the sized contraction equivalent to the tensordot.
func tensordotContraction(lhs, rhs *tensors.Tensor, lhsAxes, rhsAxes, outputOrder []int) (*contraction.SizedContraction, error) {
	lhsAxes, rhsAxes = slices.Clone(lhsAxes), slices.Clone(rhsAxes)
	output, err := shapeinference.Tensordot(lhs.Shape(), lhsAxes, rhs.Shape(), rhsAxes)
	if err != nil {
		return nil, err
	}

	// Free axes get new labels, contracted rhs axes take the label of the matching lhs axis.
	var nextLabel int
	newLabel := func() rune {
		label := axisLabel(nextLabel)
		nextLabel++
		return label
	}
	lhsLabels := make([]rune, lhs.Rank())
	var outputLabels []rune
	for axis := range lhsLabels {
		lhsLabels[axis] = newLabel()
		if !slices.Contains(lhsAxes, axis) {
			outputLabels = append(outputLabels, lhsLabels[axis])
		}
	}
	rhsLabels := make([]rune, rhs.Rank())
	for axis := range rhsLabels {
		if idx := slices.Index(rhsAxes, axis); idx >= 0 {
			rhsLabels[axis] = lhsLabels[lhsAxes[idx]]
			continue
		}
		rhsLabels[axis] = newLabel()
		outputLabels = append(outputLabels, rhsLabels[axis])
	}

	if outputOrder != nil {
		if _, err := shapeinference.Transpose(output, outputOrder); err != nil {
			return nil, errors.WithMessage(err, "invalid output order for Tensordot")
		}
		ordered := make([]rune, len(outputLabels))
		for ii, axis := range outputOrder {
			ordered[ii] = outputLabels[axis]
		}
		outputLabels = ordered
	}

	c, err := contraction.New([]string{string(lhsLabels), string(rhsLabels)}, string(outputLabels))
	if err != nil {
		return nil, err
	}
	return contraction.SizeFromDimensions(c, lhs.Shape().Dimensions, rhs.Shape().Dimensions)
}

// axisLabel returns a distinct label for each n: lower case letters first, then upper case letters,
// and then runes from the Latin Extended blocks.
func axisLabel(n int) rune {
	switch {
	case n < 26:
		return rune('a' + n)
	case n < 52:
		return rune('A' + n - 26)
	default:
		return rune(0x100 + n - 52)
	}
}
