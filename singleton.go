package einsum

import (
	"slices"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/internal/optypes"
	"github.com/gomlx/einsum/types/tensors"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// diagonalCopyWarningSize is the number of elements above which copying a tensor to take a diagonal
// is logged as a warning.
const diagonalCopyWarningSize = 1 << 24

// compileSingleton adds the statements that reduce input to the output labels, and returns the output value.
//
// The input is first viewed in the order [output labels][summed labels], with a Transpose, or with a
// Diagonal if any label repeats. Then the trailing summed axes are reduced with ReduceSum.
// If the input already has the output labels, no statement is added and input is returned.
func (p *Path) compileSingleton(input *Value, output []rune) *Value {
	s := contraction.ClassifySingleton(input.labels, output)
	if s.IsIdentity() {
		return input
	}
	intermediate := s.Intermediate()
	view := input
	switch {
	case s.HasDiagonal():
		view = p.addStatement(optypes.Diagonal, []*Value{input},
			map[string]any{attrAxisGroups: s.AxisGroups}, intermediate)
	case !slices.Equal(input.labels, intermediate):
		view = p.addStatement(optypes.Transpose, []*Value{input},
			map[string]any{attrPermutation: s.Permutation()}, intermediate)
	}
	if len(s.Summed) == 0 {
		return view
	}
	return p.addStatement(optypes.ReduceSum, []*Value{view},
		map[string]any{
			attrSummed: labelsAttr(s.Summed),
			attrCost:   Cost(p.Contraction.Cost(intermediate)),
		}, output)
}

// execSingleton executes a statement of one input.
func execSingleton(s *Statement, x *tensors.Tensor) *tensors.Tensor {
	switch s.OpType {
	case optypes.Identity:
		return x
	case optypes.Transpose:
		return execTranspose(s, x)
	case optypes.Diagonal:
		return execDiagonal(s, x)
	case optypes.ReduceSum:
		return execReduceSum(s, x)
	default:
		exceptions.Panicf("einsum path: unexpected singleton statement %s", s.OpType)
		return nil
	}
}

func execTranspose(s *Statement, x *tensors.Tensor) *tensors.Tensor {
	return x.Transpose(attribute[[]int](s, attrPermutation)...)
}

func execDiagonal(s *Statement, x *tensors.Tensor) *tensors.Tensor {
	diagonal, copied := x.Diagonal(attribute[[][]int](s, attrAxisGroups))
	if copied && x.Size() >= diagonalCopyWarningSize {
		klog.Warningf("einsum: diagonal of %s (strides %v, offset %d) required a copy of %d elements",
			x.Shape(), x.Strides(), x.Offset(), x.Size())
	}
	return diagonal
}

// execReduceSum sums the trailing axes of x, one per summed label.
func execReduceSum(s *Statement, x *tensors.Tensor) *tensors.Tensor {
	numSummed := len(attribute[labelsAttr](s, attrSummed))
	dims := x.Shape().Dimensions
	keptDims := dims[:len(dims)-numSummed]
	outerSize, innerSize := 1, 1
	for _, dim := range keptDims {
		outerSize *= dim
	}
	for _, dim := range dims[len(dims)-numSummed:] {
		innerSize *= dim
	}
	flat := kernels.SumTrailing(x.DType(), flatOf(x), outerSize, innerSize)
	return tensors.FromFlat(flat, keptDims...)
}
