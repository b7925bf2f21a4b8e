package einsum

import (
	"slices"

	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/internal/optypes"
	"github.com/gomlx/einsum/optimizer"
	"github.com/gomlx/einsum/types/tensors"
)

// compilePair adds the statements of one pairwise contraction step, and returns its output value.
//
// Each operand is first reduced (diagonals taken, one-sided labels summed) and permuted to
// [batch][free][contracted] with compileSingleton. Then the pair is multiplied with one of:
//
//   - Hadamard: all labels are batch labels, an element-wise product.
//   - ScalarProduct: one of the operands was reduced to a scalar.
//   - Tensordot: the general case, a batched matrix multiplication.
//
// The product has labels [batch][lhs only][rhs only], and it is transposed to the step output order if needed.
func (p *Path) compilePair(lhs, rhs *Value, step optimizer.Step) *Value {
	pair := step.Pair
	lhs = p.compileSingleton(lhs, pair.LhsNormalized())
	rhs = p.compileSingleton(rhs, pair.RhsNormalized())
	productLabels := pair.OutputLabels()
	inputs := []*Value{lhs, rhs}
	cost := Cost(step.Cost)

	var product *Value
	switch {
	case len(pair.Contracted) == 0 && len(pair.LhsOnly) == 0 && len(pair.RhsOnly) == 0:
		product = p.addStatement(optypes.Hadamard, inputs, map[string]any{attrCost: cost}, productLabels)
	case lhs.Rank() == 0 || rhs.Rank() == 0:
		product = p.addStatement(optypes.ScalarProduct, inputs, map[string]any{attrCost: cost}, productLabels)
	default:
		product = p.addStatement(optypes.Tensordot, inputs, map[string]any{
			attrBatch:      labelsAttr(pair.Batch),
			attrContracted: labelsAttr(pair.Contracted),
			attrLhsOnly:    labelsAttr(pair.LhsOnly),
			attrRhsOnly:    labelsAttr(pair.RhsOnly),
			attrCost:       cost,
		}, productLabels)
	}
	if slices.Equal(productLabels, step.Output) {
		return product
	}
	return p.compileSingleton(product, step.Output)
}

// size returns the product of the extents of the labels.
func (p *Path) size(labels []rune) int {
	return p.Contraction.Cost(labels)
}

// execTensordot reshapes lhs to [B, M, K] and rhs to [B, N, K], multiplies them, and reshapes the result
// [B, M, N] to the dimensions of the output.
func (p *Path) execTensordot(s *Statement, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	params := kernels.BatchMatMulParams{
		BatchSize:       p.size(attribute[labelsAttr](s, attrBatch)),
		LhsCrossSize:    p.size(attribute[labelsAttr](s, attrLhsOnly)),
		RhsCrossSize:    p.size(attribute[labelsAttr](s, attrRhsOnly)),
		ContractingSize: p.size(attribute[labelsAttr](s, attrContracted)),
	}
	lhs = lhs.Reshape(params.BatchSize, params.LhsCrossSize, params.ContractingSize)
	rhs = rhs.Reshape(params.BatchSize, params.RhsCrossSize, params.ContractingSize)
	flat := kernels.BatchMatMul(lhs.DType(), flatOf(lhs), flatOf(rhs), params, p.pool)
	product := tensors.FromFlat(flat, params.BatchSize, params.LhsCrossSize, params.RhsCrossSize)
	return product.Reshape(s.Outputs[0].dimensions...)
}

// execScalarProduct multiplies every element of one operand by the other, a scalar.
func execScalarProduct(s *Statement, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	size := lhs.Size()
	if lhs.IsScalar() {
		size = rhs.Size()
	}
	flat := kernels.Multiply(lhs.DType(), flatOf(lhs), flatOf(rhs), size)
	return tensors.FromFlat(flat, s.Outputs[0].dimensions...)
}

// execHadamard multiplies lhs and rhs element-wise: they have the same labels in the same order.
func execHadamard(s *Statement, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	flat := kernels.Multiply(lhs.DType(), flatOf(lhs), flatOf(rhs), lhs.Size())
	return tensors.FromFlat(flat, s.Outputs[0].dimensions...)
}
