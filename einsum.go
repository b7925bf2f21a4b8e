// Package einsum computes generalized Einstein summation contractions of tensors: matrix multiplications,
// traces, dot products, transposes, batched matrix multiplications, outer products and diagonal extraction
// are all contractions, described by the labels of the axes of each operand and of the output.
//
// A contraction is described with a contraction.SizedContraction (the textual "ij,jk->ik" form is not
// parsed here). For contractions of more than two operands, the operands are contracted pairwise, in an
// order chosen by the optimizer package to minimize the estimated cost.
//
// The contraction is compiled into a Path, a flat list of statements, each one of:
//
//   - Singleton reductions of one operand: Transpose (a view), Diagonal (a view merging repeated labels)
//     and ReduceSum (sum over labels not needed anymore).
//   - Pairwise contractions: Tensordot (a batched matrix multiplication), ScalarProduct and Hadamard.
//
// Example:
//
//	c := must.M1(contraction.New([]string{"ij", "jk"}, "ik"))
//	sc := must.M1(contraction.SizeFromDimensions(c, []int{2, 3}, []int{3, 4}))
//	result, err := einsum.Contract(sc, lhs, rhs)
//
// Or to reuse the path and configure it:
//
//	path, err := einsum.New(sc).WithOptimization(types.OptimizeGreedy).Build()
//	fmt.Println(path)  // Prints the statements of the path.
//	result, err := path.Execute(lhs, rhs)
//
// Products and sums use the arithmetic of the dtype of the operands, without upcasting.
package einsum

import (
	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/utils"
	"github.com/gomlx/einsum/types/tensors"
)

// Contract computes the sized contraction on the operands.
//
// It is a shortcut to New(sc).Build() followed by Path.Execute. It returns an error if the operands don't
// match the sized contraction.
func Contract(sc *contraction.SizedContraction, operands ...*tensors.Tensor) (*tensors.Tensor, error) {
	path, err := New(sc).Build()
	if err != nil {
		return nil, err
	}
	return path.Execute(operands...)
}

// NormalizeIdentifier converts the name of a path to a valid identifier: only letters, digits, and
// underscores are allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	return utils.NormalizeIdentifier(name)
}
