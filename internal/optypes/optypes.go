// Package optypes defines OpType and lists the operations a contraction path is made of.
package optypes

import (
	"fmt"

	"github.com/gomlx/einsum/internal/utils"
)

// OpType is an enum of the operations used in a contraction path.
type OpType int

//go:generate go tool enumer -type=OpType optypes.go

const (
	Invalid OpType = iota

	// Identity returns its operand unchanged.
	Identity

	// Transpose permutes the axes of its operand, without copying.
	Transpose

	// Diagonal merges repeated labels into one axis, whose stride is the sum of the merged strides.
	Diagonal

	// ReduceSum sums over the trailing axes of its operand.
	ReduceSum

	// ScalarProduct multiplies every element of a tensor by a rank-0 tensor.
	ScalarProduct

	// Hadamard is the element-wise product of two tensors with the same labels.
	Hadamard

	// Tensordot is the general pairwise contraction, executed as a batched matrix multiplication.
	Tensordot

	// Return marks the final value of the path.
	Return

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

var (
	// pathNameMappings maps OpType to the name used when printing a path, when the default
	// "snake case" doesn't work.
	pathNameMappings = map[OpType]string{
		Return: "return",
	}
)

// PathName returns the name of the operation used when printing a contraction path.
func (op OpType) PathName() string {
	name, ok := pathNameMappings[op]
	if !ok {
		name = fmt.Sprintf("einsum.%s", utils.ToSnakeCase(op.String()))
	}
	return name
}

// IsSingleton returns whether the operation takes one operand.
func (op OpType) IsSingleton() bool {
	switch op {
	case Identity, Transpose, Diagonal, ReduceSum:
		return true
	default:
		return false
	}
}
