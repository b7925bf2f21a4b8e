// Package types defines enums and small configuration types shared by the einsum packages.
package types

// OptimizationMethod selects how the order of pairwise contractions is chosen for contractions
// with more than two operands.
type OptimizationMethod int

//go:generate go tool enumer -type=OptimizationMethod -trimprefix=Optimize -output=gen_optimizationmethod_enumer.go -transform=snake ops.go

const (
	// OptimizeAuto uses OptimizeExhaustive for a small number of operands, and OptimizeGreedy otherwise.
	OptimizeAuto OptimizationMethod = iota

	// OptimizeNaive contracts the operands from left to right: ((A·B)·C)·D...
	OptimizeNaive

	// OptimizeReverse contracts the operands from right to left: A·(B·(C·D))...
	OptimizeReverse

	// OptimizeGreedy repeatedly contracts the pair of live operands with the lowest cost.
	OptimizeGreedy

	// OptimizeExhaustive searches all pairing sequences for the one with the lowest total cost.
	// Its cost grows super-exponentially with the number of operands.
	OptimizeExhaustive
)
