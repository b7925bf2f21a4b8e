package contraction

import (
	"slices"

	"github.com/gomlx/einsum/internal/utils"
	"github.com/gomlx/exceptions"
)

// Role of a label within one operand of a contraction.
type Role int

//go:generate go tool enumer -type=Role -trimprefix=Role -output=gen_role_enumer.go classify.go

const (
	// RoleOutputKept labels appear only in this operand and in the output.
	RoleOutputKept Role = iota

	// RoleSummed labels appear only in this operand and not in the output: they are summed over.
	RoleSummed

	// RoleBatch labels appear in this and other operands, and in the output.
	RoleBatch

	// RoleContracted labels appear in this and other operands, but not in the output.
	RoleContracted
)

// LabelRole describes one distinct label of an operand.
type LabelRole struct {
	Label rune
	Role  Role

	// Axes of the operand with this label. More than one axis means the label is a diagonal.
	Axes []int
}

// IsDiagonal returns whether the label repeats within the operand.
func (r LabelRole) IsDiagonal() bool { return len(r.Axes) > 1 }

// Roles classifies each distinct label of the operand at operandIdx, in order of first appearance.
func (c *Contraction) Roles(operandIdx int) []LabelRole {
	labels := c.Operands[operandIdx]
	output := utils.SetWith(c.Output...)
	var roles []LabelRole
	for axis, label := range labels {
		idx := slices.IndexFunc(roles, func(r LabelRole) bool { return r.Label == label })
		if idx >= 0 {
			roles[idx].Axes = append(roles[idx].Axes, axis)
			continue
		}
		shared := c.Count(label) > 1
		var role Role
		switch {
		case output.Has(label) && shared:
			role = RoleBatch
		case output.Has(label):
			role = RoleOutputKept
		case shared:
			role = RoleContracted
		default:
			role = RoleSummed
		}
		roles = append(roles, LabelRole{Label: label, Role: role, Axes: []int{axis}})
	}
	return roles
}

// distinct returns the distinct labels, in order of first appearance.
func distinct(labels []rune) []rune {
	result := make([]rune, 0, len(labels))
	for _, label := range labels {
		if !slices.Contains(result, label) {
			result = append(result, label)
		}
	}
	return result
}

// repeated returns the labels that appear more than once, in order of first appearance.
func repeated(labels []rune) []rune {
	var result []rune
	for ii, label := range labels {
		if slices.Contains(labels[ii+1:], label) && !slices.Contains(result, label) {
			result = append(result, label)
		}
	}
	return result
}

// SingletonClassification describes the reduction of one operand to an output label sequence, composed of
// a view (a permutation possibly merging diagonal axes) followed by a sum over the trailing axes.
type SingletonClassification struct {
	Input, Output []rune

	// Summed labels are the distinct input labels not in Output, in order of first appearance.
	Summed []rune

	// AxisGroups holds, for each label of Output followed by Summed, the input axes with that label.
	AxisGroups [][]int
}

// ClassifySingleton classifies the reduction of the input labels to the output labels.
//
// It panics if output has repeated labels or labels not in input.
func ClassifySingleton(input, output []rune) SingletonClassification {
	if len(repeated(output)) > 0 {
		exceptions.Panicf("ClassifySingleton(%q, %q): output has repeated labels", string(input), string(output))
	}
	s := SingletonClassification{
		Input:  slices.Clone(input),
		Output: slices.Clone(output),
	}
	for _, label := range distinct(input) {
		if !slices.Contains(output, label) {
			s.Summed = append(s.Summed, label)
		}
	}
	for _, label := range s.Intermediate() {
		var group []int
		for axis, inputLabel := range input {
			if inputLabel == label {
				group = append(group, axis)
			}
		}
		if len(group) == 0 {
			exceptions.Panicf("ClassifySingleton(%q, %q): output label %q not in input", string(input), string(output), label)
		}
		s.AxisGroups = append(s.AxisGroups, group)
	}
	return s
}

// Intermediate returns the labels of the view before summation: Output followed by Summed.
func (s SingletonClassification) Intermediate() []rune {
	return slices.Concat(s.Output, s.Summed)
}

// HasDiagonal returns whether any label repeats in the input.
func (s SingletonClassification) HasDiagonal() bool {
	return len(s.Input) != len(s.AxisGroups)
}

// IsIdentity returns whether the output is exactly the input.
func (s SingletonClassification) IsIdentity() bool {
	return slices.Equal(s.Input, s.Output)
}

// Permutation returns the input axis of each intermediate axis, if there are no diagonals.
// It panics otherwise.
func (s SingletonClassification) Permutation() []int {
	if s.HasDiagonal() {
		exceptions.Panicf("Permutation() of %q -> %q not defined, it has diagonals", string(s.Input), string(s.Output))
	}
	permutation := make([]int, len(s.AxisGroups))
	for ii, group := range s.AxisGroups {
		permutation[ii] = group[0]
	}
	return permutation
}

// PairClassification partitions the labels of a pair of operands being contracted, given the labels
// that must be kept after the contraction (labels of the final output or of other operands).
// All label lists hold distinct labels: lhs-side lists are in order of first appearance in the lhs, and
// rhs-only lists in order of first appearance in the rhs.
type PairClassification struct {
	Lhs, Rhs []rune

	// Batch labels are in both operands and are kept.
	Batch []rune

	// Contracted labels are in both operands and are not kept: they are summed over in the product.
	Contracted []rune

	// LhsOnly and RhsOnly labels are in only one of the operands, and are kept.
	LhsOnly, RhsOnly []rune

	// LhsSummed and RhsSummed labels are in only one of the operands, and are not kept.
	LhsSummed, RhsSummed []rune

	// LhsDiagonal and RhsDiagonal labels are repeated within the operand.
	LhsDiagonal, RhsDiagonal []rune
}

// ClassifyPair classifies the labels of a pair of operands, keeping the labels in keep.
func ClassifyPair(lhs, rhs []rune, keep utils.Set[rune]) PairClassification {
	p := PairClassification{
		Lhs:         slices.Clone(lhs),
		Rhs:         slices.Clone(rhs),
		LhsDiagonal: repeated(lhs),
		RhsDiagonal: repeated(rhs),
	}
	for _, label := range distinct(lhs) {
		inRhs := slices.Contains(rhs, label)
		kept := keep.Has(label)
		switch {
		case inRhs && kept:
			p.Batch = append(p.Batch, label)
		case inRhs:
			p.Contracted = append(p.Contracted, label)
		case kept:
			p.LhsOnly = append(p.LhsOnly, label)
		default:
			p.LhsSummed = append(p.LhsSummed, label)
		}
	}
	for _, label := range distinct(rhs) {
		if slices.Contains(lhs, label) {
			continue
		}
		if keep.Has(label) {
			p.RhsOnly = append(p.RhsOnly, label)
		} else {
			p.RhsSummed = append(p.RhsSummed, label)
		}
	}
	return p
}

// LhsNormalized returns the labels of the lhs operand normalized for the product: [batch][lhs only][contracted].
func (p PairClassification) LhsNormalized() []rune {
	return slices.Concat(p.Batch, p.LhsOnly, p.Contracted)
}

// RhsNormalized returns the labels of the rhs operand normalized for the product: [batch][rhs only][contracted].
func (p PairClassification) RhsNormalized() []rune {
	return slices.Concat(p.Batch, p.RhsOnly, p.Contracted)
}

// OutputLabels returns the labels of the product of the pair: [batch][lhs only][rhs only].
func (p PairClassification) OutputLabels() []rune {
	return slices.Concat(p.Batch, p.LhsOnly, p.RhsOnly)
}

// Labels returns all distinct labels touched by the pair.
func (p PairClassification) Labels() []rune {
	return distinct(slices.Concat(p.Lhs, p.Rhs))
}
