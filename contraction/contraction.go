// Package contraction defines the structured description of a generalized Einstein summation: the labels
// of each operand axis and of the output axes (Contraction), and the extent of each label (SizedContraction).
//
// It also classifies labels according to the role they play in a contraction, see Roles, ClassifySingleton
// and ClassifyPair.
//
// Textual specifications like "ij,jk->ik" are not parsed here: each operand is given as a sequence of
// labels, one label (a rune) per axis. So the matrix multiplication above is
//
//	c, err := contraction.New([]string{"ij", "jk"}, "ik")
package contraction

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/gomlx/einsum/internal/utils"
	"github.com/pkg/errors"
)

// Contraction holds the labels of each operand axis and of the output axes.
//
// A label that repeats within an operand denotes a diagonal. A label that is not in the output is summed over.
type Contraction struct {
	// Operands holds one sequence of labels per operand, one label per axis.
	Operands [][]rune

	// Output holds the labels of the output axes, in order. They are unique.
	Output []rune
}

// New creates a Contraction from the labels of each operand and the output labels, one rune per axis.
//
// It returns an error if there are no operands, if an output label is repeated, or if an output label doesn't
// appear in any operand.
func New(operands []string, output string) (*Contraction, error) {
	c := &Contraction{
		Operands: make([][]rune, len(operands)),
		Output:   []rune(output),
	}
	for ii, labels := range operands {
		c.Operands[ii] = []rune(labels)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Contraction) validate() error {
	if len(c.Operands) == 0 {
		return errors.New("contraction requires at least one operand")
	}
	inOperands := utils.MakeSet[rune]()
	for _, labels := range c.Operands {
		inOperands.Insert(labels...)
	}
	seen := utils.MakeSet[rune](len(c.Output))
	for _, label := range c.Output {
		if seen.Has(label) {
			return errors.Errorf("output label %q repeated in output %q", label, string(c.Output))
		}
		seen.Insert(label)
		if !inOperands.Has(label) {
			return errors.Errorf("output label %q doesn't appear in any of the operands %s", label, c.operandsString())
		}
	}
	return nil
}

// NumOperands returns the number of operands of the contraction.
func (c *Contraction) NumOperands() int { return len(c.Operands) }

// Labels returns all distinct labels of the contraction, in order of first appearance in the operands.
func (c *Contraction) Labels() []rune {
	var labels []rune
	seen := utils.MakeSet[rune]()
	for _, operand := range c.Operands {
		for _, label := range operand {
			if !seen.Has(label) {
				seen.Insert(label)
				labels = append(labels, label)
			}
		}
	}
	return labels
}

// Count returns the number of operands the label appears in, counting once operands where the label repeats.
func (c *Contraction) Count(label rune) int {
	count := 0
	for _, operand := range c.Operands {
		if slices.Contains(operand, label) {
			count++
		}
	}
	return count
}

func (c *Contraction) operandsString() string {
	parts := make([]string, len(c.Operands))
	for ii, operand := range c.Operands {
		parts[ii] = string(operand)
	}
	return strings.Join(parts, ",")
}

// String returns the contraction in the usual einsum notation, e.g.: "ij,jk->ik".
func (c *Contraction) String() string {
	return fmt.Sprintf("%s->%s", c.operandsString(), string(c.Output))
}

// SizedContraction is a Contraction with the extent of each of its labels.
// It is immutable once created.
type SizedContraction struct {
	Contraction

	// Sizes maps each label to its extent.
	Sizes map[rune]int
}

// NewSized creates a SizedContraction from a Contraction and the extent of each label.
//
// It returns an error if a label of the contraction has no size or a negative size.
func NewSized(c *Contraction, sizes map[rune]int) (*SizedContraction, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	sc := &SizedContraction{
		Contraction: Contraction{
			Operands: make([][]rune, len(c.Operands)),
			Output:   slices.Clone(c.Output),
		},
		Sizes: maps.Clone(sizes),
	}
	for ii, operand := range c.Operands {
		sc.Operands[ii] = slices.Clone(operand)
	}
	for _, label := range sc.Labels() {
		size, found := sc.Sizes[label]
		if !found {
			return nil, errors.Errorf("no size given for label %q of contraction %s", label, c)
		}
		if size < 0 {
			return nil, errors.Errorf("negative size %d for label %q of contraction %s", size, label, c)
		}
	}
	return sc, nil
}

// SizeFromDimensions creates a SizedContraction taking the label sizes from the dimensions of the operands.
//
// It returns an error if the number of operands or the rank of an operand doesn't match the contraction,
// or if a label is used for axes of different dimensions.
func SizeFromDimensions(c *Contraction, operandsDimensions ...[]int) (*SizedContraction, error) {
	if len(operandsDimensions) != len(c.Operands) {
		return nil, errors.Errorf("contraction %s takes %d operands, %d were given", c, len(c.Operands), len(operandsDimensions))
	}
	sizes := make(map[rune]int)
	for operandIdx, dimensions := range operandsDimensions {
		labels := c.Operands[operandIdx]
		if len(labels) != len(dimensions) {
			return nil, errors.Errorf("operand #%d of contraction %s has labels %q (rank %d), but dimensions %v were given",
				operandIdx, c, string(labels), len(labels), dimensions)
		}
		for axis, label := range labels {
			dim := dimensions[axis]
			if size, found := sizes[label]; found && size != dim {
				return nil, errors.Errorf("label %q has mismatched sizes: %d and %d (operand #%d, axis %d) in contraction %s",
					label, size, dim, operandIdx, axis, c)
			}
			sizes[label] = dim
		}
	}
	return NewSized(c, sizes)
}

// Dimensions returns the extents of the given labels.
func (sc *SizedContraction) Dimensions(labels []rune) []int {
	dims := make([]int, len(labels))
	for ii, label := range labels {
		dims[ii] = sc.Sizes[label]
	}
	return dims
}

// OperandDimensions returns the dimensions expected for the operand at operandIdx.
func (sc *SizedContraction) OperandDimensions(operandIdx int) []int {
	return sc.Dimensions(sc.Operands[operandIdx])
}

// OutputDimensions returns the dimensions of the output of the contraction.
func (sc *SizedContraction) OutputDimensions() []int {
	return sc.Dimensions(sc.Output)
}

// Cost returns the product of the extents of the distinct labels given.
// It saturates at math.MaxInt instead of overflowing, unless one of the extents is 0.
func (sc *SizedContraction) Cost(labels ...[]rune) int {
	cost := 1
	seen := utils.MakeSet[rune]()
	for _, group := range labels {
		for _, label := range group {
			if seen.Has(label) {
				continue
			}
			seen.Insert(label)
			size := sc.Sizes[label]
			if size == 0 {
				return 0
			}
			if cost > math.MaxInt/size {
				cost = math.MaxInt
			} else {
				cost *= size
			}
		}
	}
	return cost
}

// AddCosts returns the sum of the costs, saturated at math.MaxInt.
func AddCosts(costs ...int) int {
	var total int
	for _, cost := range costs {
		if cost > math.MaxInt-total {
			return math.MaxInt
		}
		total += cost
	}
	return total
}
