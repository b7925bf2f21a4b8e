package einsum

import (
	"fmt"
	"io"
	"slices"
)

// Value represents a tensor in a Path, like `%0` (an intermediate result) or `%arg0` (an operand).
// It holds the label of each of its axes and their dimensions. Values have no dtype: a Path can be
// executed on operands of any supported dtype.
type Value struct {
	id         int
	labels     []rune
	dimensions []int
	name       string // Optional name composed of letters, digits and underscore
}

// Labels returns the label of each axis of the value.
func (v *Value) Labels() []rune {
	return slices.Clone(v.labels)
}

// Dimensions returns the dimension of each axis of the value.
func (v *Value) Dimensions() []int {
	return slices.Clone(v.dimensions)
}

// Rank of the value.
func (v *Value) Rank() int {
	return len(v.labels)
}

// Write writes the value name to the given writer.
func (v *Value) Write(w io.Writer, indentation string) error {
	_ = indentation
	_, err := io.WriteString(w, v.String())
	return err
}

// String implements fmt.Stringer.
func (v *Value) String() string {
	if v.name != "" {
		return "%" + v.name
	}
	return fmt.Sprintf("%%%d", v.id)
}

// Signature returns the labels and dimensions of the value, e.g.: "ij[2 3]".
func (v *Value) Signature() string {
	return fmt.Sprintf("%s%v", string(v.labels), v.dimensions)
}
