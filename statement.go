package einsum

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gomlx/einsum/internal/optypes"
	"github.com/gomlx/exceptions"
)

// Statement represents a single operation of a Path.
type Statement struct {
	// OpType is the type of the operation.
	OpType optypes.OpType

	// Inputs to the operation.
	Inputs []*Value

	// Attributes of the operation: the parameters used to execute it.
	Attributes map[string]any

	// Outputs of the operation. It is empty for the return statement.
	Outputs []*Value
}

// Attribute names.
const (
	attrPermutation = "permutation"
	attrAxisGroups  = "axis_groups"
	attrSummed      = "summed"
	attrBatch       = "batch"
	attrContracted  = "contracted"
	attrLhsOnly     = "lhs_only"
	attrRhsOnly     = "rhs_only"
	attrCost        = "cost"
)

// Cost is the estimated number of multiply-adds of a statement.
type Cost int

// String implements fmt.Stringer, with thousands separators.
func (c Cost) String() string {
	return humanize.Comma(int64(c))
}

// labelsAttr is a sequence of labels, written as a quoted string.
type labelsAttr []rune

// attribute returns the attribute of the statement with the given key, converted to T.
// It panics if the attribute is missing or has a different type.
func attribute[T any](s *Statement, key string) T {
	value, found := s.Attributes[key]
	if !found {
		exceptions.Panicf("statement %s missing attribute %q", s.OpType, key)
	}
	t, ok := value.(T)
	if !ok {
		var zero T
		exceptions.Panicf("statement %s attribute %q is %T, expected %T", s.OpType, key, value, zero)
	}
	return t
}

// Cost returns the estimated cost of the statement, or 0 if it is a view or bookkeeping statement.
func (s *Statement) Cost() Cost {
	if c, found := s.Attributes[attrCost]; found {
		return c.(Cost)
	}
	return 0
}

// Write writes a string representation of the statement to the given writer.
func (s *Statement) Write(writer io.Writer, indentation string) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	we := func(e elementWriter) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		err = e.Write(writer, indentation)
	}

	// Output values are written first:
	w("%s", indentation)
	if len(s.Outputs) > 0 {
		for i, output := range s.Outputs {
			if i > 0 {
				w(", ")
			}
			we(output)
		}
		w(" = ")
	}

	// Write op name and arguments:
	w("%s(", s.OpType.PathName())
	for i, input := range s.Inputs {
		if i > 0 {
			w(", ")
		}
		we(input)
	}
	w(")")

	// Write attributes, sorted by key:
	if len(s.Attributes) > 0 {
		w("{")
		for i, key := range slices.Sorted(maps.Keys(s.Attributes)) {
			if i > 0 {
				w(", ")
			}
			w("%s = %s", key, literalToString(s.Attributes[key]))
		}
		w("}")
	}

	// Write signature:
	w(" : (")
	for i, input := range s.Inputs {
		if i > 0 {
			w(", ")
		}
		w("%s", input.Signature())
	}
	w(")")
	if len(s.Outputs) > 0 {
		w(" -> ")
		for i, output := range s.Outputs {
			if i > 0 {
				w(", ")
			}
			w("%s", output.Signature())
		}
	}
	return err
}

// literalToString converts an attribute value to its string representation.
func literalToString(attr any) string {
	switch v := attr.(type) {
	case labelsAttr:
		return fmt.Sprintf("%q", string(v))
	case Cost:
		return v.String()
	case []int, [][]int:
		return fmt.Sprintf("%v", v)
	case int:
		return fmt.Sprintf("%d", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("Unknown literal type: %T %#v", v, v)
	}
}
