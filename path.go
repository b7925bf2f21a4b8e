package einsum

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gomlx/einsum/contraction"
	"github.com/gomlx/einsum/internal/kernels"
	"github.com/gomlx/einsum/internal/optypes"
	"github.com/gomlx/einsum/internal/utils"
	"github.com/gomlx/einsum/optimizer"
	"github.com/gomlx/einsum/shapeinference"
	"github.com/gomlx/einsum/types/shapes"
	"github.com/gomlx/einsum/types/tensors"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Path is a compiled contraction: a flat list of statements over values, that reduces the operands
// to the output of a sized contraction.
//
// It is created with New(sc).Build(), and it can be executed any number of times with Path.Execute,
// including concurrently.
type Path struct {
	// Name of the path, used when printing it.
	Name string

	// Contraction being computed.
	Contraction *contraction.SizedContraction

	// Order of the pairwise contractions.
	Order *optimizer.Order

	// Inputs of the path, one per operand.
	Inputs []*Value

	// Statements in execution order. The last one is the return statement.
	Statements []*Statement

	// Output is the value returned by the path.
	Output *Value

	pool   *kernels.Pool
	nextID int
}

func newPath(name string, sc *contraction.SizedContraction, order *optimizer.Order, pool *kernels.Pool) *Path {
	p := &Path{
		Name:        name,
		Contraction: sc,
		Order:       order,
		pool:        pool,
	}
	for ii, labels := range sc.Operands {
		input := p.newValue(labels)
		input.name = fmt.Sprintf("arg%d", ii)
		p.Inputs = append(p.Inputs, input)
	}
	return p
}

// newValue creates a new value with the given labels and assigns it to the next available id.
func (p *Path) newValue(labels []rune) *Value {
	v := &Value{
		id:         p.nextID,
		labels:     slices.Clone(labels),
		dimensions: p.Contraction.Dimensions(labels),
	}
	p.nextID++
	return v
}

// addStatement appends a statement with one output with the given labels, and returns the output.
func (p *Path) addStatement(opType optypes.OpType, inputs []*Value, attributes map[string]any, outputLabels []rune) *Value {
	output := p.newValue(outputLabels)
	p.Statements = append(p.Statements, &Statement{
		OpType:     opType,
		Inputs:     inputs,
		Attributes: attributes,
		Outputs:    []*Value{output},
	})
	return output
}

// compile creates the statements following the order of pairwise contractions, and a final singleton
// reduction to the output labels.
func (p *Path) compile() {
	live := slices.Clone(p.Inputs)
	for _, step := range p.Order.Steps {
		result := p.compilePair(live[step.Lhs], live[step.Rhs], step)
		live = slices.Delete(live, step.Rhs, step.Rhs+1)
		live = slices.Delete(live, step.Lhs, step.Lhs+1)
		live = append(live, result)
	}
	if len(live) != 1 {
		exceptions.Panicf("einsum path for %s: %d values left after all pairwise contractions", p.Contraction, len(live))
	}
	output := p.compileSingleton(live[0], p.Contraction.Output)
	if slices.Contains(p.Inputs, output) {
		output = p.addStatement(optypes.Identity, []*Value{output}, nil, output.labels)
	}
	p.Output = output
	p.Statements = append(p.Statements, &Statement{
		OpType: optypes.Return,
		Inputs: []*Value{output},
	})
}

// Cost returns the estimated cost of executing the path: the sum of the cost of its statements.
func (p *Path) Cost() Cost {
	var total Cost
	for _, s := range p.Statements {
		total = Cost(contraction.AddCosts(int(total), int(s.Cost())))
	}
	return total
}

// Write the path in a readable text form to the given writer.
func (p *Path) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	we := func(e elementWriter, indentation string) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		err = e.Write(writer, indentation)
	}

	w("path @%s(", utils.NormalizeIdentifier(p.Name))
	for i, input := range p.Inputs {
		if i > 0 {
			w(", ")
		}
		we(input, "")
		w(": %s", input.Signature())
	}
	w(") -> %s {\n", p.Output.Signature())
	w("%s// %q, optimization: %s, estimated cost: %s\n", IndentationStep, p.Contraction.String(), p.Order.Method, p.Cost())
	for ii, input := range p.Inputs {
		w("%s// %s roles: %s\n", IndentationStep, input, rolesString(p.Contraction.Roles(ii)))
	}
	for _, s := range p.Statements {
		we(s, IndentationStep)
		w("\n")
	}
	w("}\n")
	return err
}

// rolesString lists the role of each label, e.g.: "i=OutputKept(diagonal) j=Contracted".
func rolesString(roles []contraction.LabelRole) string {
	if len(roles) == 0 {
		return "(scalar)"
	}
	parts := make([]string, len(roles))
	for ii, r := range roles {
		parts[ii] = fmt.Sprintf("%c=%s", r.Label, r.Role)
		if r.IsDiagonal() {
			parts[ii] += "(diagonal)"
		}
	}
	return strings.Join(parts, " ")
}

// IndentationStep used when writing a Path.
const IndentationStep = "  "

// String implements fmt.Stringer.
func (p *Path) String() string {
	var buf bytes.Buffer
	if err := p.Write(&buf); err != nil {
		return fmt.Sprintf("<failed to write path: %v>", err)
	}
	return buf.String()
}

// validateOperands returns an error if the operands don't match the path inputs.
func (p *Path) validateOperands(operands []*tensors.Tensor) error {
	if len(operands) != len(p.Inputs) {
		return errors.Errorf("einsum path for %s takes %d operands, %d were given", p.Contraction, len(p.Inputs), len(operands))
	}
	operandShapes := make([]shapes.Shape, len(operands))
	for ii, operand := range operands {
		if operand == nil {
			return errors.Errorf("einsum path for %s: operand #%d is nil", p.Contraction, ii)
		}
		operandShapes[ii] = operand.Shape()
	}
	if _, _, err := shapeinference.Contract(&p.Contraction.Contraction, operandShapes...); err != nil {
		return errors.WithMessagef(err, "einsum path for %s", p.Contraction)
	}
	for ii, operand := range operands {
		if err := operand.Shape().CheckDims(p.Inputs[ii].dimensions...); err != nil {
			return errors.WithMessagef(err, "einsum path for %s: operand #%d", p.Contraction, ii)
		}
	}
	return nil
}

// Execute the path on the given operands, and return the output of the contraction.
//
// Operands must match the sized contraction used to build the path, and all must have the same dtype.
// It returns an error otherwise.
//
// Operands are not modified, and the returned tensor is always owned by the caller: it never aliases
// the operands' data.
func (p *Path) Execute(operands ...*tensors.Tensor) (*tensors.Tensor, error) {
	if err := p.validateOperands(operands); err != nil {
		return nil, err
	}
	values := make([]*tensors.Tensor, p.nextID)
	for ii, input := range p.Inputs {
		values[input.id] = operands[ii]
	}
	var result *tensors.Tensor
	for _, s := range p.Statements {
		if s.OpType == optypes.Return {
			result = values[s.Inputs[0].id]
			break
		}
		output := p.execStatement(s, values)
		if klog.V(2).Enabled() {
			klog.Infof("einsum %s: %s -> %s", s.OpType.PathName(), s.Outputs[0].Signature(), output.Shape())
		}
		// Each value has exactly one consumer.
		for _, input := range s.Inputs {
			values[input.id] = nil
		}
		values[s.Outputs[0].id] = output
	}
	if result == nil {
		exceptions.Panicf("einsum path for %s has no return statement", p.Contraction)
	}
	if result.IsView() || slices.Contains(operands, result) {
		result = result.Clone()
	}
	return result, nil
}

// execStatement executes one statement, given the tensors of its inputs in values.
func (p *Path) execStatement(s *Statement, values []*tensors.Tensor) *tensors.Tensor {
	inputs := make([]*tensors.Tensor, len(s.Inputs))
	for ii, input := range s.Inputs {
		inputs[ii] = values[input.id]
		if inputs[ii] == nil {
			exceptions.Panicf("einsum path: value %s used before it was computed, or used twice", input)
		}
	}
	if s.OpType.IsSingleton() {
		if len(inputs) != 1 {
			exceptions.Panicf("einsum path: statement %s takes 1 input, got %d", s.OpType, len(inputs))
		}
		return execSingleton(s, inputs[0])
	}
	if len(inputs) != 2 {
		exceptions.Panicf("einsum path: statement %s takes 2 inputs, got %d", s.OpType, len(inputs))
	}
	switch s.OpType {
	case optypes.ScalarProduct:
		return execScalarProduct(s, inputs[0], inputs[1])
	case optypes.Hadamard:
		return execHadamard(s, inputs[0], inputs[1])
	case optypes.Tensordot:
		return p.execTensordot(s, inputs[0], inputs[1])
	default:
		exceptions.Panicf("einsum path: unexpected statement %s", s.OpType)
		return nil
	}
}

// flatOf returns the contiguous flat data of t, copying it first if needed.
func flatOf(t *tensors.Tensor) (flat any) {
	t.ConstFlatData(func(f any) { flat = f })
	return
}
