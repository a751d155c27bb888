// Package dfir is the Operator IR and Circuit graph: the dataflow DAG of
// typed operators with source/sink endpoints (spec.md §3, §4.3, §4.5).
package dfir

import (
	"fmt"
	"strings"

	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfexpr"
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// Op tags the variant of an Operator. All variants are shapes of the one
// Operator struct (capabilities {has-name, has-type}) rather than a class
// hierarchy, per the "duck-typed capabilities" redesign note.
type Op int

const (
	// OpSource exposes an external input as a stream.
	OpSource Op = iota
	// OpSink is the terminal observer of its single input.
	OpSink
	// OpRelProject is an element-wise projection t -> (t.i1, ..., t.ik).
	OpRelProject
	// OpFilter keeps elements where a predicate holds.
	OpFilter
	// OpSum is the multiset union of N inputs.
	OpSum
	// OpNegate is the unary negation of all weights.
	OpNegate
	// OpDistinct squashes positive weights to 1 and drops non-positive rows.
	OpDistinct
)

func (op Op) String() string {
	switch op {
	case OpSource:
		return "source"
	case OpSink:
		return "sink"
	case OpRelProject:
		return "map_keys"
	case OpFilter:
		return "filter_keys"
	case OpSum:
		return "sum"
	case OpNegate:
		return "neg"
	case OpDistinct:
		return "distinct"
	default:
		return "?"
	}
}

// Operator is a polymorphic dataflow node. Essential attributes: an
// operation tag, an optional payload expression rendered into the
// operator's function slot, an output Type (the operator's externally
// visible stream element type), a unique output binding name, and an
// ordered list of input operators (references, not owners).
type Operator struct {
	dfnode.Base
	Op   Op
	Name string
	// OutputType is always the operator's externally visible stream
	// element type, typically a Z-set of a tuple.
	OutputType dftype.Type
	// Function is the optional payload expression rendered into the
	// operator's function slot (RelProject's projection, Filter's
	// predicate). Empty for Source/Sink/Sum/Negate/Distinct.
	Function *dfexpr.Expression

	// Indexes holds the referenced column positions for OpRelProject.
	Indexes []int

	// SourceName / SinkName name the table/view an endpoint exposes.
	SourceName string
	SinkName   string

	// Inputs is the ordered, non-owning list of input operators. Order is
	// significant: the first input is the pipeline carrier, subsequent
	// inputs are additional data sources.
	Inputs []*Operator
}

// NewOperator constructs an Operator around an already allocated base.
// function may be nil; name may be empty, in which case it is allocated
// fresh from namer, otherwise it is claimed in namer.
func NewOperator(base dfnode.Base, op Op, function *dfexpr.Expression, outputType dftype.Type, name string, namer *Namer) (*Operator, error) {
	if name == "" {
		name = namer.Fresh(defaultName(op))
	} else if err := namer.Claim(name); err != nil {
		return nil, err
	}
	return &Operator{
		Base:       base,
		Op:         op,
		Name:       name,
		OutputType: outputType,
		Function:   function,
	}, nil
}

func defaultName(op Op) string {
	switch op {
	case OpSource:
		return "src"
	case OpSink:
		return "sink"
	case OpRelProject:
		return "proj"
	case OpFilter:
		return "filt"
	case OpSum:
		return "sum"
	case OpNegate:
		return "neg"
	case OpDistinct:
		return "dist"
	default:
		return "op"
	}
}

// AddInput appends op to the operator's input list. Order is significant.
func (o *Operator) AddInput(op *Operator) {
	o.Inputs = append(o.Inputs, op)
}

// Render produces this operator's single-binding emission (spec.md §4.3's
// emission contract), not including a trailing newline.
func (o *Operator) Render() (string, error) {
	switch o.Op {
	case OpSource:
		return o.renderSource(), nil
	case OpSink:
		return o.renderSink()
	case OpRelProject, OpFilter:
		return o.renderUnaryWithFunction()
	case OpSum:
		return o.renderSum()
	case OpNegate, OpDistinct:
		return o.renderUnaryNoFunction()
	default:
		return "", compilerr.NewIRInvariantf("dfir", "no renderer for operator tag %v", o.Op)
	}
}

func (o *Operator) renderSource() string {
	return fmt.Sprintf("let %s = circuit.add_source(%s);", o.Name, sourceGeneratorExpr(o))
}

func sourceGeneratorExpr(o *Operator) string {
	return fmt.Sprintf("Generator::new(move || %s)", CellName(o))
}

func (o *Operator) renderSink() (string, error) {
	if len(o.Inputs) != 1 {
		return "", compilerr.NewIRInvariantf("dfir", "sink %q expects exactly 1 input, got %d", o.Name, len(o.Inputs))
	}
	return fmt.Sprintf("%s.inspect(move |m| { *%s.borrow_mut() = m.clone(); });", o.Inputs[0].Name, CellName(o)), nil
}

func (o *Operator) renderUnaryWithFunction() (string, error) {
	if len(o.Inputs) != 1 {
		return "", compilerr.NewIRInvariantf("dfir", "%s %q expects exactly 1 input, got %d", o.Op, o.Name, len(o.Inputs))
	}
	if o.Function == nil {
		return "", compilerr.NewIRInvariantf("dfir", "%s %q requires a payload expression", o.Op, o.Name)
	}
	return fmt.Sprintf("let %s: Stream<%s> = %s.%s(%s);",
		o.Name, RenderType(o.OutputType), o.Inputs[0].Name, o.Op, RenderExpr(o.Function)), nil
}

func (o *Operator) renderUnaryNoFunction() (string, error) {
	if len(o.Inputs) != 1 {
		return "", compilerr.NewIRInvariantf("dfir", "%s %q expects exactly 1 input, got %d", o.Op, o.Name, len(o.Inputs))
	}
	return fmt.Sprintf("let %s: Stream<%s> = %s.%s();", o.Name, RenderType(o.OutputType), o.Inputs[0].Name, o.Op), nil
}

func (o *Operator) renderSum() (string, error) {
	if len(o.Inputs) < 1 {
		return "", compilerr.NewIRInvariantf("dfir", "sum %q requires at least 1 input", o.Name)
	}
	first := o.Inputs[0]
	rest := make([]string, 0, len(o.Inputs)-1)
	for _, in := range o.Inputs[1:] {
		rest = append(rest, in.Name)
	}
	return fmt.Sprintf("let %s: Stream<%s> = %s.sum(&[%s]);",
		o.Name, RenderType(o.OutputType), first.Name, strings.Join(rest, ", ")), nil
}

// CellName returns the shared single-writer, single-reader cell handle for
// a Source or Sink endpoint. A Sink has no outgoing stream type of its own
// (spec.md §9 Design Note), so its inspect emission reuses its own output
// binding name as the cell handle; this helper is the one place that
// naming convention lives, so Source and Sink emission stay regular.
func CellName(o *Operator) string {
	return o.Name + "_cell"
}
