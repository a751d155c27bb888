// Package lower is the lowering visitor (spec.md §4.4): it walks the
// relational tree internal/sqlfront builds and synthesizes the
// internal/dfir operator graph, enforcing multiset vs. set semantics (the
// ALL qualifier) along the way.
package lower

import (
	"github.com/google/uuid"

	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfexpr"
	"github.com/electwix/dbcircuit/internal/dfir"
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
	"github.com/electwix/dbcircuit/internal/sqlfront"
)

// frame is one (parent, ordinal) entry in the visitor's diagnostic stack:
// which child, by position, of which node is currently being lowered.
type frame struct {
	parent  *sqlfront.RelNode
	ordinal int
}

// Visitor lowers one compilation unit's table declarations and view
// definitions into a single dfir.Circuit, bottom-up and post-order. One
// Visitor is built per circuit; its table map and the circuit's node map
// are both putNew (spec.md §5: no two handlers write the same logical key).
type Visitor struct {
	circuit *dfir.Circuit
	tables  map[string]*dfir.Operator
	stack   []frame
	// strictNullChecking is forwarded to every per-node dfexpr.Compiler
	// (see lowerFilter); set from dfconfig.Config.StrictNullChecking.
	strictNullChecking bool
}

// New returns a Visitor that lowers into circuit. strictNullChecking is
// forwarded to every expression compiler it constructs (spec.md §9's
// nullable-boolean escape hatch).
func New(circuit *dfir.Circuit, strictNullChecking bool) *Visitor {
	return &Visitor{circuit: circuit, tables: make(map[string]*dfir.Operator), strictNullChecking: strictNullChecking}
}

// DeclareTable registers a table's Source operator, keyed by name (spec.md
// §4.4 Circuit assembly, step 1). rowType is the table's row Tuple type, as
// resolved by the catalog — not yet wrapped in ZSet.
func (v *Visitor) DeclareTable(origin *uuid.UUID, name string, rowType dftype.Type) (*dfir.Operator, error) {
	if _, exists := v.tables[name]; exists {
		return nil, compilerr.NewIRInvariantf("lower", "table %q already has a registered source", name)
	}
	op, err := v.circuit.AddSource(origin, name, rowType, "")
	if err != nil {
		return nil, err
	}
	v.tables[name] = op
	return op, nil
}

// DeclareView lowers root and wires its final operator into a new Sink
// registered under name (spec.md §4.4 Circuit assembly, step 2).
func (v *Visitor) DeclareView(origin *uuid.UUID, name string, root *sqlfront.RelNode) (*dfir.Operator, error) {
	last, err := v.lower(root)
	if err != nil {
		return nil, err
	}
	rowType, err := elementType(last.OutputType)
	if err != nil {
		return nil, err
	}
	sink, err := v.circuit.AddSink(origin, name, rowType, "")
	if err != nil {
		return nil, err
	}
	sink.AddInput(last)
	return sink, nil
}

// lower dispatches on node kind, pushing a diagnostic frame for each child
// it descends into and popping it back off before returning. If no handler
// matches, it raises Unimplemented (spec.md §4.4: "Dispatch on node kind;
// if no handler matches, raise Unimplemented").
func (v *Visitor) lower(node *sqlfront.RelNode) (*dfir.Operator, error) {
	if op, ok := v.circuit.Lookup(node.ID); ok {
		return op, nil
	}

	var op *dfir.Operator
	var err error
	switch node.Kind {
	case sqlfront.KindTableScan:
		op, err = v.lowerTableScan(node)
	case sqlfront.KindProject:
		op, err = v.lowerProject(node)
	case sqlfront.KindFilter:
		op, err = v.lowerFilter(node)
	case sqlfront.KindUnion:
		op, err = v.lowerSetOp(node, false)
	case sqlfront.KindMinus:
		op, err = v.lowerSetOp(node, true)
	default:
		return nil, compilerr.NewUnimplemented("lower", "relational node kind", node)
	}
	if err != nil {
		return nil, err
	}
	if err := v.circuit.RegisterNode(node.ID, op); err != nil {
		return nil, err
	}
	return op, nil
}

// lowerChild pushes node's (parent, ordinal) frame, lowers child, and pops
// the frame regardless of outcome.
func (v *Visitor) lowerChild(parent *sqlfront.RelNode, ordinal int, child *sqlfront.RelNode) (*dfir.Operator, error) {
	v.stack = append(v.stack, frame{parent: parent, ordinal: ordinal})
	defer func() { v.stack = v.stack[:len(v.stack)-1] }()
	return v.lower(child)
}

// lowerTableScan installs the previously registered Source operator for
// node's table as this node's operator (spec.md §4.4 TableScan).
func (v *Visitor) lowerTableScan(node *sqlfront.RelNode) (*dfir.Operator, error) {
	op, ok := v.tables[node.TableName]
	if !ok {
		return nil, compilerr.NewIRInvariantf("lower", "table scan references undeclared table %q", node.TableName)
	}
	return op, nil
}

// lowerFilter compiles the predicate against the child's row type and
// registers a Filter operator over the single child (spec.md §4.4 Filter).
func (v *Visitor) lowerFilter(node *sqlfront.RelNode) (*dfir.Operator, error) {
	child, err := v.lowerChild(node, 0, node.Children[0])
	if err != nil {
		return nil, err
	}
	rowType, err := elementType(child.OutputType)
	if err != nil {
		return nil, err
	}
	exprCompiler := dfexpr.NewCompiler(v.circuit.Counter(), rowType)
	exprCompiler.StrictNullChecking = v.strictNullChecking
	predicate, err := exprCompiler.Compile(node.Predicate)
	if err != nil {
		return nil, err
	}
	op, err := v.circuit.AddFilter(node.Origin, predicate, child.OutputType, "")
	if err != nil {
		return nil, err
	}
	op.AddInput(child)
	return op, nil
}

// lowerProject accepts only pure column references in the projection list
// (any non-reference raises Unimplemented), produces a RelProject operator
// over the referenced indexes, and pipes it through Distinct — the
// registered operator is the Distinct, giving set semantics (spec.md §4.4
// Project).
func (v *Visitor) lowerProject(node *sqlfront.RelNode) (*dfir.Operator, error) {
	child, err := v.lowerChild(node, 0, node.Children[0])
	if err != nil {
		return nil, err
	}
	rowType, err := elementType(child.OutputType)
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(node.Projection))
	elements := make([]dftype.Type, 0, len(node.Projection))
	fields := make([]*dfexpr.Expression, 0, len(node.Projection))
	counter := v.circuit.Counter()
	for _, target := range node.Projection {
		if target.Kind != dfexpr.RelColumn {
			return nil, compilerr.NewUnimplemented("lower", "non-column projection target", target)
		}
		fieldType, err := dftype.FieldType(rowType, target.ColumnIndex)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, target.ColumnIndex)
		elements = append(elements, fieldType)
		fields = append(fields, &dfexpr.Expression{
			Base:       dfnode.NewBase(counter, target.Origin),
			Kind:       dfexpr.KindField,
			Type:       fieldType,
			FieldIndex: target.ColumnIndex,
		})
	}

	tupleType := dftype.Tuple(elements...)
	body := &dfexpr.Expression{
		Base:     dfnode.NewBase(counter, node.Origin),
		Kind:     dfexpr.KindTuple,
		Type:     tupleType,
		Elements: fields,
	}
	closure := &dfexpr.Expression{
		Base:    dfnode.NewBase(counter, node.Origin),
		Kind:    dfexpr.KindClosure,
		Type:    tupleType,
		Body:    body,
		RowType: rowType,
	}

	projOutput := dftype.MakeZSet(tupleType)
	proj, err := v.circuit.AddRelProject(node.Origin, indexes, closure, projOutput, "")
	if err != nil {
		return nil, err
	}
	proj.AddInput(child)

	dist, err := v.circuit.AddDistinct(node.Origin, projOutput, "")
	if err != nil {
		return nil, err
	}
	dist.AddInput(proj)
	return dist, nil
}

// lowerSetOp lowers a Union or Minus node: builds a Sum over all child
// operators (Minus first negates every child after the first), then
// optionally follows with Distinct when the ALL qualifier is false. The
// registered operator is the Sum (bag semantics) or the trailing Distinct
// (set semantics) — spec.md §4.4 Union/Minus.
func (v *Visitor) lowerSetOp(node *sqlfront.RelNode, isMinus bool) (*dfir.Operator, error) {
	if len(node.Children) < 2 {
		return nil, compilerr.NewIRInvariantf("lower", "set operator requires at least 2 children, got %d", len(node.Children))
	}

	children := make([]*dfir.Operator, len(node.Children))
	for i, childNode := range node.Children {
		child, err := v.lowerChild(node, i, childNode)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}

	outputType := children[0].OutputType
	for i, child := range children[1:] {
		if !dftype.Same(child.OutputType, outputType) {
			return nil, compilerr.NewIRInvariantf("lower", "set operator branch %d has a different schema than branch 0", i+1)
		}
	}

	sum, err := v.circuit.AddSum(node.Origin, outputType, "")
	if err != nil {
		return nil, err
	}
	sum.AddInput(children[0])
	for _, child := range children[1:] {
		operand := child
		if isMinus {
			neg, err := v.circuit.AddNegate(node.Origin, outputType, "")
			if err != nil {
				return nil, err
			}
			neg.AddInput(child)
			operand = neg
		}
		sum.AddInput(operand)
	}

	if node.All {
		return sum, nil
	}
	dist, err := v.circuit.AddDistinct(node.Origin, outputType, "")
	if err != nil {
		return nil, err
	}
	dist.AddInput(sum)
	return dist, nil
}

// elementType unwraps a ZSet operator output Type down to its Tuple row
// type.
func elementType(t dftype.Type) (dftype.Type, error) {
	if t.Kind != dftype.KindZSet || t.Element == nil {
		return dftype.Type{}, compilerr.NewIRInvariantf("lower", "expected a ZSet operator output, got %v", t.Kind)
	}
	return *t.Element, nil
}
