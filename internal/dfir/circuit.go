package dfir

import (
	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfnode"
)

// NodeID identifies a relational-tree node the lowering visitor has already
// processed, keying the node -> operator map (spec.md §3 Circuit).
type NodeID = string

// Circuit is a named container holding the three ordered operator lists —
// sources, sinks, internal operators — plus a node->operator map and an
// endpoint-name->operator map. Operators are owned by the circuit;
// cross-operator edges (Operator.Inputs) are non-owning references.
type Circuit struct {
	Name string
	// WeightAlias is the concrete Rust type backing the opaque Weight type
	// (spec.md §9 Design Note); Emit falls back to "i64" when empty.
	WeightAlias string

	Sources  []*Operator
	Sinks    []*Operator
	Internal []*Operator

	byNode map[NodeID]*Operator
	byName map[string]*Operator

	namer   *Namer
	counter *dfnode.Counter
}

// NewCircuit returns an empty, named Circuit with its own monotonic id
// generator and name allocator. One Circuit is produced per compilation
// unit; its counter and namer must never be shared with another circuit.
func NewCircuit(name string) *Circuit {
	return &Circuit{
		Name:    name,
		byNode:  make(map[NodeID]*Operator),
		byName:  make(map[string]*Operator),
		namer:   NewNamer(),
		counter: dfnode.NewCounter(),
	}
}

// Counter returns the circuit's shared monotonic id generator, used by
// dfexpr.Compiler and operator construction so that ids stay globally
// monotonic within one compilation.
func (c *Circuit) Counter() *dfnode.Counter { return c.counter }

// Namer returns the circuit's shared output-binding name allocator.
func (c *Circuit) Namer() *Namer { return c.namer }

// AddOperator routes op into Sources, Sinks, or Internal based on its Op
// tag, and registers it in the endpoint-name->operator map. Internal
// operators are appended in the order added, which is the post-order of
// the lowering visit (spec.md §5 ordering guarantee).
func (c *Circuit) AddOperator(op *Operator) error {
	if _, exists := c.byName[op.Name]; exists {
		return compilerr.NewIRInvariantf("dfir", "duplicate output binding name %q", op.Name)
	}
	c.byName[op.Name] = op

	switch op.Op {
	case OpSource:
		c.Sources = append(c.Sources, op)
	case OpSink:
		c.Sinks = append(c.Sinks, op)
	default:
		c.Internal = append(c.Internal, op)
	}
	return nil
}

// RegisterNode maps a relational-tree node id to the operator lowering
// produced for it. It fails (putNew semantics, spec.md §5) if the node was
// already registered.
func (c *Circuit) RegisterNode(node NodeID, op *Operator) error {
	if _, exists := c.byNode[node]; exists {
		return compilerr.NewIRInvariantf("dfir", "node %q already has a registered operator", node)
	}
	c.byNode[node] = op
	return nil
}

// Lookup returns the operator registered for node, if any.
func (c *Circuit) Lookup(node NodeID) (*Operator, bool) {
	op, ok := c.byNode[node]
	return op, ok
}

// AllOperators returns every operator in the circuit, in the canonical
// order sources, then internal, then sinks — the order §4.4 "Circuit
// assembly" builds them in, and the order property 4 (operator uniqueness)
// is checked against.
func (c *Circuit) AllOperators() []*Operator {
	all := make([]*Operator, 0, len(c.Sources)+len(c.Internal)+len(c.Sinks))
	all = append(all, c.Sources...)
	all = append(all, c.Internal...)
	all = append(all, c.Sinks...)
	return all
}
