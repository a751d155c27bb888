package dfir

import (
	"github.com/google/uuid"

	"github.com/electwix/dbcircuit/internal/dfexpr"
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// AddSource constructs a Source operator exposing tableName as a stream,
// registers it with the circuit, and returns it. Output Type is
// ZSet(TupleOf(table columns)).
func (c *Circuit) AddSource(origin *uuid.UUID, tableName string, rowType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpSource, nil, dftype.MakeZSet(rowType), name, c.namer)
	if err != nil {
		return nil, err
	}
	op.SourceName = tableName
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddSink constructs a Sink operator exposing viewName as the terminal
// observer of its single input (wired separately via AddInput).
func (c *Circuit) AddSink(origin *uuid.UUID, viewName string, rowType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpSink, nil, dftype.MakeZSet(rowType), name, c.namer)
	if err != nil {
		return nil, err
	}
	op.SinkName = viewName
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddRelProject constructs a RelProject operator over the given column
// indexes, with function as its rendered projection closure (t -> (t.i1,
// ..., t.ik); see dfexpr.KindTuple). The caller wires its single input via
// AddInput.
func (c *Circuit) AddRelProject(origin *uuid.UUID, indexes []int, function *dfexpr.Expression, outputType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpRelProject, function, outputType, name, c.namer)
	if err != nil {
		return nil, err
	}
	op.Indexes = indexes
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddFilter constructs a Filter operator over the given predicate. The
// caller wires its single input via AddInput.
func (c *Circuit) AddFilter(origin *uuid.UUID, predicate *dfexpr.Expression, outputType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpFilter, predicate, outputType, name, c.namer)
	if err != nil {
		return nil, err
	}
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddSum constructs a Sum operator. The caller wires its inputs via
// AddInput, in the order operands should be added.
func (c *Circuit) AddSum(origin *uuid.UUID, outputType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpSum, nil, outputType, name, c.namer)
	if err != nil {
		return nil, err
	}
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddNegate constructs a Negate operator. The caller wires its single
// input via AddInput.
func (c *Circuit) AddNegate(origin *uuid.UUID, outputType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpNegate, nil, outputType, name, c.namer)
	if err != nil {
		return nil, err
	}
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}

// AddDistinct constructs a Distinct operator. The caller wires its single
// input via AddInput.
func (c *Circuit) AddDistinct(origin *uuid.UUID, outputType dftype.Type, name string) (*Operator, error) {
	op, err := NewOperator(dfnode.NewBase(c.counter, origin), OpDistinct, nil, outputType, name, c.namer)
	if err != nil {
		return nil, err
	}
	if err := c.AddOperator(op); err != nil {
		return nil, err
	}
	return op, nil
}
