package dfexpr

import (
	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// Compiler is the recursive post-order visitor over relational expressions
// (spec.md §4.2). One Compiler is constructed per row-typed context (one
// per relational node being lowered).
type Compiler struct {
	counter *dfnode.Counter
	// RowType is the implicit row t's Type; FieldExpression construction
	// validates a column index against its arity.
	RowType dftype.Type
	// StrictNullChecking, when true, raises Unimplemented for IS TRUE / IS
	// NOT FALSE instead of collapsing them to the operand unchanged. See
	// DESIGN.md's Open Question decision on the known nullable-boolean bug.
	StrictNullChecking bool
}

// NewCompiler returns a Compiler sharing counter with the rest of the
// compilation unit.
func NewCompiler(counter *dfnode.Counter, rowType dftype.Type) *Compiler {
	return &Compiler{counter: counter, RowType: rowType}
}

// Compile compiles a top-level relational expression, wrapping the result
// in exactly one ClosureExpression over the row variable t. The closure's
// Type equals the body's Type.
func (c *Compiler) Compile(rel *RelExpr) (*Expression, error) {
	body, err := c.compileNode(rel)
	if err != nil {
		return nil, err
	}
	closure := &Expression{
		Base:    dfnode.NewBase(c.counter, rel.Origin),
		Kind:    KindClosure,
		Type:    body.Type,
		Body:    body,
		RowType: c.RowType,
	}
	return closure, nil
}

func (c *Compiler) compileNode(rel *RelExpr) (*Expression, error) {
	switch rel.Kind {
	case RelColumn:
		return c.compileColumn(rel)
	case RelLiteral:
		return c.compileLiteral(rel)
	case RelCall:
		return c.compileCall(rel)
	default:
		return nil, compilerr.NewUnimplemented("dfexpr", "relational expression kind", rel)
	}
}

func (c *Compiler) compileColumn(rel *RelExpr) (*Expression, error) {
	fieldType, err := dftype.FieldType(c.RowType, rel.ColumnIndex)
	if err != nil {
		return nil, err
	}
	return &Expression{
		Base:       dfnode.NewBase(c.counter, rel.Origin),
		Kind:       KindField,
		Type:       fieldType,
		FieldIndex: rel.ColumnIndex,
	}, nil
}

func (c *Compiler) compileLiteral(rel *RelExpr) (*Expression, error) {
	text := rel.LiteralText
	if isNumericType(rel.LiteralType) {
		if canonical, err := dftype.CanonicalDecimalText(text); err == nil {
			text = canonical
		}
	}
	return &Expression{
		Base:        dfnode.NewBase(c.counter, rel.Origin),
		Kind:        KindLiteral,
		Type:        rel.LiteralType,
		LiteralText: text,
	}, nil
}

func isNumericType(t dftype.Type) bool {
	switch t.Kind {
	case dftype.KindSignedInt, dftype.KindFloat, dftype.KindDouble:
		return true
	default:
		return false
	}
}

var binaryOps = map[CallKind]BinaryOp{
	CallMul:    OpMul,
	CallDiv:    OpDiv,
	CallMod:    OpMod,
	CallAdd:    OpAdd,
	CallSub:    OpSub,
	CallLt:     OpLt,
	CallGt:     OpGt,
	CallLe:     OpLe,
	CallGe:     OpGe,
	CallEq:     OpEq,
	CallNe:     OpNe,
	CallAnd:    OpAnd,
	CallOr:     OpOr,
	CallDot:    OpDot,
	CallBitAnd: OpBitAnd,
	CallBitOr:  OpBitOr,
	CallBitXor: OpBitXor,
}

var unaryOps = map[CallKind]UnaryOp{
	CallNot:        OpNot,
	CallUnaryPlus:  OpUnaryPlus,
	CallUnaryMinus: OpUnaryMinus,
}

func (c *Compiler) compileCall(rel *RelExpr) (*Expression, error) {
	// IS TRUE / IS NOT FALSE collapse to the operand unchanged — same truth
	// on non-null booleans, wrong on nullable ones (spec.md §9 Open
	// Question, preserved as a documented known limitation).
	if rel.Call == CallIsTrue || rel.Call == CallIsNotFalse {
		if c.StrictNullChecking {
			return nil, compilerr.NewUnimplemented("dfexpr", rel.Call.String()+" (nullable boolean, strict null checking enabled)", rel)
		}
		if len(rel.Args) != 1 {
			return nil, compilerr.NewIRInvariantf("dfexpr", "%s expects 1 operand, got %d", rel.Call, len(rel.Args))
		}
		return c.compileNode(rel.Args[0])
	}

	if op, ok := binaryOps[rel.Call]; ok {
		if len(rel.Args) != 2 {
			return nil, compilerr.NewIRInvariantf("dfexpr", "binary call %s expects 2 operands, got %d", rel.Call, len(rel.Args))
		}
		left, err := c.compileNode(rel.Args[0])
		if err != nil {
			return nil, err
		}
		right, err := c.compileNode(rel.Args[1])
		if err != nil {
			return nil, err
		}
		return &Expression{
			Base:     dfnode.NewBase(c.counter, rel.Origin),
			Kind:     KindBinary,
			Type:     resultType(op, left.Type),
			BinaryOp: op,
			Left:     left,
			Right:    right,
		}, nil
	}

	if op, ok := unaryOps[rel.Call]; ok {
		if len(rel.Args) != 1 {
			return nil, compilerr.NewIRInvariantf("dfexpr", "unary call %s expects 1 operand, got %d", rel.Call, len(rel.Args))
		}
		operand, err := c.compileNode(rel.Args[0])
		if err != nil {
			return nil, err
		}
		resType := operand.Type
		if op == OpNot {
			resType = dftype.Bool(operand.Type.Nullable)
		}
		return &Expression{
			Base:    dfnode.NewBase(c.counter, rel.Origin),
			Kind:    KindUnary,
			Type:    resType,
			UnaryOp: op,
			Operand: operand,
		}, nil
	}

	return nil, compilerr.NewUnimplemented("dfexpr", rel.Call.String(), rel)
}

// resultType derives a binary expression's result Type from its operator
// and (for comparisons/logical ops) collapses to Bool; arithmetic and
// bitwise ops and Dot pass the left operand's Type through, and the row
// closure is already fully row-typed, so no further unification is needed
// for this core (no join/aggregation lowering, spec.md Non-goals).
func resultType(op BinaryOp, leftType dftype.Type) dftype.Type {
	switch op {
	case OpLt, OpGt, OpLe, OpGe, OpEq, OpNe, OpAnd, OpOr:
		return dftype.Bool(leftType.Nullable)
	default:
		return leftType
	}
}
