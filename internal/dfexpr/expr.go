// Package dfexpr is the Expression IR used as the payload of dataflow
// operators, compiled from relational expressions by a recursive
// post-order visitor (spec.md §4.2). An expression tree is a strict tree —
// no sharing; Closures own their bodies.
package dfexpr

import (
	"github.com/electwix/dbcircuit/internal/dfnode"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// Kind tags the variant of an Expression.
type Kind int

const (
	// KindField is a column reference into the implicit row t.
	KindField Kind = iota
	// KindLiteral is a constant whose rendering is opaque to the core.
	KindLiteral
	// KindUnary is a unary operator applied to one operand.
	KindUnary
	// KindBinary is a binary operator applied to two operands.
	KindBinary
	// KindClosure binds the implicit row variable t in scope of its body.
	KindClosure
	// KindTuple constructs a tuple from a fixed list of element expressions
	// (RelProject's projection body: t -> (t.i1, ..., t.ik)).
	KindTuple
)

// UnaryOp tags a unary expression operator.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpUnaryPlus
	OpUnaryMinus
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpUnaryPlus:
		return "+"
	case OpUnaryMinus:
		return "-"
	default:
		return "?"
	}
}

// BinaryOp tags a binary expression operator.
type BinaryOp int

const (
	OpMul BinaryOp = iota
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpDot
	OpBitAnd
	OpBitOr
	OpBitXor
)

func (op BinaryOp) String() string {
	switch op {
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpDot:
		return "."
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	default:
		return "?"
	}
}

// RowVarName is the name of the implicit row variable every Closure binds.
const RowVarName = "t"

// Expression is a node in the expression IR. Every variant carries its
// result Type; Field/Literal/Unary/Binary/Closure are mutually exclusive
// shapes of this one struct rather than a type hierarchy, matching the
// tagged-variant-IR redesign (spec.md §9).
type Expression struct {
	dfnode.Base
	Kind Kind
	Type dftype.Type

	// FieldIndex is the row-column index for KindField.
	FieldIndex int

	// LiteralText is the opaque printed representation for KindLiteral.
	LiteralText string

	// UnaryOp / Operand are populated for KindUnary.
	UnaryOp UnaryOp
	Operand *Expression

	// BinaryOp / Left / Right are populated for KindBinary.
	BinaryOp BinaryOp
	Left     *Expression
	Right    *Expression

	// Body is populated for KindClosure; it is the sole owner of its body.
	Body *Expression
	// RowType is the implicit row t's Type, populated for KindClosure.
	RowType dftype.Type

	// Elements is populated for KindTuple: the ordered list of element
	// expressions the tuple constructs.
	Elements []*Expression
}

// IsClosure reports whether e is a ClosureExpression.
func (e *Expression) IsClosure() bool { return e.Kind == KindClosure }
