package dfir

import (
	"fmt"
	"strings"

	"github.com/electwix/dbcircuit/internal/dfexpr"
)

// RenderExpr renders an Expression IR node as a Rust closure expression. A
// ClosureExpression renders as a `move |t: &RowType| ...` closure literal;
// nested expressions render as the body of that closure referencing the
// bound row variable by field-access syntax.
func RenderExpr(e *dfexpr.Expression) string {
	switch e.Kind {
	case dfexpr.KindClosure:
		return fmt.Sprintf("move |%s: &%s| %s", dfexpr.RowVarName, RenderType(e.RowType), RenderExpr(e.Body))
	case dfexpr.KindField:
		return fmt.Sprintf("%s.%d", dfexpr.RowVarName, e.FieldIndex)
	case dfexpr.KindLiteral:
		return e.LiteralText
	case dfexpr.KindUnary:
		return fmt.Sprintf("(%s%s)", e.UnaryOp, RenderExpr(e.Operand))
	case dfexpr.KindBinary:
		return fmt.Sprintf("(%s %s %s)", RenderExpr(e.Left), e.BinaryOp, RenderExpr(e.Right))
	case dfexpr.KindTuple:
		return renderTuple(e)
	default:
		return "/* unknown expression */"
	}
}

// renderTuple renders a KindTuple's elements, collapsing to the sole
// element's own rendering for arity 1 so a single-column projection reads
// as a plain field access rather than a one-element tuple literal — the
// same arity-1 collapse RenderType applies to tuple types.
func renderTuple(e *dfexpr.Expression) string {
	if len(e.Elements) == 1 {
		return RenderExpr(e.Elements[0])
	}
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = RenderExpr(el)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
