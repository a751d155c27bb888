package dfir

import (
	"fmt"
	"strings"

	"github.com/electwix/dbcircuit/internal/dftype"
)

// RenderType renders a dataflow Type as dataflow-host source text. This is
// the one IR -> text boundary the core commits to (spec.md §4.5): the
// shape is Rust-flavored because the emitted circuit targets a Rust
// dataflow host, but any equivalent textual target accepting the same
// five-part layout is acceptable.
func RenderType(t dftype.Type) string {
	switch t.Kind {
	case dftype.KindBool:
		return wrapOption("bool", t.Nullable)
	case dftype.KindSignedInt:
		return wrapOption(fmt.Sprintf("i%d", t.Width), t.Nullable)
	case dftype.KindFloat:
		return wrapOption("F32", t.Nullable)
	case dftype.KindDouble:
		return wrapOption("F64", t.Nullable)
	case dftype.KindString:
		return wrapOption("String", t.Nullable)
	case dftype.KindTuple:
		return renderTupleType(t)
	case dftype.KindStruct:
		return t.StructName
	case dftype.KindStream:
		return fmt.Sprintf("Stream<%s>", RenderType(*t.Element))
	case dftype.KindUser:
		return renderUserType(t)
	case dftype.KindZSet:
		return fmt.Sprintf("ZSetHashMap<%s, %s>", RenderType(*t.Element), RenderType(*t.Weight))
	default:
		return "/* unknown type */"
	}
}

func wrapOption(base string, nullable bool) string {
	if nullable {
		return fmt.Sprintf("Option<%s>", base)
	}
	return base
}

// renderTupleType renders a Tuple type. An arity-1 tuple is semantically
// identical to its sole element when emitted (spec.md §3 Type lattice
// note); every other arity renders as a Rust tuple literal type.
func renderTupleType(t dftype.Type) string {
	if len(t.Elements) == 1 {
		return RenderType(t.Elements[0])
	}
	parts := make([]string, len(t.Elements))
	for i, el := range t.Elements {
		parts[i] = RenderType(el)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func renderUserType(t dftype.Type) string {
	if len(t.Args) == 0 {
		return wrapOption(t.UserName, t.Nullable)
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = RenderType(a)
	}
	return wrapOption(fmt.Sprintf("%s<%s>", t.UserName, strings.Join(parts, ", ")), t.Nullable)
}
