// Package dftype is the type lattice: a pure mapping from SQL column types
// to dataflow types, each carrying a nullability bit that lifts any base
// type into an optional-carrying variant.
package dftype

import "github.com/electwix/dbcircuit/internal/compilerr"

// Kind tags the variant of a Type. Types are a closed tagged union rather
// than a class hierarchy (see REDESIGN FLAGS: deep inheritance over IR
// nodes) so that adding a variant is a switch-exhaustiveness compile error,
// not a missed override.
type Kind int

const (
	// KindBool is the boolean base type.
	KindBool Kind = iota
	// KindSignedInt is a signed integer base type of width 8/16/32/64.
	KindSignedInt
	// KindFloat is a 32-bit IEEE-754 float base type.
	KindFloat
	// KindDouble is a 64-bit IEEE-754 float base type.
	KindDouble
	// KindString is the string base type.
	KindString
	// KindTuple is an ordered, non-nullable product of element types.
	KindTuple
	// KindStruct is a named, non-nullable record of (field name, Type) pairs.
	KindStruct
	// KindStream is the element type of a dataflow stream; not
	// independently nullable.
	KindStream
	// KindUser is a generic named reference with ordered type arguments,
	// used for Z-set and opaque weight types.
	KindUser
	// KindZSet is a User specialization with a fixed name: a mapping from
	// a key-element Type to a weight Type.
	KindZSet
)

// Field is a named element of a Struct type.
type Field struct {
	Name string
	Type Type
}

// Type is a node in the dataflow type lattice. Every base type (Bool,
// SignedInt, Float, Double, String) carries a Nullable bit; Tuple and
// Struct are never directly nullable (setNullable is a no-op on their
// Nullable field by construction — callers never see a nullable Tuple).
type Type struct {
	Kind     Kind
	Nullable bool

	// Width is the bit width for KindSignedInt (8, 16, 32, or 64).
	Width int

	// Elements holds the ordered element types for KindTuple.
	Elements []Type

	// StructName names a KindStruct type.
	StructName string
	// Fields holds the ordered (name, Type) pairs for KindStruct; field
	// names are unique within a Struct.
	Fields []Field

	// Element is the wrapped element Type for KindStream and the
	// key-element Type for KindZSet.
	Element *Type

	// UserName names a KindUser (and, fixed, a KindZSet) type.
	UserName string
	// Args holds the ordered type arguments for KindUser.
	Args []Type
	// Weight is the weight Type for KindZSet.
	Weight *Type
}

// Bool constructs the boolean base type.
func Bool(nullable bool) Type { return Type{Kind: KindBool, Nullable: nullable} }

// SignedInt constructs a signed integer base type of the given width.
func SignedInt(width int, nullable bool) Type {
	return Type{Kind: KindSignedInt, Width: width, Nullable: nullable}
}

// Float constructs the 32-bit float base type.
func Float(nullable bool) Type { return Type{Kind: KindFloat, Nullable: nullable} }

// Double constructs the 64-bit float base type.
func Double(nullable bool) Type { return Type{Kind: KindDouble, Nullable: nullable} }

// String constructs the string base type.
func String(nullable bool) Type { return Type{Kind: KindString, Nullable: nullable} }

// Tuple constructs a non-nullable tuple over the given elements. Arity is
// len(elements); an arity-1 tuple is semantically identical to its sole
// element when emitted (see renderTupleType in dfir).
func Tuple(elements ...Type) Type {
	return Type{Kind: KindTuple, Elements: elements}
}

// Struct constructs a non-nullable struct with the given name and fields.
func Struct(name string, fields ...Field) Type {
	return Type{Kind: KindStruct, StructName: name, Fields: fields}
}

// Stream constructs a stream of the given element type.
func Stream(element Type) Type {
	return Type{Kind: KindStream, Element: &element}
}

// User constructs a generic named type reference with the given type
// arguments.
func User(name string, nullable bool, args ...Type) Type {
	return Type{Kind: KindUser, UserName: name, Nullable: nullable, Args: args}
}

// WeightTypeName is the opaque weight type supplied by the dataflow host
// (Weight = isize in the source, opaque to the IR).
const WeightTypeName = "Weight"

// ZSetTypeName is the fixed User specialization name for Z-sets.
const ZSetTypeName = "ZSet"

// weightType is the zero-value opaque Weight reference.
func weightType() Type { return Type{Kind: KindUser, UserName: WeightTypeName} }

// ZSet constructs a Z-set mapping the given key-element type to weight. A
// zero-value weight defaults to the opaque Weight type.
func ZSet(element Type, weight *Type) Type {
	w := weight
	if w == nil {
		wt := weightType()
		w = &wt
	}
	return Type{Kind: KindZSet, UserName: ZSetTypeName, Element: &element, Weight: w}
}

// MakeZSet returns ZSet(element, Weight) with the default opaque weight
// type, per spec.md §4.1's makeZSet helper.
func MakeZSet(element Type) Type {
	return ZSet(element, nil)
}

// SetNullable returns an equal-except-for-nullability copy of t. It is
// idempotent: SetNullable(SetNullable(t, b), b) == SetNullable(t, b).
// Tuple and Struct types ignore the request; they are never nullable.
func (t Type) SetNullable(nullable bool) Type {
	switch t.Kind {
	case KindTuple, KindStruct, KindStream:
		return t
	default:
		cp := t
		cp.Nullable = nullable
		return cp
	}
}

// IsNullable reports whether t carries the nullability bit.
func (t Type) IsNullable() bool { return t.Nullable }

// Same reports whether two types are structurally equal, ignoring origin
// (Type carries no origin field itself — origin lives on the IR node that
// wraps a Type, see dfir.Operator and dfexpr.Expression).
func Same(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBool, KindFloat, KindDouble, KindString:
		return a.Nullable == b.Nullable
	case KindSignedInt:
		return a.Nullable == b.Nullable && a.Width == b.Width
	case KindTuple:
		return sameTypeSlice(a.Elements, b.Elements)
	case KindStruct:
		if a.StructName != b.StructName || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Same(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindStream:
		return Same(*a.Element, *b.Element)
	case KindUser:
		return a.UserName == b.UserName && a.Nullable == b.Nullable && sameTypeSlice(a.Args, b.Args)
	case KindZSet:
		return Same(*a.Element, *b.Element) && Same(*a.Weight, *b.Weight)
	default:
		return false
	}
}

func sameTypeSlice(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}

// FieldType returns the Type of the field at index in a Tuple type, raising
// IRInvariant if the index is outside the tuple's arity. Used by
// dfexpr.FieldExpression construction to validate a column reference
// against the row's shape.
func FieldType(row Type, index int) (Type, error) {
	if row.Kind != KindTuple {
		return Type{}, compilerr.NewIRInvariantf("dftype", "field access on non-tuple row type %v", row.Kind)
	}
	if index < 0 || index >= len(row.Elements) {
		return Type{}, compilerr.NewIRInvariantf("dftype", "field index %d out of range [0,%d)", index, len(row.Elements))
	}
	return row.Elements[index], nil
}
