package dftype

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

// SQLKind tags the shape of a validated SQL type descriptor, as handed down
// by the (out-of-scope) SQL front end / DDL catalog.
type SQLKind int

const (
	SQLBoolean SQLKind = iota
	SQLTinyInt
	SQLSmallInt
	SQLInteger
	SQLBigInt
	SQLDecimal
	SQLFloat
	SQLReal
	SQLDouble
	SQLChar
	SQLVarchar
	SQLStruct

	// Unimplemented SQL shapes, named for diagnostics.
	SQLBinary
	SQLTemporal
	SQLInterval
	SQLArray
	SQLMap
	SQLRow
	SQLCursor
	SQLGeometry
	SQLSarg
)

func (k SQLKind) String() string {
	switch k {
	case SQLBoolean:
		return "BOOLEAN"
	case SQLTinyInt:
		return "TINYINT"
	case SQLSmallInt:
		return "SMALLINT"
	case SQLInteger:
		return "INTEGER"
	case SQLBigInt:
		return "BIGINT"
	case SQLDecimal:
		return "DECIMAL"
	case SQLFloat:
		return "FLOAT"
	case SQLReal:
		return "REAL"
	case SQLDouble:
		return "DOUBLE"
	case SQLChar:
		return "CHAR"
	case SQLVarchar:
		return "VARCHAR"
	case SQLStruct:
		return "ROW"
	case SQLBinary:
		return "BINARY"
	case SQLTemporal:
		return "TEMPORAL"
	case SQLInterval:
		return "INTERVAL"
	case SQLArray:
		return "ARRAY"
	case SQLMap:
		return "MAP"
	case SQLRow:
		return "CURSOR-ROW"
	case SQLCursor:
		return "CURSOR"
	case SQLGeometry:
		return "GEOMETRY"
	case SQLSarg:
		return "SARG"
	default:
		return fmt.Sprintf("SQLKind(%d)", int(k))
	}
}

// SQLField names one field of a SQLStruct descriptor.
type SQLField struct {
	Name string
	Type SQLType
}

// SQLType is a validated SQL type descriptor: the input to Convert.
type SQLType struct {
	Kind     SQLKind
	Nullable bool
	// Fields holds the recursively-typed field list for SQLStruct.
	Fields []SQLField
}

// Convert is the pure function from a validated SQL type descriptor to a
// dataflow Type (spec.md §4.1). A struct SQL type lowers to a non-nullable
// Tuple of its recursively converted field types; every other unlisted SQL
// shape raises Unimplemented.
func Convert(t SQLType) (Type, error) {
	switch t.Kind {
	case SQLStruct:
		elements := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			el, err := Convert(f.Type)
			if err != nil {
				return Type{}, err
			}
			elements[i] = el
		}
		return Tuple(elements...), nil
	case SQLBoolean:
		return Bool(t.Nullable), nil
	case SQLTinyInt:
		return SignedInt(8, t.Nullable), nil
	case SQLSmallInt:
		return SignedInt(16, t.Nullable), nil
	case SQLInteger:
		return SignedInt(32, t.Nullable), nil
	case SQLBigInt:
		return SignedInt(64, t.Nullable), nil
	case SQLDecimal:
		// DECIMAL -> SignedInt(64), discarding scale. Preserved verbatim
		// from the source (see DESIGN.md Open Question); the literal
		// compiler still canonicalizes the textual value via
		// shopspring/decimal so literals round-trip exactly even though
		// the *type* loses precision here.
		return SignedInt(64, t.Nullable), nil
	case SQLFloat, SQLReal:
		return Float(t.Nullable), nil
	case SQLDouble:
		return Double(t.Nullable), nil
	case SQLChar, SQLVarchar:
		return String(t.Nullable), nil
	default:
		return Type{}, compilerr.NewUnimplemented("dftype", t.Kind.String(), t)
	}
}

// CanonicalDecimalText renders a numeric literal's text through
// shopspring/decimal so that equivalent literals (e.g. "1.500" and "1.5")
// produce an identical Expression IR rendering.
func CanonicalDecimalText(raw string) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize decimal literal %q: %w", raw, err)
	}
	return d.String(), nil
}
