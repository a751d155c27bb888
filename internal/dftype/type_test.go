package dftype

import (
	"errors"
	"testing"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

func TestSetNullableIdempotent(t *testing.T) {
	cases := []Type{
		Bool(false),
		SignedInt(32, false),
		Float(true),
		Double(false),
		String(true),
		Tuple(Bool(false), SignedInt(32, true)),
	}
	for _, tc := range cases {
		once := tc.SetNullable(true)
		twice := once.SetNullable(true)
		if !Same(once, twice) {
			t.Errorf("SetNullable not idempotent for %+v", tc)
		}
	}
}

func TestSetNullableNeverAffectsTuple(t *testing.T) {
	tup := Tuple(Bool(false))
	nullable := tup.SetNullable(true)
	if nullable.Nullable {
		t.Errorf("Tuple became nullable: %+v", nullable)
	}
}

func TestSameIgnoresNothingButStructure(t *testing.T) {
	a := Tuple(Bool(false), SignedInt(32, true))
	b := Tuple(Bool(false), SignedInt(32, true))
	if !Same(a, b) {
		t.Errorf("expected structurally equal tuples to be Same")
	}

	c := Tuple(Bool(false), SignedInt(64, true))
	if Same(a, c) {
		t.Errorf("expected tuples with different widths to differ")
	}
}

func TestConvertPrimitives(t *testing.T) {
	cases := []struct {
		name string
		in   SQLType
		want Type
	}{
		{"bool", SQLType{Kind: SQLBoolean, Nullable: true}, Bool(true)},
		{"tinyint", SQLType{Kind: SQLTinyInt, Nullable: true}, SignedInt(8, true)},
		{"smallint", SQLType{Kind: SQLSmallInt, Nullable: true}, SignedInt(16, true)},
		{"integer", SQLType{Kind: SQLInteger, Nullable: true}, SignedInt(32, true)},
		{"bigint", SQLType{Kind: SQLBigInt, Nullable: false}, SignedInt(64, false)},
		{"decimal", SQLType{Kind: SQLDecimal, Nullable: true}, SignedInt(64, true)},
		{"float", SQLType{Kind: SQLFloat, Nullable: true}, Float(true)},
		{"real", SQLType{Kind: SQLReal, Nullable: true}, Float(true)},
		{"double", SQLType{Kind: SQLDouble, Nullable: true}, Double(true)},
		{"char", SQLType{Kind: SQLChar, Nullable: true}, String(true)},
		{"varchar", SQLType{Kind: SQLVarchar, Nullable: false}, String(false)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Convert(tc.in)
			if err != nil {
				t.Fatalf("Convert(%v) error = %v", tc.in, err)
			}
			if !Same(got, tc.want) {
				t.Errorf("Convert(%v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestConvertStruct(t *testing.T) {
	in := SQLType{
		Kind: SQLStruct,
		Fields: []SQLField{
			{Name: "a", Type: SQLType{Kind: SQLInteger, Nullable: true}},
			{Name: "b", Type: SQLType{Kind: SQLBoolean, Nullable: false}},
		},
	}
	got, err := Convert(in)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := Tuple(SignedInt(32, true), Bool(false))
	if !Same(got, want) {
		t.Errorf("Convert(struct) = %+v, want %+v", got, want)
	}
	if got.Nullable {
		t.Errorf("struct-derived tuple must not be nullable")
	}
}

func TestConvertUnimplemented(t *testing.T) {
	_, err := Convert(SQLType{Kind: SQLInterval})
	var target *compilerr.Unimplemented
	if !errors.As(err, &target) {
		t.Fatalf("expected *compilerr.Unimplemented, got %v (%T)", err, err)
	}
}

func TestMakeZSetDefaultsWeight(t *testing.T) {
	z := MakeZSet(Bool(false))
	if z.Kind != KindZSet {
		t.Fatalf("expected KindZSet, got %v", z.Kind)
	}
	if z.Weight == nil || z.Weight.UserName != WeightTypeName {
		t.Errorf("expected default Weight type, got %+v", z.Weight)
	}
}

func TestFieldTypeOutOfRange(t *testing.T) {
	row := Tuple(Bool(false), SignedInt(32, true))
	_, err := FieldType(row, 5)
	var target *compilerr.IRInvariant
	if !errors.As(err, &target) {
		t.Fatalf("expected *compilerr.IRInvariant, got %v (%T)", err, err)
	}
}

func TestCanonicalDecimalText(t *testing.T) {
	got, err := CanonicalDecimalText("1.500")
	if err != nil {
		t.Fatalf("CanonicalDecimalText: %v", err)
	}
	if got != "1.5" {
		t.Errorf("CanonicalDecimalText(1.500) = %q, want 1.5", got)
	}
}
