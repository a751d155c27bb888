package compilerr

import (
	"errors"
	"testing"
)

func TestUnimplementedAs(t *testing.T) {
	err := NewUnimplemented("dftype", "INTERVAL", nil)

	var target *Unimplemented
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed to match *Unimplemented")
	}
	if target.Construct != "INTERVAL" {
		t.Errorf("Construct = %q, want INTERVAL", target.Construct)
	}
	if got, want := err.Error(), "dftype: unimplemented: INTERVAL"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnsupportedConstructAs(t *testing.T) {
	err := NewUnsupportedConstruct("sqlfront", "ORDER BY", nil)

	var target *UnsupportedConstruct
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed to match *UnsupportedConstruct")
	}
	if got, want := err.Error(), "sqlfront: unsupported construct: ORDER BY"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIRInvariantf(t *testing.T) {
	err := NewIRInvariantf("dfexpr", "field index %d out of range [0,%d)", 3, 2)

	var target *IRInvariant
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed to match *IRInvariant")
	}
	want := "dfexpr: invariant violated: field index 3 out of range [0,2)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
