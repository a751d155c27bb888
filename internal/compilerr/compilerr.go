// Package compilerr defines the taxonomic error kinds raised by the
// SQL-to-circuit compiler: Unimplemented, UnsupportedConstruct, and
// IRInvariant. Every error propagates to the outermost compile-unit
// boundary; none is recovered inside the core.
package compilerr

import "fmt"

// Unimplemented marks a construct the compiler recognizes but does not
// lower: most SQL types beyond the primitives, most call kinds beyond
// arithmetic/comparison/logical/bitwise, aggregates, joins, CAST/FLOOR/CEIL.
type Unimplemented struct {
	// Source names the subsystem that raised the error (e.g. "dftype",
	// "dfexpr", "lower").
	Source string
	// Construct names the offending construct (a type name, call kind,
	// relational node kind, ...).
	Construct string
	// Node carries the offending node for diagnostics, opaque to callers
	// that only want the message.
	Node any
}

func (e *Unimplemented) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unimplemented: %s", e.Construct)
	}
	return fmt.Sprintf("%s: unimplemented: %s", e.Source, e.Construct)
}

// NewUnimplemented builds an Unimplemented error.
func NewUnimplemented(source, construct string, node any) error {
	return &Unimplemented{Source: source, Construct: construct, Node: node}
}

// UnsupportedConstruct marks a construct the compiler explicitly rejects:
// top-level ORDER BY in a view. Non-column projection targets are reported
// as Unimplemented instead.
type UnsupportedConstruct struct {
	Source    string
	Construct string
	Node      any
}

func (e *UnsupportedConstruct) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unsupported construct: %s", e.Construct)
	}
	return fmt.Sprintf("%s: unsupported construct: %s", e.Source, e.Construct)
}

// NewUnsupportedConstruct builds an UnsupportedConstruct error.
func NewUnsupportedConstruct(source, construct string, node any) error {
	return &UnsupportedConstruct{Source: source, Construct: construct, Node: node}
}

// IRInvariant marks an assertion failure: a null operand, a wrong operand
// arity, a duplicate key in a uniqueness-carrying map, an invalid field
// index, a negative indent, a missing operator for a relational node.
// IRInvariant errors mark programmer errors, not input errors.
type IRInvariant struct {
	Source string
	Reason string
}

func (e *IRInvariant) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invariant violated: %s", e.Reason)
	}
	return fmt.Sprintf("%s: invariant violated: %s", e.Source, e.Reason)
}

// NewIRInvariant builds an IRInvariant error.
func NewIRInvariant(source, reason string) error {
	return &IRInvariant{Source: source, Reason: reason}
}

// NewIRInvariantf builds an IRInvariant error with a formatted reason.
func NewIRInvariantf(source, format string, args ...any) error {
	return &IRInvariant{Source: source, Reason: fmt.Sprintf(format, args...)}
}
