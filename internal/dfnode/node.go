// Package dfnode provides the shared bookkeeping every IR node carries: an
// opaque, nullable back-reference to the front-end node that produced it
// (used for diagnostics) and a dense numeric id allocated from a monotonic
// counter on creation (used to generate stable variable names at emission
// time).
package dfnode

import "github.com/google/uuid"

// Counter is a monotonic id generator. One Counter is owned per compilation
// unit (spec.md §5: "the operator-id generator (monotonic counter)" is one
// of the resources mutated in a well-defined order within a single
// compilation); it must never be shared across compilation units.
type Counter struct {
	next uint64
}

// NewCounter returns a Counter starting at zero.
func NewCounter() *Counter { return &Counter{} }

// Next returns the next id and advances the counter.
func (c *Counter) Next() uint64 {
	id := c.next
	c.next++
	return id
}

// Base is embedded by every IR node (Type lattice excluded — types are pure
// values with no identity of their own; Expression and Operator nodes carry
// a Base).
type Base struct {
	// Origin is an opaque, nullable back-reference to the front-end node
	// that produced this IR node. A nil Origin is valid: not every IR node
	// traces back to a single front-end token (e.g. a synthesized Distinct
	// operator has no direct SQL counterpart).
	Origin *uuid.UUID
	// ID is this node's dense numeric id, allocated from a shared Counter.
	ID uint64
}

// NewBase allocates a Base from the given counter and origin.
func NewBase(counter *Counter, origin *uuid.UUID) Base {
	return Base{Origin: origin, ID: counter.Next()}
}
