// Package sqlfront is this repository's concrete stand-in for the SQL front
// end spec.md §1 declares external: it parses CREATE TABLE / CREATE VIEW
// statements and produces the already-validated relational tree and DDL
// descriptors the core (internal/lower) consumes. It is built with
// github.com/alecthomas/participle/v2, mirroring the teacher's own SQL and
// GraphQL dialect parsers (internal/parser/dialects, internal/parser/
// languages/graphql).
package sqlfront

import (
	"github.com/google/uuid"

	"github.com/electwix/dbcircuit/internal/dfexpr"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// NodeID identifies a relational-tree node, minted once per node and never
// reused; it doubles as the key internal/lower registers the node's operator
// under (spec.md §3, §4.4).
type NodeID = string

// RelKind tags the variant of a RelNode, mirroring spec.md §2's five
// relational node kinds.
type RelKind int

const (
	// KindTableScan reads rows from a previously declared table.
	KindTableScan RelKind = iota
	// KindProject selects and reorders columns; the projection list must be
	// pure column references (spec.md §4.4).
	KindProject
	// KindFilter keeps rows where a predicate holds.
	KindFilter
	// KindUnion is a multiset union of two or more branches.
	KindUnion
	// KindMinus is a multiset difference: the first branch minus the rest.
	KindMinus
)

// RelNode is a node in the relational tree the lowering visitor walks. It is
// a tagged union (RelKind selects which fields are populated) rather than a
// type hierarchy, matching the rest of this repository's IR shapes.
type RelNode struct {
	ID     NodeID
	Kind   RelKind
	Origin *uuid.UUID

	// TableName / RowType are populated for KindTableScan. RowType is the
	// table's row type as resolved from the catalog at parse time — the
	// one place this front end carries a row type directly, since every
	// other node's row type is recoverable from its lowered operator.
	TableName string
	RowType   dftype.Type

	// Projection is populated for KindProject: one RelColumn entry per
	// selected output column, in output order.
	Projection []*dfexpr.RelExpr

	// Predicate is populated for KindFilter.
	Predicate *dfexpr.RelExpr

	// All is populated for KindUnion/KindMinus: true for UNION ALL / EXCEPT
	// ALL, false when the bag result must additionally be deduplicated.
	All bool

	// Children holds the node's operands: one for Project/Filter, two or
	// more for Union/Minus, none for TableScan.
	Children []*RelNode
}

func newRelNode(kind RelKind) *RelNode {
	id := uuid.New()
	return &RelNode{ID: id.String(), Kind: kind, Origin: &id}
}
