// Package catalog is the DDL catalog (spec.md GLOSSARY): it accumulates the
// tables and views a compilation unit has declared, in declaration order,
// and answers the column-shape questions internal/sqlfront needs to resolve
// a query's column references.
package catalog

import (
	"strings"

	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dftype"
	"github.com/electwix/dbcircuit/internal/sqlfront"
)

// Table is one declared table: its name and ordered, typed columns, as
// resolved by Simulator from a real SQLite execution.
type Table struct {
	Name    string
	Columns []string
	Types   []dftype.Type
}

// View is one declared view: its name and validated relational root.
type View struct {
	Name string
	Root *sqlfront.RelNode
}

// Catalog holds every table and view declared so far, each keyed by name
// with putNew semantics (spec.md §5: no two handlers write the same
// logical key) and also kept in an ordered slice for getProgram-style
// enumeration (spec.md §6).
type Catalog struct {
	tables     []*Table
	tableIndex map[string]*Table
	views      []*View
	viewIndex  map[string]*View
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		tableIndex: make(map[string]*Table),
		viewIndex:  make(map[string]*View),
	}
}

// AddTable registers t, failing if its name is already declared.
func (c *Catalog) AddTable(t *Table) error {
	key := strings.ToUpper(t.Name)
	if _, exists := c.tableIndex[key]; exists {
		return compilerr.NewIRInvariantf("catalog", "table %q already declared", t.Name)
	}
	c.tableIndex[key] = t
	c.tables = append(c.tables, t)
	return nil
}

// AddView registers v, failing if its name is already declared.
func (c *Catalog) AddView(v *View) error {
	key := strings.ToUpper(v.Name)
	if _, exists := c.viewIndex[key]; exists {
		return compilerr.NewIRInvariantf("catalog", "view %q already declared", v.Name)
	}
	c.viewIndex[key] = v
	c.views = append(c.views, v)
	return nil
}

// Tables returns every declared table, in declaration order.
func (c *Catalog) Tables() []*Table { return c.tables }

// Views returns every declared view, in declaration order.
func (c *Catalog) Views() []*View { return c.views }

// LookupTable implements sqlfront.SchemaLookup, resolving a table name
// case-insensitively to its ordered column names and types.
func (c *Catalog) LookupTable(name string) (columns []string, types []dftype.Type, ok bool) {
	t, exists := c.tableIndex[strings.ToUpper(name)]
	if !exists {
		return nil, nil, false
	}
	return t.Columns, t.Types, true
}
