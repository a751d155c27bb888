// Package compiler is the top-level orchestrator implementing spec.md §6's
// external interfaces: compile one statement at a time, accumulate a
// catalog and a single dfir.Circuit, and emit the circuit as text.
package compiler

import (
	"log/slog"

	"github.com/electwix/dbcircuit/internal/catalog"
	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfconfig"
	"github.com/electwix/dbcircuit/internal/dfir"
	"github.com/electwix/dbcircuit/internal/dftype"
	"github.com/electwix/dbcircuit/internal/lower"
	"github.com/electwix/dbcircuit/internal/sqlfront"
)

// Program is the two ordered lists spec.md §6's getProgram returns: every
// table and view declared so far, in declaration order.
type Program struct {
	Tables []*catalog.Table
	Views  []*catalog.View
}

// Compiler accepts one statement at a time (Compile), updating its catalog
// and a single dfir.Circuit, and can emit that circuit as text (Emit) once
// every view has been declared. One Compiler handles exactly one
// compilation unit; it is not safe to reuse concurrently (spec.md §5).
type Compiler struct {
	config  dfconfig.Config
	logger  *slog.Logger
	parser  *sqlfront.Parser
	sim     *catalog.Simulator
	catalog *catalog.Catalog
	circuit *dfir.Circuit
	visitor *lower.Visitor
}

// New constructs a Compiler, opening its own private DDL simulator
// connection.
func New(cfg dfconfig.Config, logger *slog.Logger) (*Compiler, error) {
	parser, err := sqlfront.New()
	if err != nil {
		return nil, err
	}
	sim, err := catalog.NewSimulator()
	if err != nil {
		return nil, err
	}
	circuit := dfir.NewCircuit(cfg.PackageName)
	circuit.WeightAlias = cfg.WeightAlias
	return &Compiler{
		config:  cfg,
		logger:  logger,
		parser:  parser,
		sim:     sim,
		catalog: catalog.New(),
		circuit: circuit,
		visitor: lower.New(circuit, cfg.StrictNullChecking),
	}, nil
}

// Close releases the compiler's DDL simulator connection.
func (c *Compiler) Close() error {
	return c.sim.Close()
}

// Compile accepts one statement. A table DDL updates the catalog and
// registers a Source; a view DDL lowers its relational root and registers
// a Sink; any other statement is rejected with Unimplemented (spec.md §6).
func (c *Compiler) Compile(stmt string) error {
	decl, err := c.parser.Parse(stmt, c.catalog)
	if err != nil {
		return err
	}

	switch d := decl.(type) {
	case *sqlfront.TableDecl:
		return c.compileTable(d)
	case *sqlfront.ViewDecl:
		return c.compileView(d)
	default:
		return compilerr.NewIRInvariantf("compiler", "unrecognized declaration type %T", decl)
	}
}

func (c *Compiler) compileTable(decl *sqlfront.TableDecl) error {
	table, err := c.sim.Execute(decl)
	if err != nil {
		return err
	}
	if err := c.catalog.AddTable(table); err != nil {
		return err
	}
	rowType := dftype.Tuple(table.Types...)
	if _, err := c.visitor.DeclareTable(nil, table.Name, rowType); err != nil {
		return err
	}
	c.logger.Debug("declared table", "name", table.Name, "columns", len(table.Columns))
	return nil
}

func (c *Compiler) compileView(decl *sqlfront.ViewDecl) error {
	if err := c.catalog.AddView(&catalog.View{Name: decl.Name, Root: decl.Root}); err != nil {
		return err
	}
	if _, err := c.visitor.DeclareView(decl.Root.Origin, decl.Name, decl.Root); err != nil {
		return err
	}
	c.logger.Debug("lowered view", "name", decl.Name)
	return nil
}

// GetProgram returns every table and view declared so far, in declaration
// order (spec.md §6's getProgram).
func (c *Compiler) GetProgram() Program {
	return Program{Tables: c.catalog.Tables(), Views: c.catalog.Views()}
}

// Emit renders the accumulated circuit as Rust-shaped source (spec.md
// §4.5).
func (c *Compiler) Emit() (string, error) {
	out, err := c.circuit.Emit()
	if err != nil {
		return "", err
	}
	c.logger.Info("emitted circuit", "name", c.circuit.Name,
		"sources", len(c.circuit.Sources), "sinks", len(c.circuit.Sinks))
	return out, nil
}
