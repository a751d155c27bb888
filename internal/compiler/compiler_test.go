package compiler_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/electwix/dbcircuit/internal/compiler"
	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfconfig"
	"github.com/electwix/dbcircuit/internal/logging"
)

func newCompiler(t *testing.T) *compiler.Compiler {
	t.Helper()
	logger := logging.New(logging.Options{Writer: io.Discard})
	c, err := compiler.New(dfconfig.Default(), logger)
	if err != nil {
		t.Fatalf("compiler.New: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

const tableT = `CREATE TABLE T (COL1 INT, COL2 FLOAT, COL3 BOOLEAN)`

// TestSchemaOnlyPopulatesCatalogWithNoCircuit is spec.md §8's S1: a lone
// CREATE TABLE populates the catalog and declares a Source, but nothing
// has been emitted as a view yet.
func TestSchemaOnlyPopulatesCatalogWithNoCircuit(t *testing.T) {
	c := newCompiler(t)
	if err := c.Compile(tableT); err != nil {
		t.Fatalf("Compile table: %v", err)
	}

	program := c.GetProgram()
	if len(program.Tables) != 1 || program.Tables[0].Name != "T" {
		t.Fatalf("expected one table T, got %+v", program.Tables)
	}
	if len(program.Views) != 0 {
		t.Fatalf("expected no views yet, got %+v", program.Views)
	}
	wantColumns := []string{"COL1", "COL2", "COL3"}
	for i, want := range wantColumns {
		if program.Tables[0].Columns[i] != want {
			t.Errorf("column %d: expected %q, got %q", i, want, program.Tables[0].Columns[i])
		}
	}

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Contains(out, ".inspect(") {
		t.Errorf("expected no sink in a schema-only circuit, got:\n%s", out)
	}
}

// TestProjectScenarioEmitsProjectDistinctSink is spec.md §8's S2.
func TestProjectScenarioEmitsProjectDistinctSink(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)
	mustCompile(t, c, `CREATE VIEW V AS SELECT T.COL3 FROM T`)

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, want := range []string{".add_source(", ".map_keys(", ".distinct()", ".inspect("} {
		if !strings.Contains(out, want) {
			t.Errorf("expected emitted circuit to contain %q, got:\n%s", want, out)
		}
	}
}

// TestUnionAllScenarioHasNoDistinct is spec.md §8's S3.
func TestUnionAllScenarioHasNoDistinct(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)
	mustCompile(t, c, `CREATE VIEW V AS (SELECT * FROM T) UNION ALL (SELECT * FROM T)`)

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, ".sum(") {
		t.Errorf("expected a sum() call, got:\n%s", out)
	}
	if strings.Contains(out, ".distinct()") {
		t.Errorf("expected no distinct() in a UNION ALL circuit, got:\n%s", out)
	}
}

// TestUnionSetScenarioFollowsSumWithDistinct is spec.md §8's S4.
func TestUnionSetScenarioFollowsSumWithDistinct(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)
	mustCompile(t, c, `CREATE VIEW V AS (SELECT * FROM T) UNION (SELECT * FROM T)`)

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, want := range []string{".sum(", ".distinct()"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected emitted circuit to contain %q, got:\n%s", want, out)
		}
	}
}

// TestWhereScenarioEmitsFilter is spec.md §8's S5.
func TestWhereScenarioEmitsFilter(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)
	mustCompile(t, c, `CREATE VIEW V AS SELECT * FROM T WHERE COL3`)

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, ".filter_keys(") {
		t.Errorf("expected a filter_keys() call, got:\n%s", out)
	}
}

// TestExceptScenarioEmitsNegateSumDistinct is spec.md §8's S6.
func TestExceptScenarioEmitsNegateSumDistinct(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)
	mustCompile(t, c, `CREATE VIEW V AS SELECT * FROM T EXCEPT (SELECT * FROM T WHERE COL3)`)

	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	for _, want := range []string{".filter_keys(", ".neg()", ".sum(", ".distinct()"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected emitted circuit to contain %q, got:\n%s", want, out)
		}
	}
}

// TestOrderByIsRejectedWithNoPartialCircuit is spec.md §8's S7: a top-level
// ORDER BY raises UnsupportedConstruct and leaves no trace of the failed
// view in the circuit.
func TestOrderByIsRejectedWithNoPartialCircuit(t *testing.T) {
	c := newCompiler(t)
	mustCompile(t, c, tableT)

	err := c.Compile(`CREATE VIEW V AS SELECT * FROM T ORDER BY COL1`)
	var unsupported *compilerr.UnsupportedConstruct
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *compilerr.UnsupportedConstruct, got %v", err)
	}

	program := c.GetProgram()
	if len(program.Views) != 0 {
		t.Fatalf("expected no view to have been registered, got %+v", program.Views)
	}
}

// TestConfiguredWeightAliasReachesEmittedCircuit confirms
// dfconfig.Config.WeightAlias is threaded all the way from configuration
// through to the emitted Weight type alias, not just validated in
// isolation.
func TestConfiguredWeightAliasReachesEmittedCircuit(t *testing.T) {
	cfg := dfconfig.Default()
	cfg.WeightAlias = "i128"
	logger := logging.New(logging.Options{Writer: io.Discard})
	c, err := compiler.New(cfg, logger)
	if err != nil {
		t.Fatalf("compiler.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	mustCompile(t, c, tableT)
	out, err := c.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(out, "type Weight = i128;") {
		t.Errorf("expected the configured weight alias i128 in the emitted circuit, got:\n%s", out)
	}
}

// TestNonDDLStatementIsUnimplemented confirms spec.md §6's catch-all.
func TestNonDDLStatementIsUnimplemented(t *testing.T) {
	c := newCompiler(t)
	err := c.Compile(`INSERT INTO T VALUES (1, 2.0, TRUE)`)
	var unimplemented *compilerr.Unimplemented
	if !errors.As(err, &unimplemented) {
		t.Fatalf("expected *compilerr.Unimplemented, got %v", err)
	}
}

func mustCompile(t *testing.T, c *compiler.Compiler, stmt string) {
	t.Helper()
	if err := c.Compile(stmt); err != nil {
		t.Fatalf("Compile(%q): %v", stmt, err)
	}
}
