package lower

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/electwix/dbcircuit/internal/catalog"
	"github.com/electwix/dbcircuit/internal/dfconfig"
	"github.com/electwix/dbcircuit/internal/dfir"
	"github.com/electwix/dbcircuit/internal/dftype"
)

var update = flag.Bool("update", false, "update golden files")

// TestLowerAndEmitAgainstCatalogSnapshotGolden loads a dfconfig catalog
// snapshot, declares its tables against a lowering Visitor, lowers a view
// over it, and diffs the emitted circuit against a golden fixture — the
// use case dfconfig.CatalogSnapshot exists for (frozen schema fixtures,
// golden-tested independently of internal/catalog's SQLite simulator).
// Mirrors the teacher's internal/pipeline/e2e_test.go -update flag and
// comparison shape, scaled down to one emitted file instead of a directory.
func TestLowerAndEmitAgainstCatalogSnapshotGolden(t *testing.T) {
	snap, err := dfconfig.LoadCatalogSnapshot(filepath.Join("testdata", "golden_catalog.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalogSnapshot: %v", err)
	}
	tables, err := snap.ToTables()
	if err != nil {
		t.Fatalf("ToTables: %v", err)
	}

	cat := catalog.New()
	circuit := dfir.NewCircuit("golden_project_view")
	v := New(circuit, false)
	for _, table := range tables {
		if err := cat.AddTable(table); err != nil {
			t.Fatalf("AddTable(%s): %v", table.Name, err)
		}
		if _, err := v.DeclareTable(nil, table.Name, dftype.Tuple(table.Types...)); err != nil {
			t.Fatalf("DeclareTable(%s): %v", table.Name, err)
		}
	}

	root := viewRoot(t, "CREATE VIEW V AS SELECT T.COL1, T.COL3 FROM T", cat)
	if _, err := v.DeclareView(nil, "V", root); err != nil {
		t.Fatalf("DeclareView: %v", err)
	}

	out, err := circuit.Emit()
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}

	goldenPath := filepath.Join("testdata", "golden_circuit.rs.golden")
	if *update {
		if err := os.WriteFile(goldenPath, []byte(out), 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if diff := cmp.Diff(string(want), out); diff != "" {
		t.Errorf("emitted circuit does not match golden (-want +got):\n%s", diff)
	}
}
