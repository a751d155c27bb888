package dfconfig

import (
	"path/filepath"
	"testing"

	"github.com/electwix/dbcircuit/internal/dftype"
)

func TestLoadCatalogSnapshotAndConvert(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.yaml", `
tables:
  - name: T
    columns:
      - name: COL1
        type: int32
        nullable: true
      - name: COL2
        type: float
        nullable: true
      - name: COL3
        type: bool
        nullable: true
`)
	snap, err := LoadCatalogSnapshot(path)
	if err != nil {
		t.Fatalf("LoadCatalogSnapshot: %v", err)
	}
	if len(snap.Tables) != 1 || snap.Tables[0].Name != "T" {
		t.Fatalf("expected one table T, got %+v", snap.Tables)
	}

	tables, err := snap.ToTables()
	if err != nil {
		t.Fatalf("ToTables: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected one table, got %d", len(tables))
	}
	table := tables[0]
	wantColumns := []string{"COL1", "COL2", "COL3"}
	for i, want := range wantColumns {
		if table.Columns[i] != want {
			t.Errorf("column %d: expected %q, got %q", i, want, table.Columns[i])
		}
	}
	wantTypes := []dftype.Type{
		dftype.SignedInt(32, true),
		dftype.Float(true),
		dftype.Bool(true),
	}
	for i, want := range wantTypes {
		if !dftype.Same(table.Types[i], want) {
			t.Errorf("column %d: expected type %+v, got %+v", i, want, table.Types[i])
		}
	}
}

func TestSnapshotColumnTypeUnknown(t *testing.T) {
	_, err := snapshotColumnType("decimal128", false)
	if err == nil {
		t.Fatal("expected an error for an unrecognized snapshot column type")
	}
}

func TestLoadCatalogSnapshotMissingFile(t *testing.T) {
	if _, err := LoadCatalogSnapshot(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing snapshot file")
	}
}
