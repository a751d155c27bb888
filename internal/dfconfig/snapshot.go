package dfconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/electwix/dbcircuit/internal/catalog"
	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// ColumnSnapshot is one column of a frozen table fixture. Type names the
// dataflow base type directly (bool, int8, int16, int32, int64, float,
// double, string) rather than a SQL keyword: a snapshot is a fixture for
// internal/lower and internal/dfir golden tests, not another SQL surface,
// so it names the type the core actually sees.
type ColumnSnapshot struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}

// TableSnapshot is one frozen table fixture.
type TableSnapshot struct {
	Name    string           `yaml:"name"`
	Columns []ColumnSnapshot `yaml:"columns"`
}

// CatalogSnapshot is a frozen catalog fixture loaded from YAML, the way the
// teacher's sqlc-compatibility config loads YAML-shaped fixtures for
// compatibility testing.
type CatalogSnapshot struct {
	Tables []TableSnapshot `yaml:"tables"`
}

// LoadCatalogSnapshot reads and parses a catalog snapshot file.
func LoadCatalogSnapshot(path string) (*CatalogSnapshot, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("dfconfig: read snapshot %s: %w", path, err)
	}
	var snap CatalogSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("dfconfig: parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// ToTables converts the snapshot into catalog.Table values, resolving each
// column's Type field through the same type lattice the rest of the
// compiler uses.
func (s *CatalogSnapshot) ToTables() ([]*catalog.Table, error) {
	tables := make([]*catalog.Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		table := &catalog.Table{Name: t.Name}
		for _, col := range t.Columns {
			colType, err := snapshotColumnType(col.Type, col.Nullable)
			if err != nil {
				return nil, err
			}
			table.Columns = append(table.Columns, col.Name)
			table.Types = append(table.Types, colType)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func snapshotColumnType(name string, nullable bool) (dftype.Type, error) {
	switch name {
	case "bool":
		return dftype.Bool(nullable), nil
	case "int8":
		return dftype.SignedInt(8, nullable), nil
	case "int16":
		return dftype.SignedInt(16, nullable), nil
	case "int32":
		return dftype.SignedInt(32, nullable), nil
	case "int64":
		return dftype.SignedInt(64, nullable), nil
	case "float":
		return dftype.Float(nullable), nil
	case "double":
		return dftype.Double(nullable), nil
	case "string":
		return dftype.String(nullable), nil
	default:
		return dftype.Type{}, compilerr.NewUnimplemented("dfconfig", "snapshot column type "+name, name)
	}
}
