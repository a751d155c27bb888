// Package dfconfig loads the compiler's TOML configuration file: the
// emitted module's package name, the Weight type alias, the
// strict-null-checking escape hatch (DESIGN.md's Open Question decision),
// and which SQLite driver backs the DDL simulator. Mirrors the teacher's
// internal/config Driver/Language/Database enum-and-validate pattern,
// trimmed to the one dialect axis this compiler actually varies (the
// simulator's driver).
package dfconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

// Driver identifies the SQLite driver implementation internal/catalog's
// Simulator should open.
type Driver string

const (
	// DriverModernC targets modernc.org/sqlite, the only driver this
	// repository currently wires.
	DriverModernC Driver = "modernc"
)

var validDrivers = map[Driver]struct{}{
	DriverModernC: {},
}

// Config is the compiler's resolved, validated configuration.
type Config struct {
	// PackageName names the emitted circuit (rendered into the
	// build_circuit function's doc comment).
	PackageName string `toml:"package_name"`
	// WeightAlias is the concrete Rust type backing the opaque Weight type
	// (spec.md §9 Design Note); "i64" by default.
	WeightAlias string `toml:"weight_alias"`
	// StrictNullChecking, when true, makes IS TRUE / IS NOT FALSE raise
	// Unimplemented instead of collapsing to the operand (dfexpr.Compiler's
	// escape hatch for the known nullable-boolean bug).
	StrictNullChecking bool `toml:"strict_null_checking"`
	// Driver selects the SQLite driver internal/catalog.Simulator opens.
	Driver Driver `toml:"driver"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		PackageName: "circuit",
		WeightAlias: "i64",
		Driver:      DriverModernC,
	}
}

// Load reads, parses, and validates a TOML configuration file, starting
// from Default() so every field a document omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("dfconfig: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("dfconfig: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PackageName == "" {
		return compilerr.NewIRInvariant("dfconfig", "package_name must not be empty")
	}
	if c.WeightAlias == "" {
		return compilerr.NewIRInvariant("dfconfig", "weight_alias must not be empty")
	}
	if _, ok := validDrivers[c.Driver]; !ok {
		return compilerr.NewUnimplemented("dfconfig", "SQLite driver "+string(c.Driver), c.Driver)
	}
	return nil
}
