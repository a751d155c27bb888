package dfir

import (
	"strconv"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

// Namer allocates fresh, collision-free operator output-binding names,
// scoped to one Circuit. Grounded on the teacher's
// internal/codegen/ast.UniqueName — suffix-increment on collision — scaled
// down to the one circuit-wide namespace this IR needs instead of a
// Go-identifier export/unexport distinction.
type Namer struct {
	used map[string]int
}

// NewNamer returns an empty Namer.
func NewNamer() *Namer {
	return &Namer{used: make(map[string]int)}
}

// Fresh returns a name starting from base, suffixing with an increasing
// integer until the result has not been seen before.
func (n *Namer) Fresh(base string) string {
	if base == "" {
		base = "op"
	}
	if _, exists := n.used[base]; !exists {
		n.used[base] = 1
		return base
	}
	for i := n.used[base] + 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		if _, exists := n.used[candidate]; !exists {
			n.used[base] = i
			n.used[candidate] = 1
			return candidate
		}
	}
}

// Claim reserves an explicit name, failing if it was already allocated.
func (n *Namer) Claim(name string) error {
	if _, exists := n.used[name]; exists {
		return compilerr.NewIRInvariantf("dfir", "duplicate output binding name %q", name)
	}
	n.used[name] = 1
	return nil
}
