package dfir

import (
	"strings"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

// defaultWeightRustType is the representation backing the opaque Weight
// type when Circuit.WeightAlias is unset (spec.md's "Weight" is
// host-opaque; the dataflow host this compiler targets represents it as a
// 64-bit signed integer by default, mirroring the DECIMAL -> SignedInt(64)
// convention dftype.Convert already uses). dfconfig.Config.WeightAlias lets
// a caller override it, e.g. to widen it to "i128".
const defaultWeightRustType = "i64"

// endpoint is one row of template data for a Source or Sink binding.
type endpoint struct {
	Name     string // the field name on the Inputs/Outputs struct
	CellName string
	RustType string
}

// circuitData is the full set of values the circuit.tmpl template needs.
type circuitData struct {
	CircuitName   string
	WeightType    string
	Sources       []endpoint
	Sinks         []endpoint
	OperatorLines []string
}

// Emit renders the circuit as dataflow-host source text, in the five parts
// spec.md §4.5 requires: preamble and imports, the generator function
// signature, per-endpoint mutable cells, the build call assembling every
// operator in circuit-assembly order, and a driver closure that feeds
// Inputs in and reads Outputs back out. Grounded on the teacher's
// internal/codegen/rust.Generator's ParseFS + template.Execute pattern,
// scaled down to one embedded template instead of per-dialect variants.
func (c *Circuit) Emit() (string, error) {
	weightType := c.WeightAlias
	if weightType == "" {
		weightType = defaultWeightRustType
	}
	data := circuitData{
		CircuitName: c.Name,
		WeightType:  weightType,
	}

	for _, src := range c.Sources {
		data.Sources = append(data.Sources, endpoint{
			Name:     src.SourceName,
			CellName: CellName(src),
			RustType: RenderType(src.OutputType),
		})
	}
	for _, sink := range c.Sinks {
		data.Sinks = append(data.Sinks, endpoint{
			Name:     sink.SinkName,
			CellName: CellName(sink),
			RustType: RenderType(sink.OutputType),
		})
	}

	for _, op := range c.AllOperators() {
		line, err := op.Render()
		if err != nil {
			return "", err
		}
		data.OperatorLines = append(data.OperatorLines, line)
	}

	var out strings.Builder
	if err := circuitTemplate.Execute(&out, data); err != nil {
		return "", compilerr.NewIRInvariantf("dfir", "template execution failed: %v", err)
	}
	return out.String(), nil
}
