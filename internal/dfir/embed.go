package dfir

import (
	"embed"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var circuitTemplate = template.Must(template.ParseFS(templateFS, "templates/circuit.tmpl"))
