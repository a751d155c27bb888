package sqlfront

import "github.com/alecthomas/participle/v2/lexer"

// SQLLexer tokenizes the query subset this front end parses. Grounded on the
// teacher's internal/parser/dialects.SQLLexer, with '%' added to the
// Operator class (for MOD) and trimmed to the symbol set this grammar
// actually uses.
var SQLLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		//nolint:govet // participle DSL uses unkeyed fields
		{"Whitespace", `[ \t\r\n]+`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"Comment", `--[^\n]*`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"BlockComment", `/\*[\s\S]*?\*/`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"String", `'[^']*'`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"Number", `[0-9]+(?:\.[0-9]+)?`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"Symbol", `[(),.;]`, nil},
		//nolint:govet // participle DSL uses unkeyed fields
		{"Operator", `[+\-*/=<>!%]+`, nil},
	},
})
