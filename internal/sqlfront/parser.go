package sqlfront

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/electwix/dbcircuit/internal/compilerr"
)

// TableDecl is a parsed CREATE TABLE statement. Its column types are not
// resolved here: RawSQL is handed to internal/catalog's Simulator, which
// executes it against a real SQLite connection and introspects the result
// (spec.md GLOSSARY's "DDL simulator"), rather than this front end
// reimplementing SQL's column-type grammar for a single statement form.
type TableDecl struct {
	Name   string
	RawSQL string
}

// ViewDecl is a parsed CREATE VIEW statement: a name and the already
// name-resolved relational tree rooted at Root.
type ViewDecl struct {
	Name string
	Root *RelNode
}

var (
	createTablePattern = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+([A-Za-z_][A-Za-z0-9_]*)`)
	createViewPattern  = regexp.MustCompile(`(?is)^\s*CREATE\s+VIEW\s+([A-Za-z_][A-Za-z0-9_]*)\s+AS\s+(.*)$`)
)

// Parser recognizes CREATE TABLE / CREATE VIEW statement shapes and parses
// a CREATE VIEW's query body with the participle-built Query grammar.
type Parser struct {
	query *participle.Parser[Query]
}

// New builds a Parser. Grounded on the teacher's dialect parsers'
// participle.Build[T](participle.Lexer(...), participle.CaseInsensitive(...))
// pattern (internal/parser/dialects/parsers.go, internal/parser/languages/
// graphql/parser.go), plus an explicit Elide of whitespace/comment tokens
// the teacher's examples leave implicit.
func New() (*Parser, error) {
	query, err := participle.Build[Query](
		participle.Lexer(SQLLexer),
		participle.CaseInsensitive("SELECT", "FROM", "WHERE", "UNION", "EXCEPT", "ALL", "ORDER", "BY", "AND", "OR", "NOT", "TRUE", "FALSE"),
		participle.Elide("Whitespace", "Comment", "BlockComment"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlfront: build query parser: %w", err)
	}
	return &Parser{query: query}, nil
}

// Parse classifies and parses one statement. DDL statements return
// *TableDecl or *ViewDecl; any other statement kind raises Unimplemented
// (spec.md §6: "Non-DDL statements are rejected with Unimplemented").
// schema resolves table references while building a view's relational
// tree; it is unused (may be nil) for a CREATE TABLE statement.
func (p *Parser) Parse(sql string, schema SchemaLookup) (any, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sql), ";"))

	if m := createTablePattern.FindStringSubmatch(trimmed); m != nil {
		return &TableDecl{Name: m[1], RawSQL: trimmed}, nil
	}

	if m := createViewPattern.FindStringSubmatch(trimmed); m != nil {
		name, queryText := m[1], m[2]
		query, err := p.query.ParseString("", queryText)
		if err != nil {
			return nil, fmt.Errorf("sqlfront: parse view query: %w", err)
		}
		if query.OrderBy != nil {
			return nil, compilerr.NewUnsupportedConstruct("sqlfront", "ORDER BY", query)
		}
		root, err := buildQuery(query, schema)
		if err != nil {
			return nil, err
		}
		return &ViewDecl{Name: name, Root: root}, nil
	}

	return nil, compilerr.NewUnimplemented("sqlfront", "non-DDL statement", sql)
}
