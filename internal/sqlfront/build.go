package sqlfront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/electwix/dbcircuit/internal/compilerr"
	"github.com/electwix/dbcircuit/internal/dfexpr"
	"github.com/electwix/dbcircuit/internal/dftype"
)

// SchemaLookup resolves a table name to its ordered column names and types,
// as already recorded in the catalog. Declared here (rather than imported
// from internal/catalog) so this front end depends only on the types it
// needs, not on the catalog package itself.
type SchemaLookup interface {
	LookupTable(name string) (columns []string, types []dftype.Type, ok bool)
}

// columnSchema is a resolved, in-scope column list used while converting
// WHERE/SELECT expressions to dfexpr.RelExpr.
type columnSchema struct {
	table   string
	columns []string
	types   []dftype.Type
}

func (s columnSchema) resolve(ref *ColumnRef) (int, error) {
	if ref.Qualifier != "" && !strings.EqualFold(ref.Qualifier, s.table) {
		return 0, fmt.Errorf("sqlfront: unknown table qualifier %q (expected %q)", ref.Qualifier, s.table)
	}
	for i, name := range s.columns {
		if strings.EqualFold(name, ref.Name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("sqlfront: unknown column %q on table %q", ref.Name, s.table)
}

// buildQuery converts a parsed Query into the relational tree the lowering
// visitor consumes, left-folding UNION/EXCEPT branches pairwise (spec.md
// §9 supplement: this is semantically identical to one N-ary Sum/Minus,
// since sum is associative and Minus's Sum-of-first-plus-negated-rest
// construction nests without changing the result).
func buildQuery(q *Query, schema SchemaLookup) (*RelNode, error) {
	acc, err := buildSelect(q.First.Select, schema)
	if err != nil {
		return nil, err
	}
	for _, term := range q.Rest {
		rhs, err := buildSelect(term.Select.Select, schema)
		if err != nil {
			return nil, err
		}
		kind := KindUnion
		if strings.EqualFold(term.Op, "EXCEPT") {
			kind = KindMinus
		}
		node := newRelNode(kind)
		node.All = term.All
		node.Children = []*RelNode{acc, rhs}
		acc = node
	}
	return acc, nil
}

// buildSelect converts a single SELECT ... FROM ... [WHERE ...] into a
// relational subtree: TableScan, optionally wrapped in Filter, optionally
// wrapped in Project. A bare "SELECT *" with no WHERE compiles to a plain
// TableScan with no Project node — the front end elides an identity
// projection, matching spec.md §8 scenario S3's expected shape (no
// RelProject appears over a literal "SELECT * FROM T" branch).
func buildSelect(stmt *SelectStmt, schema SchemaLookup) (*RelNode, error) {
	if len(stmt.From) != 1 {
		return nil, compilerr.NewUnimplemented("sqlfront", "multi-table FROM (comma join)", stmt)
	}
	tableName := stmt.From[0]
	columns, types, ok := schema.LookupTable(tableName)
	if !ok {
		return nil, fmt.Errorf("sqlfront: unknown table %q", tableName)
	}
	cols := columnSchema{table: tableName, columns: columns, types: types}

	scan := newRelNode(KindTableScan)
	scan.TableName = tableName
	scan.RowType = dftype.Tuple(types...)

	current := scan
	if stmt.Where != nil {
		pred, err := orToRel(stmt.Where, cols)
		if err != nil {
			return nil, err
		}
		filter := newRelNode(KindFilter)
		filter.Predicate = pred
		filter.Children = []*RelNode{current}
		current = filter
	}

	star, refs, err := classifySelectItems(stmt.Items)
	if err != nil {
		return nil, err
	}
	if !star {
		projection := make([]*dfexpr.RelExpr, 0, len(refs))
		for _, ref := range refs {
			idx, err := cols.resolve(ref)
			if err != nil {
				return nil, err
			}
			projection = append(projection, &dfexpr.RelExpr{Kind: dfexpr.RelColumn, ColumnIndex: idx})
		}
		project := newRelNode(KindProject)
		project.Projection = projection
		project.Children = []*RelNode{current}
		current = project
	}
	return current, nil
}

// classifySelectItems reports whether the select list is the bare "*"
// wildcard, or else returns its column references. Mixing "*" with named
// columns is rejected: it is not a pure column-reference list and this
// front end never interprets it as anything else.
func classifySelectItems(items []*SelectItem) (star bool, refs []*ColumnRef, err error) {
	if len(items) == 1 && items[0].Star {
		return true, nil, nil
	}
	refs = make([]*ColumnRef, 0, len(items))
	for _, item := range items {
		if item.Star {
			return false, nil, compilerr.NewUnimplemented("sqlfront", "\"*\" mixed with named columns", items)
		}
		refs = append(refs, item.Column)
	}
	return false, refs, nil
}

var cmpCallKinds = map[string]dfexpr.CallKind{
	"=": dfexpr.CallEq, "==": dfexpr.CallEq,
	"!=": dfexpr.CallNe, "<>": dfexpr.CallNe,
	"<=": dfexpr.CallLe, ">=": dfexpr.CallGe,
	"<": dfexpr.CallLt, ">": dfexpr.CallGt,
}

func orToRel(e *OrExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	left, err := andToRel(e.Left, cols)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Rest {
		right, err := andToRel(r, cols)
		if err != nil {
			return nil, err
		}
		left = &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: dfexpr.CallOr, Args: []*dfexpr.RelExpr{left, right}}
	}
	return left, nil
}

func andToRel(e *AndExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	left, err := notToRel(e.Left, cols)
	if err != nil {
		return nil, err
	}
	for _, r := range e.Rest {
		right, err := notToRel(r, cols)
		if err != nil {
			return nil, err
		}
		left = &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: dfexpr.CallAnd, Args: []*dfexpr.RelExpr{left, right}}
	}
	return left, nil
}

func notToRel(e *NotExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	inner, err := cmpToRel(e.Cmp, cols)
	if err != nil {
		return nil, err
	}
	if !e.Not {
		return inner, nil
	}
	return &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: dfexpr.CallNot, Args: []*dfexpr.RelExpr{inner}}, nil
}

func cmpToRel(e *CmpExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	left, err := addToRel(e.Left, cols)
	if err != nil {
		return nil, err
	}
	if e.Op == "" {
		return left, nil
	}
	right, err := addToRel(e.Right, cols)
	if err != nil {
		return nil, err
	}
	call, ok := cmpCallKinds[e.Op]
	if !ok {
		return nil, compilerr.NewIRInvariantf("sqlfront", "unrecognized comparison operator %q", e.Op)
	}
	return &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: call, Args: []*dfexpr.RelExpr{left, right}}, nil
}

func addToRel(e *AddExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	left, err := mulToRel(e.Left, cols)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := mulToRel(rhs.Term, cols)
		if err != nil {
			return nil, err
		}
		call := dfexpr.CallAdd
		if rhs.Op == "-" {
			call = dfexpr.CallSub
		}
		left = &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: call, Args: []*dfexpr.RelExpr{left, right}}
	}
	return left, nil
}

func mulToRel(e *MulExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	left, err := unaryToRel(e.Left, cols)
	if err != nil {
		return nil, err
	}
	for _, rhs := range e.Rest {
		right, err := unaryToRel(rhs.Term, cols)
		if err != nil {
			return nil, err
		}
		var call dfexpr.CallKind
		switch rhs.Op {
		case "*":
			call = dfexpr.CallMul
		case "/":
			call = dfexpr.CallDiv
		default:
			call = dfexpr.CallMod
		}
		left = &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: call, Args: []*dfexpr.RelExpr{left, right}}
	}
	return left, nil
}

func unaryToRel(e *UnaryExpr, cols columnSchema) (*dfexpr.RelExpr, error) {
	operand, err := primaryToRel(e.Primary, cols)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "+":
		return &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: dfexpr.CallUnaryPlus, Args: []*dfexpr.RelExpr{operand}}, nil
	case "-":
		return &dfexpr.RelExpr{Kind: dfexpr.RelCall, Call: dfexpr.CallUnaryMinus, Args: []*dfexpr.RelExpr{operand}}, nil
	default:
		return operand, nil
	}
}

func primaryToRel(e *Primary, cols columnSchema) (*dfexpr.RelExpr, error) {
	switch {
	case e.Paren != nil:
		return orToRel(e.Paren, cols)
	case e.Bool != nil:
		return &dfexpr.RelExpr{Kind: dfexpr.RelLiteral, LiteralText: strings.ToLower(*e.Bool), LiteralType: dftype.Bool(false)}, nil
	case e.Number != nil:
		literalType := dftype.SignedInt(32, false)
		if strings.Contains(*e.Number, ".") {
			literalType = dftype.Float(false)
		}
		return &dfexpr.RelExpr{Kind: dfexpr.RelLiteral, LiteralText: *e.Number, LiteralType: literalType}, nil
	case e.Str != nil:
		return &dfexpr.RelExpr{Kind: dfexpr.RelLiteral, LiteralText: strconv.Quote(strings.Trim(*e.Str, "'")), LiteralType: dftype.String(false)}, nil
	case e.Column != nil:
		idx, err := cols.resolve(e.Column)
		if err != nil {
			return nil, err
		}
		return &dfexpr.RelExpr{Kind: dfexpr.RelColumn, ColumnIndex: idx}, nil
	default:
		return nil, compilerr.NewIRInvariantf("sqlfront", "empty primary expression")
	}
}
