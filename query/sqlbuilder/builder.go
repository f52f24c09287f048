// Package sqlbuilder translates the backend-neutral query/filter IR into
// dialect-specific SQL text and a positional parameter vector. It is the
// only component in this module that knows how a Filter becomes a WHERE
// clause, how a dialect numbers its placeholders, and how identifiers get
// quoted.
package sqlbuilder

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/praxdb/prax/dialect"
	"github.com/praxdb/prax/query/filter"
)

// Builder accumulates SQL fragments and bind parameters for a single
// statement. It is not safe for concurrent use; callers build one
// statement per Builder instance.
type Builder struct {
	dialect string
	buf     strings.Builder
	args    []any
	nextArg int
}

// New creates a Builder targeting the given dialect (one of the
// dialect.Postgres/MySQL/SQLite/MSSQL constants).
func New(dialectName string) *Builder {
	return &Builder{dialect: dialectName, nextArg: 1}
}

// Dialect returns the target dialect name.
func (b *Builder) Dialect() string { return b.dialect }

// String returns the accumulated SQL text.
func (b *Builder) String() string { return b.buf.String() }

// Args returns the accumulated bind parameter vector, in the order its
// placeholders appear in the SQL text.
func (b *Builder) Args() []any { return b.args }

// WriteString appends a literal fragment verbatim. Callers must never
// pass user-controlled text here; use Bind or Ident instead.
func (b *Builder) WriteString(s string) *Builder {
	b.buf.WriteString(s)
	return b
}

// WriteByte appends a single literal byte, typically a separator.
func (b *Builder) WriteByte(c byte) *Builder {
	b.buf.WriteByte(c)
	return b
}

// Ident appends a quoted identifier using the dialect's quoting rule.
// Dotted names (schema.table, table.column) are quoted segment-wise.
func (b *Builder) Ident(name string) *Builder {
	b.buf.WriteString(b.QuoteIdent(name))
	return b
}

// QuoteIdent renders a (possibly dotted) identifier quoted per dialect,
// without writing it to the buffer.
func (b *Builder) QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = b.quoteSegment(p)
	}
	return strings.Join(parts, ".")
}

func (b *Builder) quoteSegment(seg string) string {
	switch b.dialect {
	case dialect.MySQL:
		return "`" + strings.ReplaceAll(seg, "`", "``") + "`"
	case dialect.MSSQL:
		return "[" + strings.ReplaceAll(seg, "]", "]]") + "]"
	default: // Postgres, SQLite
		return `"` + strings.ReplaceAll(seg, `"`, `""`) + `"`
	}
}

// Bind appends a placeholder for v and records v in the parameter
// vector, returning the placeholder's 1-based ordinal.
func (b *Builder) Bind(v any) int {
	b.args = append(b.args, v)
	ord := b.nextArg
	b.buf.WriteString(b.placeholder(ord))
	b.nextArg++
	return ord
}

func (b *Builder) placeholder(ordinal int) string {
	switch b.dialect {
	case dialect.Postgres:
		return fmt.Sprintf("$%d", ordinal)
	case dialect.MSSQL:
		return fmt.Sprintf("@p%d", ordinal)
	default: // MySQL, SQLite
		return "?"
	}
}

// BindIn appends a parenthesized, comma-separated list of placeholders,
// one per value, and records each value in the parameter vector. Callers
// must never call this with an empty slice; query/filter normalizes
// empty in/not_in lists away before reaching the builder.
func (b *Builder) BindIn(vs []any) *Builder {
	b.buf.WriteByte('(')
	for i, v := range vs {
		if i > 0 {
			b.buf.WriteString(", ")
		}
		b.Bind(v)
	}
	b.buf.WriteByte(')')
	return b
}

// Separated writes each element of items via fn, joined by sep. It is
// the builder's equivalent of strings.Join for fragment-producing
// callbacks rather than strings.
func (b *Builder) Separated(items []string, sep string, fn func(*Builder, string)) *Builder {
	for i, it := range items {
		if i > 0 {
			b.buf.WriteString(sep)
		}
		fn(b, it)
	}
	return b
}

// lowerCaser performs the locale-stable lower-casing behind FoldLower.
// The case-insensitive predicate rendering does not use it: its
// LOWER(...) fallback applies SQL LOWER to both the column and the
// bound value.
var lowerCaser = cases.Lower(language.Und)

// FoldLower returns s lower-cased using a locale-independent mapping
// (so that, e.g., Turkish dotless-i rules never leak into a case-fold
// comparison regardless of the host's locale).
func FoldLower(s string) string {
	return lowerCaser.String(s)
}

// WriteFilter renders f as a boolean SQL expression into the buffer,
// binding every leaf value it encounters. It assumes fieldCol resolves a
// Filter field name to its quotable column expression (which may differ
// from the bare field name once joins are involved).
func (b *Builder) WriteFilter(f filter.Filter, fieldCol func(string) string) {
	switch {
	case f.IsAnd():
		b.writeCombinator(f.Children(), "AND", "TRUE", fieldCol)
	case f.IsOr():
		b.writeCombinator(f.Children(), "OR", "FALSE", fieldCol)
	case f.IsNot():
		b.buf.WriteString("NOT (")
		b.WriteFilter(f.Inner(), fieldCol)
		b.buf.WriteByte(')')
	case f.IsLeaf():
		b.writeLeaf(f.Leaf(), fieldCol)
	}
}

func (b *Builder) writeCombinator(children []filter.Filter, joiner, identity string, fieldCol func(string) string) {
	if len(children) == 0 {
		b.buf.WriteString(identity)
		return
	}
	if len(children) == 1 {
		b.WriteFilter(children[0], fieldCol)
		return
	}
	b.buf.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			b.buf.WriteString(" ")
			b.buf.WriteString(joiner)
			b.buf.WriteString(" ")
		}
		b.WriteFilter(c, fieldCol)
	}
	b.buf.WriteByte(')')
}

func (b *Builder) writeLeaf(l filter.Leaf, fieldCol func(string) string) {
	col := fieldCol(l.Field)
	switch l.Op {
	case filter.Equals:
		b.writeStringCompare(col, "=", l)
	case filter.NotEquals:
		b.writeStringCompare(col, "<>", l)
	case filter.LessThan:
		b.compare(col, "<", l.Value)
	case filter.LessThanOrEqual:
		b.compare(col, "<=", l.Value)
	case filter.GreaterThan:
		b.compare(col, ">", l.Value)
	case filter.GreaterThanOrEqual:
		b.compare(col, ">=", l.Value)
	case filter.In:
		b.writeIn(col, l.Value, false)
	case filter.NotIn:
		b.writeIn(col, l.Value, true)
	case filter.Contains:
		b.writeStringMatch(col, l, "%%%s%%")
	case filter.StartsWith:
		b.writeStringMatch(col, l, "%s%%")
	case filter.EndsWith:
		b.writeStringMatch(col, l, "%%%s")
	case filter.IsNull:
		b.buf.WriteString(col)
		b.buf.WriteString(" IS NULL")
	case filter.IsNotNull:
		b.buf.WriteString(col)
		b.buf.WriteString(" IS NOT NULL")
	case filter.JSONPath:
		b.writeJSONPath(col, l)
	case filter.VectorDistance:
		b.writeVectorDistance(col, l)
	}
}

func (b *Builder) writeStringCompare(col, op string, l filter.Leaf) {
	if l.Value.Kind == filter.Null {
		b.buf.WriteString(col)
		if op == "=" {
			b.buf.WriteString(" IS NULL")
		} else {
			b.buf.WriteString(" IS NOT NULL")
		}
		return
	}
	if l.Value.Kind == filter.String && l.CaseInsensitive {
		b.buf.WriteString("LOWER(")
		b.buf.WriteString(col)
		b.buf.WriteString(") ")
		b.buf.WriteString(op)
		b.buf.WriteString(" LOWER(")
		b.Bind(l.Value.S)
		b.buf.WriteByte(')')
		return
	}
	b.compare(col, op, l.Value)
}

func (b *Builder) compare(col, op string, v filter.FilterValue) {
	b.buf.WriteString(col)
	b.buf.WriteByte(' ')
	b.buf.WriteString(op)
	b.buf.WriteByte(' ')
	b.Bind(goValue(v))
}

func (b *Builder) writeIn(col string, v filter.FilterValue, negate bool) {
	if negate {
		b.buf.WriteString(col)
		b.buf.WriteString(" NOT IN ")
		vs := make([]any, len(v.List))
		for i, e := range v.List {
			vs[i] = goValue(e)
		}
		b.BindIn(vs)
		return
	}

	var vs []any
	hasNull := false
	for _, e := range v.List {
		if e.Kind == filter.Null {
			hasNull = true
			continue
		}
		vs = append(vs, goValue(e))
	}
	if !hasNull {
		b.buf.WriteString(col)
		b.buf.WriteString(" IN ")
		b.BindIn(vs)
		return
	}

	// A null inside an IN list never matches through SQL's three-valued
	// comparison ("x IN (1, NULL)" evaluates to NULL, never TRUE, even
	// when x itself is null); elide it from the bound list and OR in an
	// explicit IS NULL so "field in [A, null]" matches what callers mean.
	b.buf.WriteByte('(')
	if len(vs) > 0 {
		b.buf.WriteString(col)
		b.buf.WriteString(" IN ")
		b.BindIn(vs)
		b.buf.WriteString(" OR ")
	}
	b.buf.WriteString(col)
	b.buf.WriteString(" IS NULL")
	b.buf.WriteByte(')')
}

func (b *Builder) writeStringMatch(col string, l filter.Leaf, pattern string) {
	pat := fmt.Sprintf(pattern, l.Value.S)
	if l.CaseInsensitive && (b.dialect == dialect.Postgres) {
		b.buf.WriteString(col)
		b.buf.WriteString(" ILIKE ")
		b.Bind(pat)
		return
	}
	if l.CaseInsensitive {
		b.buf.WriteString("LOWER(")
		b.buf.WriteString(col)
		b.buf.WriteString(") LIKE LOWER(")
		b.Bind(pat)
		b.buf.WriteByte(')')
		return
	}
	b.buf.WriteString(col)
	b.buf.WriteString(" LIKE ")
	b.Bind(pat)
}

func (b *Builder) writeJSONPath(col string, l filter.Leaf) {
	switch b.dialect {
	case dialect.Postgres:
		b.buf.WriteString("jsonb_path_exists(")
		b.buf.WriteString(col)
		b.buf.WriteString(", ")
		b.Bind(l.JSONPathExpr)
		b.buf.WriteByte(')')
	case dialect.MySQL:
		b.buf.WriteString("JSON_CONTAINS(")
		b.buf.WriteString(col)
		b.buf.WriteString(", JSON_EXTRACT(")
		b.buf.WriteString(col)
		b.buf.WriteString(", ")
		b.Bind(l.JSONPathExpr)
		b.buf.WriteString("))")
	default:
		b.buf.WriteString("json_extract(")
		b.buf.WriteString(col)
		b.buf.WriteString(", ")
		b.Bind(l.JSONPathExpr)
		b.buf.WriteString(") = ")
		b.Bind(goValue(l.Value))
	}
}

func (b *Builder) writeVectorDistance(col string, l filter.Leaf) {
	op := "<->"
	switch l.VectorMetric {
	case "cosine":
		op = "<=>"
	case "inner_product":
		op = "<#>"
	}
	b.buf.WriteString(col)
	b.buf.WriteByte(' ')
	b.buf.WriteString(op)
	b.buf.WriteByte(' ')
	b.Bind(goValue(l.Value))
}

// goValue unwraps a FilterValue into the driver.Value-compatible scalar
// database/sql expects as a bind parameter.
func goValue(v filter.FilterValue) any {
	switch v.Kind {
	case filter.Null:
		return nil
	case filter.Bool:
		return v.B
	case filter.Int64:
		return v.I
	case filter.Float64:
		return v.F
	case filter.String, filter.JSON:
		return v.S
	default:
		return nil
	}
}
