// Package raw lets callers author dialect-aware SQL fragments by hand
// while still routing bind values through query/sqlbuilder's placeholder
// numbering, so hand-written and generated SQL compose safely in the
// same statement.
package raw

import (
	"strings"

	"github.com/praxdb/prax/query/sqlbuilder"
)

// Raw is an interleaved sequence of literal text and bind values. It is
// built with Expr (a `{}`-hole format macro) or by hand with Lit/Bind,
// then rendered against a *sqlbuilder.Builder.
type Raw struct {
	parts []part
}

type part struct {
	lit   string
	value any
	bound bool
}

// Lit appends a literal fragment verbatim. The caller is responsible for
// never interpolating untrusted input here.
func (r *Raw) Lit(s string) *Raw {
	r.parts = append(r.parts, part{lit: s})
	return r
}

// Bind appends a bind-parameter placeholder for v.
func (r *Raw) Bind(v any) *Raw {
	r.parts = append(r.parts, part{value: v, bound: true})
	return r
}

// Expr builds a Raw from a format string whose `{}` holes are filled, in
// order, by args as bind parameters; everything else is literal text.
// Expr("price > {} AND price < {}", 10, 100) binds two parameters framed
// by the literal " AND ".
func Expr(format string, args ...any) *Raw {
	r := &Raw{}
	rest := format
	i := 0
	for {
		idx := strings.Index(rest, "{}")
		if idx < 0 {
			r.Lit(rest)
			break
		}
		r.Lit(rest[:idx])
		if i < len(args) {
			r.Bind(args[i])
			i++
		}
		rest = rest[idx+2:]
	}
	return r
}

// WriteTo renders the Raw fragment into b, translating each bind value
// into the dialect's placeholder via b.Bind.
func (r *Raw) WriteTo(b *sqlbuilder.Builder) {
	for _, p := range r.parts {
		if p.bound {
			b.Bind(p.value)
			continue
		}
		b.WriteString(p.lit)
	}
}

// Separated renders a list of Raw fragments joined by sep, as a single
// fragment suitable for embedding in a larger Expr/Raw composition (for
// example, a caller-authored ORDER BY clause list).
func Separated(frags []*Raw, sep string) *Raw {
	r := &Raw{}
	for i, f := range frags {
		if i > 0 {
			r.Lit(sep)
		}
		r.parts = append(r.parts, f.parts...)
	}
	return r
}
