// Package intern deduplicates field-name strings: the same handful of
// column names (ids, foreign keys, timestamps) recur on every query, and
// interning returns one canonical string per name so equal names share
// the same backing bytes. query/filter, query/sqlbuilder and row do not
// call it; they use field names as given.
package intern

import "sort"

// wellKnown is a sorted static table of field names common enough across
// schemas to warrant pre-interning at package init, rather than paying
// for a map insert on first use. It is intentionally small; anything not
// in this table falls through to the dynamic Interner.
var wellKnown = []string{
	"createdAt",
	"deletedAt",
	"id",
	"name",
	"updatedAt",
}

func lookupWellKnown(s string) (string, bool) {
	i := sort.SearchStrings(wellKnown, s)
	if i < len(wellKnown) && wellKnown[i] == s {
		return wellKnown[i], true
	}
	return "", false
}

// Interner canonicalizes field name strings so equal names share
// backing memory and can be compared with ==. It is not safe for
// concurrent use; callers that intern across goroutines should hold
// their own Interner per goroutine or guard it with a mutex.
type Interner struct {
	table map[string]string
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{table: make(map[string]string)}
}

// Intern returns the canonical copy of s: the well-known static table's
// entry if s matches one, otherwise the first string equal to s this
// Interner has seen, falling back to s itself on this call.
func (in *Interner) Intern(s string) string {
	if canon, ok := lookupWellKnown(s); ok {
		return canon
	}
	if canon, ok := in.table[s]; ok {
		return canon
	}
	in.table[s] = s
	return s
}

// Len reports the number of dynamically interned strings (excluding the
// well-known static table).
func (in *Interner) Len() int { return len(in.table) }
