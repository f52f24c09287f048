package parser

import (
	"fmt"

	"github.com/praxdb/prax/schema/token"
)

// Error is one parse failure: the span it occurred at, what the parser
// expected, what it actually found, and a human-readable message. The
// parser never panics on malformed input — every recursive descent
// branch that can fail returns one of these instead.
type Error struct {
	Span     Span
	Expected string
	Actual   token.Kind
	Message  string
}

// Span has the same fields as prax.Span. Parse errors keep this type;
// nothing converts it to a prax.Span (schema/validate reports its own
// errors as *prax.Error).
type Span struct {
	Start, End int
	Line, Col  int
}

func (e *Error) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%d:%d: expected %s, got %s: %s", e.Span.Line, e.Span.Col, e.Expected, e.Actual, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Span.Line, e.Span.Col, e.Message)
}

// ErrorList accumulates every parse error encountered across one source.
// The parser keeps trying to resynchronize at declaration boundaries
// after a failure so a single malformed declaration does not prevent
// reporting errors in the rest of the file.
type ErrorList []*Error

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
}
