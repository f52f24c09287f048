// Package prax implements the core of a schema-driven data-access layer:
// a declarative schema language (schema/token, schema/lexer, schema/parser,
// schema/validate), a backend-neutral query IR and SQL synthesizer
// (query/filter, query/sqlbuilder, query/raw, query/window), and an
// execution substrate (conn, pool, txn, tenant, cache, row, lazy, engine).
//
// This package holds the shared error taxonomy (§7) used by every
// subsystem, plus a handful of top-level sentinel errors that callers
// match with errors.Is/errors.As regardless of which component raised
// them.
package prax

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error into one of the taxonomy buckets from the
// error handling design. Kind is machine-readable; Message is for humans.
type Kind uint8

const (
	// KindInternal signals a broken invariant. It must never be observed
	// in well-formed usage of this module.
	KindInternal Kind = iota
	// KindParse is a lexical or grammatical failure in schema text.
	KindParse
	// KindValidate is a schema-level rule violation.
	KindValidate
	// KindConfig is a missing/invalid connection URL, unknown driver, or
	// unresolved environment variable.
	KindConfig
	// KindConnection is a refused/timed-out/unauthenticated/TLS failure.
	KindConnection
	// KindPool is an acquisition timeout or a closed pool.
	KindPool
	// KindQuery is a driver-reported syntax error, constraint violation,
	// serialization failure, or deadlock.
	KindQuery
	// KindNotFound is returned by a single-row query that matched nothing.
	KindNotFound
	// KindMultiple is returned by a single-row query that matched more
	// than one row.
	KindMultiple
	// KindRow is a column-decode failure: missing column, type mismatch,
	// unexpected null.
	KindRow
	// KindTransaction is a server-aborted transaction, isolation
	// conflict, or savepoint misuse.
	KindTransaction
	// KindCache is a cache serialization failure or a required layer's
	// failure promoted to the caller.
	KindCache
)

// String returns the kind's machine-readable name.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidate:
		return "validate"
	case KindConfig:
		return "config"
	case KindConnection:
		return "connection"
	case KindPool:
		return "pool"
	case KindQuery:
		return "query"
	case KindNotFound:
		return "not_found"
	case KindMultiple:
		return "multiple"
	case KindRow:
		return "row"
	case KindTransaction:
		return "transaction"
	case KindCache:
		return "cache"
	default:
		return "internal"
	}
}

// Span is a byte-offset range into a schema source file, with the
// 1-based line/column of Start for human-readable diagnostics. The zero
// value means "no span available".
type Span struct {
	Start, End int
	Line, Col  int
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool { return s == Span{} }

// Error is the shared error envelope every subsystem in this module
// raises: a machine-readable Kind, a short Message, an optional Hint,
// and — where relevant — the source Span or SQL fragment that triggered
// it. Error implements Unwrap so callers can errors.As into the wrapped
// driver/parse error.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Span    Span
	SQL     string
	Err     error
}

// Error renders a single-line, human-readable description.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "prax: %s: %s", e.Kind, e.Message)
	if !e.Span.IsZero() {
		fmt.Fprintf(&sb, " (at %d:%d)", e.Span.Line, e.Span.Col)
	}
	if e.Hint != "" {
		fmt.Fprintf(&sb, " (hint: %s)", e.Hint)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, &Error{Kind: KindNotFound}) works as a kind test.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that wraps err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithSpan returns a copy of e with its Span set.
func (e *Error) WithSpan(s Span) *Error {
	c := *e
	c.Span = s
	return &c
}

// WithHint returns a copy of e with its Hint set.
func (e *Error) WithHint(hint string) *Error {
	c := *e
	c.Hint = hint
	return &c
}

// WithSQL returns a copy of e with its SQL fragment set.
func (e *Error) WithSQL(sql string) *Error {
	c := *e
	c.SQL = sql
	return &c
}

// KindOf extracts the Kind carried by err, if it (or something it wraps)
// is a *Error. The second return is false for plain errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Standard sentinel errors usable with errors.Is regardless of which
// component raised them.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "entity not found"}

	// ErrMultiple is returned when a query that expects exactly one
	// result returns more than one row.
	ErrMultiple = &Error{Kind: KindMultiple, Message: "entity not singular"}

	// ErrTxStarted is returned when attempting to start a new
	// transaction within an existing transaction bound to the same
	// connection (§4.6: a transaction may not be shared concurrently).
	ErrTxStarted = errors.New("prax: cannot start a transaction within a transaction")

	// ErrPoolClosed is returned by Acquire once the pool has been closed.
	ErrPoolClosed = &Error{Kind: KindPool, Message: "pool closed"}
)

// NotFoundError reports that a query expecting exactly one row for a
// given entity label (and optional id) found none.
type NotFoundError struct {
	*Error
	label string
	id    any
}

// Error renders the not-found message, including the id when known.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("prax: %s not found (id=%v)", e.label, e.id)
	}
	return fmt.Sprintf("prax: %s not found", e.label)
}

// Is reports whether target matches ErrNotFound or another *NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || errors.Is(target, &Error{Kind: KindNotFound})
}

// Label returns the entity label that was searched for.
func (e *NotFoundError) Label() string { return e.label }

// ID returns the id that was searched for, or nil if none was given.
func (e *NotFoundError) ID() any { return e.id }

// NewNotFoundError returns a NotFoundError for the given entity label.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{Error: &Error{Kind: KindNotFound, Message: label + " not found"}, label: label}
}

// NewNotFoundErrorWithID returns a NotFoundError carrying the searched id.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{Error: &Error{Kind: KindNotFound, Message: label + " not found"}, label: label, id: id}
}

// IsNotFound reports whether err is (or wraps) a not-found condition.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// MultipleError reports that a query expecting exactly one row for a
// given entity label matched count rows instead (count == -1 if the
// exact count is unknown, only that it exceeded one).
type MultipleError struct {
	label string
	count int
}

// Error renders the not-singular message, including the count when known.
func (e *MultipleError) Error() string {
	if e.count >= 0 {
		return fmt.Sprintf("prax: %s not singular (got %d results, expected 1)", e.label, e.count)
	}
	return fmt.Sprintf("prax: %s not singular", e.label)
}

// Is reports whether target matches ErrMultiple.
func (e *MultipleError) Is(target error) bool {
	return target == ErrMultiple || errors.Is(target, &Error{Kind: KindMultiple})
}

// Label returns the entity label.
func (e *MultipleError) Label() string { return e.label }

// Count returns the number of rows matched, or -1 if unknown.
func (e *MultipleError) Count() int { return e.count }

// NewMultipleError returns a MultipleError for the given entity label.
func NewMultipleError(label string) *MultipleError {
	return &MultipleError{label: label, count: -1}
}

// NewMultipleErrorWithCount returns a MultipleError carrying the row count.
func NewMultipleErrorWithCount(label string, count int) *MultipleError {
	return &MultipleError{label: label, count: count}
}

// IsMultiple reports whether err is (or wraps) a not-singular condition.
func IsMultiple(err error) bool {
	if err == nil {
		return false
	}
	var e *MultipleError
	return errors.As(err, &e) || errors.Is(err, ErrMultiple)
}

// AggregateError collects multiple errors observed while processing a
// single top-level declaration (schema validation accumulates per
// declaration rather than failing fast; see schema/validate).
type AggregateError struct {
	Errors []error
}

// Error renders every collected error, one per line, numbered.
func (e *AggregateError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "prax: no errors"
	case 1:
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("prax: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// NewAggregateError returns an *AggregateError over the non-nil errs, or
// nil if none are non-nil, or the single error itself if there is
// exactly one.
func NewAggregateError(errs ...error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return &AggregateError{Errors: filtered}
	}
}
