// Package row implements the zero-copy row decoding protocol: RowRef
// gives by-name access to a single result row's scalars without an
// intermediate map[string]any allocation, and FromRow/FromRowRef adapt
// a RowRef into caller-defined struct decoding.
package row

import (
	"fmt"

	"github.com/praxdb/prax"
)

// RowSource is the minimal surface ScanRow needs from a result cursor:
// satisfied by both *sql.Rows and dialect/sql's Rows/ColumnScanner, so
// the engine can decode rows it reads through the dialect.Driver
// abstraction without this package importing it.
type RowSource interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
}

// RowRef is a borrowed view over one scanned row: column name to
// decoded driver value. The []byte and string values it holds may
// alias the underlying driver's scan buffer and are only valid until
// the next call to Next() on the originating cursor; callers that
// need to retain a value past that point must copy it explicitly.
type RowRef struct {
	columns []string
	values  []any
	index   map[string]int
}

// NewRowRef builds a RowRef from parallel columns/values slices, as
// produced by scanning a *sql.Rows into a []any destination vector.
func NewRowRef(columns []string, values []any) *RowRef {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return &RowRef{columns: columns, values: values, index: idx}
}

// ScanRow reads one row from rows (which must already be positioned by a
// prior call to rows.Next returning true) into a new RowRef.
func ScanRow(rows RowSource) (*RowRef, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, prax.Wrap(prax.KindRow, err, "read column names")
	}
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, prax.Wrap(prax.KindRow, err, "scan row")
	}
	return NewRowRef(cols, dest), nil
}

// Columns returns the row's column names in result order.
func (r *RowRef) Columns() []string { return r.columns }

func (r *RowRef) lookup(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, prax.New(prax.KindRow, "column %q not present in result set", column)
	}
	return r.values[i], nil
}

// UnexpectedNullError reports that a column required to be non-null by
// the caller's struct/field contract held SQL NULL.
type UnexpectedNullError struct {
	Column string
}

func (e *UnexpectedNullError) Error() string {
	return fmt.Sprintf("row: unexpected NULL in column %q", e.Column)
}

// UnexpectedNull constructs the *prax.Error wrapping an
// UnexpectedNullError for column.
func UnexpectedNull(column string) *prax.Error {
	return prax.Wrap(prax.KindRow, &UnexpectedNullError{Column: column}, "column %q", column)
}

// ColumnTypeError reports that a column's decoded Go type did not match
// what the caller's field expected.
type ColumnTypeError struct {
	Column string
	Want   string
	Got    string
}

func (e *ColumnTypeError) Error() string {
	return fmt.Sprintf("row: column %q: expected %s, got %s", e.Column, e.Want, e.Got)
}

func columnTypeError(column, want string, got any) *prax.Error {
	return prax.Wrap(prax.KindRow, &ColumnTypeError{Column: column, Want: want, Got: fmt.Sprintf("%T", got)}, "column %q", column)
}

// String returns column's value as a string. It returns UnexpectedNull
// if the column is NULL, or ColumnTypeError if the underlying value is
// not a string or []byte.
func (r *RowRef) String(column string) (string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case nil:
		return "", UnexpectedNull(column)
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return "", columnTypeError(column, "string", v)
	}
}

// Bytes returns column's value as a []byte. The returned slice may
// alias the driver's scan buffer; copy it before retaining past the
// next Next() call.
func (r *RowRef) Bytes(column string) ([]byte, error) {
	v, err := r.lookup(column)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, UnexpectedNull(column)
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		return nil, columnTypeError(column, "[]byte", v)
	}
}

// Int64 returns column's value as an int64.
func (r *RowRef) Int64(column string) (int64, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, UnexpectedNull(column)
	case int64:
		return t, nil
	case int32:
		return int64(t), nil
	case int:
		return int64(t), nil
	default:
		return 0, columnTypeError(column, "int64", v)
	}
}

// Float64 returns column's value as a float64.
func (r *RowRef) Float64(column string) (float64, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case nil:
		return 0, UnexpectedNull(column)
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	default:
		return 0, columnTypeError(column, "float64", v)
	}
}

// Bool returns column's value as a bool.
func (r *RowRef) Bool(column string) (bool, error) {
	v, err := r.lookup(column)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case nil:
		return false, UnexpectedNull(column)
	case bool:
		return t, nil
	default:
		return false, columnTypeError(column, "bool", v)
	}
}

// Value returns column's raw decoded value, with no type assertion —
// the escape hatch for callers (such as engine's result cache) that
// need to re-serialize a row generically rather than through one of
// the typed accessors above.
func (r *RowRef) Value(column string) (any, error) {
	return r.lookup(column)
}

// IsNull reports whether column's value is SQL NULL.
func (r *RowRef) IsNull(column string) (bool, error) {
	v, err := r.lookup(column)
	if err != nil {
		return false, err
	}
	return v == nil, nil
}

// Scanner adapts a RowRef's column access to a caller-defined struct
// decode. Implementations call the RowRef accessors above and return an
// assembled value.
type Scanner[T any] interface {
	FromRowRef(r *RowRef) (T, error)
}

// FromRow scans one row from rows and decodes it via s.
func FromRow[T any](rows RowSource, s Scanner[T]) (T, error) {
	var zero T
	ref, err := ScanRow(rows)
	if err != nil {
		return zero, err
	}
	return s.FromRowRef(ref)
}

// FromRowRef decodes an already-scanned RowRef via s. It exists
// alongside FromRow so callers that batch-scan (e.g. engine's Query,
// which reads every row before handing rows to callers) can decode
// without re-deriving a *sql.Rows cursor.
func FromRowRef[T any](r *RowRef, s Scanner[T]) (T, error) {
	return s.FromRowRef(r)
}
