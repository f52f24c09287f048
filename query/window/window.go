// Package window models SQL window functions (OVER clauses): the
// function being windowed, its PARTITION BY / ORDER BY specification,
// and an optional frame clause. query/sqlbuilder renders a Call or Spec
// into dialect text; this package only holds the IR.
package window

// Function names a window function call, e.g. "row_number", "rank",
// "sum". Args holds the function's own arguments (empty for row_number,
// one field name for sum/avg/etc).
type Function struct {
	Name string
	Args []string
}

// RowNumber, Rank, DenseRank, and the aggregate helpers below build the
// common window function calls.
func RowNumber() Function         { return Function{Name: "row_number"} }
func Rank() Function              { return Function{Name: "rank"} }
func DenseRank() Function         { return Function{Name: "dense_rank"} }
func Sum(field string) Function   { return Function{Name: "sum", Args: []string{field}} }
func Avg(field string) Function   { return Function{Name: "avg", Args: []string{field}} }
func Count(field string) Function { return Function{Name: "count", Args: []string{field}} }
func Min(field string) Function   { return Function{Name: "min", Args: []string{field}} }
func Max(field string) Function   { return Function{Name: "max", Args: []string{field}} }
func Lag(field string) Function   { return Function{Name: "lag", Args: []string{field}} }
func Lead(field string) Function  { return Function{Name: "lead", Args: []string{field}} }

// FrameUnit selects the frame's unit of measure.
type FrameUnit uint8

const (
	FrameRows FrameUnit = iota
	FrameRange
	// FrameGroups is accepted on construction but a builder targeting a
	// dialect without GROUPS frame support degrades it to FrameRows,
	// which is a safe (if not always identical) approximation for
	// monotonic ORDER BY keys.
	FrameGroups
)

// BoundKind selects one edge of a frame clause.
type BoundKind uint8

const (
	UnboundedPreceding BoundKind = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

// Bound is one edge of a FrameClause. Offset is only meaningful for
// Preceding/Following.
type Bound struct {
	Kind   BoundKind
	Offset int
}

// FrameClause restricts a window's peer set, e.g. ROWS BETWEEN 1
// PRECEDING AND CURRENT ROW.
type FrameClause struct {
	Unit  FrameUnit
	Start Bound
	End   Bound
}

// Spec is a full window specification: PARTITION BY fields, ORDER BY
// fields (each optionally descending), and an optional frame.
type Spec struct {
	Name        string // non-empty for a named window (WINDOW w AS (...))
	PartitionBy []string
	OrderBy     []OrderTerm
	Frame       *FrameClause
}

// OrderTerm is one ORDER BY key within a window spec.
type OrderTerm struct {
	Field string
	Desc  bool
}

// Degrade returns a copy of the frame clause with FrameGroups replaced by
// FrameRows, for dialects (MySQL, SQLite) that do not support GROUPS
// frame units.
func (f FrameClause) Degrade() FrameClause {
	if f.Unit == FrameGroups {
		f.Unit = FrameRows
	}
	return f
}

// Call pairs a Function with the Spec it is windowed over, the unit the
// builder renders as `<fn>(<args>) OVER (...)` or `<fn>(<args>) OVER <name>`
// when Spec.Name references a named window declared elsewhere in the
// statement.
type Call struct {
	Fn   Function
	Over Spec
}
