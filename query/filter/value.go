// Package filter defines the backend-neutral Filter intermediate
// representation: a boolean combinator tree (And/Or/Not) over typed leaf
// predicates. It knows nothing about SQL; query/sqlbuilder is the only
// component that translates a Filter into dialect text and bind values.
package filter

// ValueKind discriminates the concrete shape a FilterValue holds.
type ValueKind uint8

const (
	Null ValueKind = iota
	Bool
	Int64
	Float64
	String
	JSON
	List
)

// FilterValue is the closed set of scalar (and list-of-scalar) values a
// leaf predicate can carry. Equality is structural; List equality is
// element-wise, and for `in`/`not_in` predicates the list is always
// treated as a set (order never matters, per the builder's contract).
type FilterValue struct {
	Kind ValueKind

	B    bool
	I    int64
	F    float64
	S    string // also holds raw JSON text when Kind == JSON
	List []FilterValue
}

// NullValue is the canonical null FilterValue.
func NullValue() FilterValue { return FilterValue{Kind: Null} }

// BoolValue wraps a bool.
func BoolValue(b bool) FilterValue { return FilterValue{Kind: Bool, B: b} }

// IntValue wraps an int64. Per the numeric-widening design note, narrower
// integer types should be converted to int64 by the caller before
// reaching this constructor. The builder binds the int64 as is and does
// no narrowing.
func IntValue(i int64) FilterValue { return FilterValue{Kind: Int64, I: i} }

// FloatValue wraps a float64.
func FloatValue(f float64) FilterValue { return FilterValue{Kind: Float64, F: f} }

// StringValue wraps a string.
func StringValue(s string) FilterValue { return FilterValue{Kind: String, S: s} }

// JSONValue wraps a raw JSON-encoded string, compared structurally at the
// backend's discretion (the builder may emit a JSON path predicate
// instead of this leaf for structured comparisons; this constructor is
// for whole-document equality/containment).
func JSONValue(raw string) FilterValue { return FilterValue{Kind: JSON, S: raw} }

// ListValue wraps a list of values, used by In/NotIn predicates.
func ListValue(vs ...FilterValue) FilterValue { return FilterValue{Kind: List, List: vs} }

// Equal reports structural equality between two FilterValues.
func (v FilterValue) Equal(o FilterValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Null:
		return true
	case Bool:
		return v.B == o.B
	case Int64:
		return v.I == o.I
	case Float64:
		return v.F == o.F
	case String, JSON:
		return v.S == o.S
	case List:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
