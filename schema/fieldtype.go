package schema

// ScalarKind enumerates the built-in scalar types a field may carry,
// per the base type grammar.
type ScalarKind uint8

const (
	ScalarString ScalarKind = iota
	ScalarBoolean
	ScalarInt
	ScalarBigInt
	ScalarFloat
	ScalarDecimal
	ScalarDateTime
	ScalarDate
	ScalarTime
	ScalarJSON
	ScalarBytes
	ScalarUUID
	ScalarCuid
	ScalarNanoID
	ScalarUlid
	ScalarVector
	ScalarHalfVector
	ScalarSparseVector
	ScalarBit
)

// String returns the scalar's source spelling, e.g. "Int" or "DateTime".
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "String"
	case ScalarBoolean:
		return "Boolean"
	case ScalarInt:
		return "Int"
	case ScalarBigInt:
		return "BigInt"
	case ScalarFloat:
		return "Float"
	case ScalarDecimal:
		return "Decimal"
	case ScalarDateTime:
		return "DateTime"
	case ScalarDate:
		return "Date"
	case ScalarTime:
		return "Time"
	case ScalarJSON:
		return "Json"
	case ScalarBytes:
		return "Bytes"
	case ScalarUUID:
		return "Uuid"
	case ScalarCuid:
		return "Cuid"
	case ScalarNanoID:
		return "NanoId"
	case ScalarUlid:
		return "Ulid"
	case ScalarVector:
		return "Vector"
	case ScalarHalfVector:
		return "HalfVector"
	case ScalarSparseVector:
		return "SparseVector"
	case ScalarBit:
		return "Bit"
	default:
		return "Unknown"
	}
}

// HasDimension reports whether the scalar kind carries a mandatory
// integer dimension argument, e.g. Vector(1536).
func (k ScalarKind) HasDimension() bool {
	switch k {
	case ScalarVector, ScalarHalfVector, ScalarSparseVector, ScalarBit:
		return true
	default:
		return false
	}
}

// FieldType is the closed sum type of everything a field's declared type
// can resolve to. The unexported isFieldType marker prevents consumers
// outside this package from adding new cases; schema/validate's type
// resolution pass is exhaustive over the five concrete kinds below by
// construction, not convention.
type FieldType interface {
	isFieldType()
	// String returns the type's source-level spelling, without modifiers
	// (List/Optional are carried separately on Field, not on FieldType).
	String() string
}

// Scalar is a built-in scalar type, optionally parameterized by a
// dimension (Vector/HalfVector/SparseVector/Bit).
type Scalar struct {
	Kind      ScalarKind
	Dimension int // 0 if Kind.HasDimension() is false or unspecified
}

func (Scalar) isFieldType() {}

func (s Scalar) String() string {
	return s.Kind.String()
}

// EnumRef is a reference to an enum declared elsewhere in the schema.
type EnumRef struct {
	Name string
}

func (EnumRef) isFieldType() {}
func (e EnumRef) String() string { return e.Name }

// CompositeRef is a reference to a `type` (composite/embedded) declaration.
type CompositeRef struct {
	Name string
}

func (CompositeRef) isFieldType() {}
func (c CompositeRef) String() string { return c.Name }

// ModelRef is a reference to another model, forming a relation. Relation
// cardinality and foreign-key placement are derived by schema/validate
// from the attributes on the field that carries this type, not from the
// type itself.
type ModelRef struct {
	Name string
}

func (ModelRef) isFieldType() {}
func (m ModelRef) String() string { return m.Name }

// UnsupportedType wraps a raw, backend-specific type string that the
// schema language does not model, e.g. Unsupported("point"). The gen
// package classifies such fields as KindUnsupported and its predicate
// and GraphQL emitters skip them. schema/validate has no rule specific
// to them, and query/filter's constructors take a field name rather
// than a FieldType, so neither excludes them. The parser does not
// produce this type: its field-type grammar takes no string argument.
type UnsupportedType struct {
	Raw string
}

func (UnsupportedType) isFieldType() {}
func (u UnsupportedType) String() string { return "Unsupported(" + u.Raw + ")" }

// TypeModifier refines how a FieldType is carried on a field: as a single
// required value, a list, or an optional (nullable) value. List and
// Optional can combine (an optional list of a required element).
type TypeModifier struct {
	List     bool
	Optional bool
}
