package gen

import (
	"strings"

	"github.com/praxdb/prax/engine"
	"github.com/praxdb/prax/schema"
)

// FieldKind classifies how a field is represented on the Go side, the way
// a generator chooses a struct field type and a predicate constructor.
type FieldKind uint8

const (
	KindString FieldKind = iota
	KindBool
	KindInt
	KindInt64
	KindFloat
	KindDecimal
	KindTime
	KindJSON
	KindBytes
	KindUUID
	KindVector
	KindEnum
	KindComposite
	KindRelation
	KindUnsupported
)

// String returns the kind's identifier-safe name, usable as part of a
// generated predicate constructor (e.g. "Int64Field").
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindInt64:
		return "Int64"
	case KindFloat:
		return "Float"
	case KindDecimal:
		return "Decimal"
	case KindTime:
		return "Time"
	case KindJSON:
		return "JSON"
	case KindBytes:
		return "Bytes"
	case KindUUID:
		return "UUID"
	case KindVector:
		return "Vector"
	case KindEnum:
		return "Enum"
	case KindComposite:
		return "Composite"
	case KindRelation:
		return "Relation"
	default:
		return "Unsupported"
	}
}

func fieldKindOf(ft schema.FieldType) FieldKind {
	switch t := ft.(type) {
	case schema.Scalar:
		switch t.Kind {
		case schema.ScalarString, schema.ScalarCuid, schema.ScalarNanoID, schema.ScalarUlid:
			return KindString
		case schema.ScalarBoolean:
			return KindBool
		case schema.ScalarInt:
			return KindInt
		case schema.ScalarBigInt:
			return KindInt64
		case schema.ScalarFloat:
			return KindFloat
		case schema.ScalarDecimal:
			return KindDecimal
		case schema.ScalarDateTime, schema.ScalarDate, schema.ScalarTime:
			return KindTime
		case schema.ScalarJSON:
			return KindJSON
		case schema.ScalarBytes, schema.ScalarBit:
			return KindBytes
		case schema.ScalarUUID:
			return KindUUID
		case schema.ScalarVector, schema.ScalarHalfVector, schema.ScalarSparseVector:
			return KindVector
		default:
			return KindUnsupported
		}
	case schema.EnumRef:
		return KindEnum
	case schema.CompositeRef:
		return KindComposite
	case schema.ModelRef:
		return KindRelation
	default:
		return KindUnsupported
	}
}

// Field is the generator-facing view of one schema.Field: the raw AST
// node plus the derived facts (column name, Go-facing kind) a template or
// emitter needs without re-deriving them from attributes each time.
type Field struct {
	owner *Type
	node  *schema.Field

	Name   string
	Column string
	Kind   FieldKind
	List   bool
	Optional bool
	IsID   bool
}

func newField(owner *Type, n *schema.Field, isID bool) *Field {
	return &Field{
		owner:    owner,
		node:     n,
		Name:     n.Name,
		Column:   n.ColumnName(),
		Kind:     fieldKindOf(n.Type),
		List:     n.Modifier.List,
		Optional: n.Modifier.Optional,
		IsID:     isID,
	}
}

// Node returns the underlying schema.Field, for emitters that need
// attribute access this view does not surface (e.g. @default, @updatedAt).
func (f *Field) Node() *schema.Field { return f.node }

// Nillable reports whether the field's Go representation must be a
// pointer (or sql.Null* wrapper): optional scalar fields, but not list
// fields, since a nil slice already expresses "absent".
func (f *Field) Nillable() bool { return f.Optional && !f.List }

// Constant returns the package-level identifier a generated predicate
// file binds to this field's column name, e.g. "NameColumn".
func (f *Field) Constant() string { return pascal(f.Name) + "Column" }

// PredicateVar returns the package-level predicate variable name a
// generated where.go exposes for this field, e.g. "NameField".
func (f *Field) PredicateVar() string {
	if f.IsID {
		return "IDField"
	}
	return pascal(f.Name) + "Field"
}

// Type is the generator-facing view of one schema.Model: its fields (with
// the synthesized id field, if any, surfaced separately via ID), and the
// naming helpers a generator uses to place emitted files.
type Type struct {
	node   *schema.Model
	Name   string
	Fields []*Field
	ID     *Field

	fieldIndex map[string]*Field
}

func newType(m *schema.Model) *Type {
	t := &Type{Name: m.Name, node: m, fieldIndex: make(map[string]*Field)}
	pk := m.PrimaryKey()
	pkNames := make(map[string]bool, len(pk))
	for _, f := range pk {
		pkNames[f.Name] = true
	}
	for _, f := range m.Fields {
		gf := newField(t, f, pkNames[f.Name])
		t.Fields = append(t.Fields, gf)
		t.fieldIndex[f.Name] = gf
		if gf.IsID && t.ID == nil {
			t.ID = gf
		}
	}
	return t
}

// Node returns the underlying schema.Model.
func (t *Type) Node() *schema.Model { return t.node }

// Field looks up one of the type's fields by its schema-declared name.
func (t *Type) Field(name string) *Field { return t.fieldIndex[name] }

// TableName returns the model's storage name (§ schema.Model.TableName).
func (t *Type) TableName() string { return t.node.TableName() }

// PackageDir returns the lower-cased directory name a generator emits
// this type's package under, e.g. "user".
func (t *Type) PackageDir() string { return strings.ToLower(t.Name) }

// ClientName returns the struct name denoting the generated client for
// this type, e.g. "UserClient".
func (t *Type) ClientName() string { return pascal(t.Name) + "Client" }

// QueryName returns the struct name denoting the generated query builder
// for this type, e.g. "UserQuery".
func (t *Type) QueryName() string { return pascal(t.Name) + "Query" }

// Columns returns every field's storage column name, id field first.
func (t *Type) Columns() []string {
	cols := make([]string, 0, len(t.Fields))
	if t.ID != nil {
		cols = append(cols, t.ID.Column)
	}
	for _, f := range t.Fields {
		if f.IsID || f.Kind == KindRelation {
			continue
		}
		cols = append(cols, f.Column)
	}
	return cols
}

// PrimaryKey returns the storage column names composing the type's
// primary key, in declared order.
func (t *Type) PrimaryKey() []string {
	cols := make([]string, 0, 1)
	for _, f := range t.node.PrimaryKey() {
		cols = append(cols, f.ColumnName())
	}
	return cols
}

// TableDescriptor returns the engine.TableDescriptor an Engine needs to
// run the canonical CRUD templates against this type's table.
func (t *Type) TableDescriptor() engine.TableDescriptor {
	return engine.TableDescriptor{
		Name:       t.TableName(),
		Columns:    t.Columns(),
		PrimaryKey: t.PrimaryKey(),
	}
}

// pascal upper-cases the first letter of s; schema identifiers already
// use PascalCase for models and camelCase for fields, so this is the only
// case transform a generator needs beyond that source convention.
func pascal(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
