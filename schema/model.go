package schema

import "github.com/praxdb/prax"

// Model is a `model Name { ... }` declaration: an ordered set of fields
// plus the block-level (@@) attributes that apply to the model as a
// whole (e.g. @@unique, @@index, @@map).
type Model struct {
	Name       string
	Fields     []*Field
	Attributes []*Attribute
	Doc        *Doc
	Span       prax.Span
}

// Field looks up a field by its declared name.
func (m *Model) Field(name string) *Field {
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Attribute returns the first block-level attribute with the given name,
// or nil. Model declarations may repeat @@index/@@unique; callers that
// need every occurrence should filter Attributes directly.
func (m *Model) Attribute(name string) *Attribute {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// PrimaryKey returns the fields composing the model's primary key, in
// declared order: either the single field carrying @id, or the fields
// named by a block-level @@id([...]) composite key. Returns nil if
// neither form is present (schema/validate's primary-key pass, §4.1 pass
// 3, rejects a model with no primary key before this is ever called by
// the query engine).
func (m *Model) PrimaryKey() []*Field {
	for _, f := range m.Fields {
		for _, a := range f.Attributes {
			if a.Name == "id" {
				return []*Field{f}
			}
		}
	}
	if attr := m.Attribute("id"); attr != nil {
		if list := attr.Positional(0); list != nil && list.Kind == ArgList {
			fields := make([]*Field, 0, len(list.List))
			for _, v := range list.List {
				if v.Kind == ArgIdent {
					if f := m.Field(v.Str); f != nil {
						fields = append(fields, f)
					}
				}
			}
			return fields
		}
	}
	return nil
}

// TableName returns the model's storage name: the argument of a
// @@map("...") attribute if present, otherwise the model's declared name
// unchanged (the schema language does not itself lower-case or pluralize
// names; that convention, if any, belongs to a downstream generator).
func (m *Model) TableName() string {
	if attr := m.Attribute("map"); attr != nil {
		if v := attr.Positional(0); v != nil && v.Kind == ArgString {
			return v.Str
		}
	}
	return m.Name
}

// Field is one member of a model or composite type: a name, a type
// (with list/optional modifiers), and the field-level (@) attributes
// attached to it.
type Field struct {
	Name       string
	Type       FieldType
	Modifier   TypeModifier
	Attributes []*Attribute
	Doc        *Doc
	Span       prax.Span
}

// Attribute returns the first field-level attribute with the given name,
// or nil.
func (f *Field) Attribute(name string) *Attribute {
	for _, a := range f.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// IsRelation reports whether the field's type resolves to another model,
// i.e. it participates in a relation rather than holding scalar data.
func (f *Field) IsRelation() bool {
	_, ok := f.Type.(ModelRef)
	return ok
}

// ColumnName returns the field's storage name: the argument of a
// @map("...") attribute if present, otherwise the field's declared name.
func (f *Field) ColumnName() string {
	if attr := f.Attribute("map"); attr != nil {
		if v := attr.Positional(0); v != nil && v.Kind == ArgString {
			return v.Str
		}
	}
	return f.Name
}
