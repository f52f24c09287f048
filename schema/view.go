package schema

import "github.com/praxdb/prax"

// View is a `view Name { ... }` declaration: a read-only projection over
// a backing query, modeled with the same field grammar as Model but
// never a target of Insert/Update/Delete in the query engine.
type View struct {
	Name       string
	Fields     []*Field
	Attributes []*Attribute
	Doc        *Doc
	Span       prax.Span
}

// Field looks up a field by its declared name.
func (v *View) Field(name string) *Field {
	for _, f := range v.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Attribute returns the first block-level attribute with the given name.
func (v *View) Attribute(name string) *Attribute {
	for _, a := range v.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// SourceName returns the view's backing table/view name: the argument
// of a @@map("...") attribute if present, otherwise the view's declared
// name.
func (v *View) SourceName() string {
	if attr := v.Attribute("map"); attr != nil {
		if a := attr.Positional(0); a != nil && a.Kind == ArgString {
			return a.Str
		}
	}
	return v.Name
}
