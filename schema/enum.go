package schema

import "github.com/praxdb/prax"

// Enum is an `enum Name { VARIANT ... }` declaration.
type Enum struct {
	Name     string
	Variants []*EnumVariant
	Attributes []*Attribute
	Doc      *Doc
	Span     prax.Span
}

// Variant looks up a variant by its declared name.
func (e *Enum) Variant(name string) *EnumVariant {
	for _, v := range e.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// EnumVariant is one value of an enum declaration.
type EnumVariant struct {
	Name       string
	Attributes []*Attribute
	Doc        *Doc
	Span       prax.Span
}

// DatabaseName returns the variant's storage representation: the
// argument of a @map("...") attribute if present, otherwise the
// variant's declared name.
func (v *EnumVariant) DatabaseName() string {
	for _, a := range v.Attributes {
		if a.Name == "map" {
			if arg := a.Positional(0); arg != nil && arg.Kind == ArgString {
				return arg.Str
			}
		}
	}
	return v.Name
}

// CompositeType is a `type Name { ... }` declaration: a named, reusable
// group of fields embedded by value into one or more models (no relation
// semantics of its own).
type CompositeType struct {
	Name   string
	Fields []*Field
	Doc    *Doc
	Span   prax.Span
}

// Field looks up a field by its declared name.
func (c *CompositeType) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
