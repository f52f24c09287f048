// Package schema defines the immutable abstract syntax tree produced by
// schema/parser: Schema, Model, Field, Enum, CompositeType, View,
// Datasource, Generator and ServerGroup declarations, plus the Attribute
// argument grammar shared by field-level and model-level attributes.
//
// Every exported type here is built once by the parser; nothing in this
// package mutates a Schema after construction. schema/validate modifies
// it in place (it reclassifies field types and drops malformed doc
// tags); other consumers (the query engine, a code generator) only read
// it.
package schema

import "github.com/praxdb/prax"

// Span is an alias of prax.Span so every file in this package can write
// schema.Span without importing the root package directly.
type Span = prax.Span

// Schema aggregates the ordered, top-level declarations of one parsed
// source. Order of Models/Enums/Composites/Views/ServerGroups is
// insertion order (the order declarations appeared in the source) and is
// observable by callers (e.g. a generator that emits files in source
// order).
type Schema struct {
	Models     []*Model
	Enums      []*Enum
	Composites []*CompositeType
	Views      []*View

	ServerGroups []*ServerGroup
	Datasource   *Datasource
	Generators   []*Generator
}

// Stats is a point-in-time count of each declaration kind, primarily used
// by tests and tooling that want to assert "one model, no enums" without
// walking slices by hand.
type Stats struct {
	ModelCount      int
	EnumCount       int
	CompositeCount  int
	ViewCount       int
	ServerGroupCount int
	GeneratorCount  int
}

// Stats returns a snapshot of the schema's declaration counts.
func (s *Schema) Stats() Stats {
	return Stats{
		ModelCount:       len(s.Models),
		EnumCount:        len(s.Enums),
		CompositeCount:   len(s.Composites),
		ViewCount:        len(s.Views),
		ServerGroupCount: len(s.ServerGroups),
		GeneratorCount:   len(s.Generators),
	}
}

// Model looks up a model by name, returning nil if none matches.
func (s *Schema) Model(name string) *Model {
	for _, m := range s.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Enum looks up an enum by name, returning nil if none matches.
func (s *Schema) Enum(name string) *Enum {
	for _, e := range s.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Composite looks up a composite type by name, returning nil if none matches.
func (s *Schema) Composite(name string) *CompositeType {
	for _, c := range s.Composites {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// View looks up a view by name, returning nil if none matches.
func (s *Schema) View(name string) *View {
	for _, v := range s.Views {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Kind identifies which of the five namespaces (model/enum/composite/
// view/serverGroup) a declared name belongs to, used by schema/validate's
// cross-kind uniqueness pass.
type Kind uint8

const (
	KindModel Kind = iota
	KindEnum
	KindComposite
	KindView
	KindServerGroup
)

// String returns the declaration kind's lower-case keyword.
func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindEnum:
		return "enum"
	case KindComposite:
		return "type"
	case KindView:
		return "view"
	case KindServerGroup:
		return "serverGroup"
	default:
		return "unknown"
	}
}

// Declarations returns every top-level name this schema declares, paired
// with its Kind and Span, in source order. It underlies the name
// uniqueness validation pass (spec §4.1 pass 1) and is also useful to a
// code generator enumerating output files.
func (s *Schema) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(s.Models)+len(s.Enums)+len(s.Composites)+len(s.Views)+len(s.ServerGroups))
	for _, m := range s.Models {
		decls = append(decls, Declaration{Name: m.Name, Kind: KindModel, Span: m.Span})
	}
	for _, e := range s.Enums {
		decls = append(decls, Declaration{Name: e.Name, Kind: KindEnum, Span: e.Span})
	}
	for _, c := range s.Composites {
		decls = append(decls, Declaration{Name: c.Name, Kind: KindComposite, Span: c.Span})
	}
	for _, v := range s.Views {
		decls = append(decls, Declaration{Name: v.Name, Kind: KindView, Span: v.Span})
	}
	for _, g := range s.ServerGroups {
		decls = append(decls, Declaration{Name: g.Name, Kind: KindServerGroup, Span: g.Span})
	}
	return decls
}

// Declaration names one top-level declaration for cross-kind bookkeeping.
type Declaration struct {
	Name string
	Kind Kind
	Span prax.Span
}
