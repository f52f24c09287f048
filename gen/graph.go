package gen

import (
	"github.com/go-openapi/inflect"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/schema"
)

// Config carries the generator-wide settings a Graph's naming helpers
// need: the Go import path the generated package will live under, and
// whether relation accessor names pluralize (the "Posts" in
// user.Posts() versus "Post").
type Config struct {
	// Package is the Go import path generated code is emitted under,
	// e.g. "github.com/acme/app/ent".
	Package string
	// Pluralize controls whether Graph.CollectionName pluralizes a
	// type's name for its client-collection accessor. NewGraph sets it
	// to true only when it is given a nil Config; a non-nil Config is
	// used as given.
	Pluralize bool
}

// Graph is the generator-facing view of a whole schema.Schema: every
// model resolved into a Type, in source declaration order, plus the enum
// declarations a generator emits alongside them.
type Graph struct {
	Config *Config
	Nodes  []*Type
	Enums  []*schema.Enum

	byName map[string]*Type
}

// NewGraph walks sch and builds a Graph. It returns an error if a
// relation field references a model that does not exist, which
// schema/validate's resolution pass would also have rejected; enum
// references are not checked here. NewGraph does not re-run validation itself,
// it assumes sch already passed schema/validate and is only defending
// against a caller handing it an unvalidated tree.
func NewGraph(sch *schema.Schema, cfg *Config) (*Graph, error) {
	if cfg == nil {
		cfg = &Config{Pluralize: true}
	}
	g := &Graph{Config: cfg, Enums: sch.Enums, byName: make(map[string]*Type, len(sch.Models))}
	for _, m := range sch.Models {
		t := newType(m)
		g.Nodes = append(g.Nodes, t)
		g.byName[m.Name] = t
	}
	for _, t := range g.Nodes {
		for _, f := range t.Fields {
			if f.Kind != KindRelation {
				continue
			}
			ref := f.node.Type.(schema.ModelRef)
			if _, ok := g.byName[ref.Name]; !ok {
				return nil, prax.New(prax.KindInternal, "model %q: relation field %q references unknown model %q", t.Name, f.Name, ref.Name)
			}
		}
	}
	return g, nil
}

// Type looks up a Graph node by its schema-declared model name.
func (g *Graph) Type(name string) *Type { return g.byName[name] }

// CollectionName returns the accessor name a generated client exposes for
// a type's collection, e.g. "Users" for a "User" model when pluralizing
// is enabled, "User" otherwise.
func (g *Graph) CollectionName(t *Type) string {
	if !g.Config.Pluralize {
		return t.Name
	}
	return inflect.Pluralize(t.Name)
}
