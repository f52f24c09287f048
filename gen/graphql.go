package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"gopkg.in/yaml.v3"
)

// SkipMode flags which parts of a type's GraphQL surface to omit. The
// caller supplies a mode per type through BuildSchemaDefinitions' skip
// function, which leaves out a type whose mode includes SkipType; the
// other flags are not read in this package, and BuildGQLGenConfig takes
// no SkipMode.
type SkipMode uint

const (
	SkipType SkipMode = 1 << iota
	SkipWhereInput
	SkipMutationCreateInput
	SkipMutationUpdateInput

	SkipAll = SkipType | SkipWhereInput | SkipMutationCreateInput | SkipMutationUpdateInput
)

// graphQLScalar returns the GraphQL named-type a field's FieldKind maps
// to. Relation fields are resolved by the caller to the related type's
// own object name, and composite and unsupported fields are skipped by
// the caller, so none of them reaches this switch.
func graphQLScalar(k FieldKind) string {
	switch k {
	case KindString, KindEnum:
		return "String"
	case KindBool:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindInt64, KindFloat, KindDecimal:
		return "Float"
	case KindTime:
		return "DateTime"
	case KindUUID:
		return "ID"
	case KindJSON:
		return "JSON"
	default:
		return "String"
	}
}

func fieldDefinition(name, scalar string, nonNull bool, list bool) *ast.FieldDefinition {
	typ := &ast.Type{NamedType: scalar, NonNull: nonNull}
	if list {
		typ = &ast.Type{NonNull: nonNull, Elem: &ast.Type{NamedType: scalar, NonNull: true}}
	}
	return &ast.FieldDefinition{Name: name, Type: typ}
}

// BuildSchemaDefinitions renders one gqlparser ast.Definition per type in
// g, skipped entirely when the type's SkipMode includes SkipType. Each
// scalar field becomes a FieldDefinition via graphQLScalar; relation
// fields reference the related type's object name directly, non-null
// when the relation itself is required.
func BuildSchemaDefinitions(g *Graph, skip func(*Type) SkipMode) []*ast.Definition {
	defs := make([]*ast.Definition, 0, len(g.Nodes))
	for _, t := range g.Nodes {
		mode := SkipMode(0)
		if skip != nil {
			mode = skip(t)
		}
		if mode&SkipType != 0 {
			continue
		}
		def := &ast.Definition{Kind: ast.Object, Name: t.Name}
		if t.ID != nil {
			def.Fields = append(def.Fields, fieldDefinition("id", "ID", true, false))
		}
		for _, f := range t.Fields {
			if f.IsID {
				continue
			}
			nonNull := !f.Optional
			if f.Kind == KindRelation {
				def.Fields = append(def.Fields, fieldDefinition(f.Name, relationTypeName(f), nonNull, f.List))
				continue
			}
			if f.Kind == KindComposite || f.Kind == KindUnsupported {
				continue
			}
			def.Fields = append(def.Fields, fieldDefinition(f.Name, graphQLScalar(f.Kind), nonNull, f.List))
		}
		defs = append(defs, def)
	}
	return defs
}

// relationTypeName returns the GraphQL object name a relation field
// points at: the related model's own name, unchanged.
func relationTypeName(f *Field) string {
	return f.node.Type.String()
}

// GQLGenConfig is a subset of gqlgen.yml: enough to wire generated model
// bindings and scalar overrides without depending on gqlgen's own config
// loader, which expects a full project layout this module does not have.
type GQLGenConfig struct {
	SchemaFilename StringList              `yaml:"schema,omitempty"`
	Exec           ExecConfig              `yaml:"exec,omitempty"`
	Model          ModelConfig             `yaml:"model,omitempty"`
	Resolver       ResolverConfig          `yaml:"resolver,omitempty"`
	Autobind       []string                `yaml:"autobind,omitempty"`
	Models         map[string]TypeMapEntry `yaml:"models,omitempty"`
}

type ExecConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

type ModelConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

type ResolverConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
	Layout   string `yaml:"layout,omitempty"`
}

// TypeMapEntry binds one GraphQL type name to its Go model(s).
type TypeMapEntry struct {
	Model StringList `yaml:"model,omitempty"`
}

// StringList accepts either a bare scalar or a sequence in YAML, the way
// gqlgen.yml's "model:" key does.
type StringList []string

func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("gen: expected scalar or sequence, got %v", node.Kind)
	}
}

func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// BuildGQLGenConfig assembles the gqlgen.yml fragment a generator writes
// alongside BuildSchemaDefinitions' schema: autobind against ormPackage,
// schemaPath registered as the schema source, and the built-in ID/JSON
// scalars bound to gqlgen's runtime marshalers.
func BuildGQLGenConfig(g *Graph, ormPackage, schemaPath string) *GQLGenConfig {
	cfg := &GQLGenConfig{Models: make(map[string]TypeMapEntry)}
	if schemaPath != "" {
		cfg.SchemaFilename = StringList{schemaPath}
	}
	if ormPackage != "" {
		cfg.Autobind = []string{ormPackage}
	}
	cfg.SetModel("ID", "github.com/99designs/gqlgen/graphql.ID")
	cfg.SetModel("JSON", "github.com/99designs/gqlgen/graphql.Map")
	for _, t := range g.Nodes {
		cfg.SetModel(t.Name, ormPackage+"."+t.Name)
	}
	return cfg
}

// SetModel appends modelPath to typeName's model binding if not already
// present.
func (c *GQLGenConfig) SetModel(typeName, modelPath string) {
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, modelPath) {
		entry.Model = append(entry.Model, modelPath)
	}
	c.Models[typeName] = entry
}

// SaveGQLGenConfig writes cfg as YAML to path, creating any missing parent
// directory.
func SaveGQLGenConfig(path string, cfg *GQLGenConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("gen: marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("gen: create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalJSONScalar adapts a decoded JSON column (engine's row.RowRef
// holds it as map[string]any once scanned through a JSON-aware driver)
// into gqlgen's Map scalar marshaler, for a generated resolver's JSON
// field.
func MarshalJSONScalar(v map[string]any) graphql.Marshaler {
	return graphql.MarshalMap(v)
}

// UnmarshalJSONScalar is the input-side counterpart of MarshalJSONScalar,
// for a generated mutation input's JSON field.
func UnmarshalJSONScalar(v any) (map[string]any, error) {
	return graphql.UnmarshalMap(v)
}
