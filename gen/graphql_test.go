package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax/schema"
)

func TestBuildSchemaDefinitionsSkipsSkippedType(t *testing.T) {
	sch := &schema.Schema{Models: []*schema.Model{userModel(), postModel()}}
	g, err := NewGraph(sch, nil)
	require.NoError(t, err)

	defs := BuildSchemaDefinitions(g, func(t *Type) SkipMode {
		if t.Name == "Post" {
			return SkipType
		}
		return 0
	})

	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "User")
	assert.NotContains(t, names, "Post")
}

func TestBuildSchemaDefinitionsMapsFieldScalars(t *testing.T) {
	sch := &schema.Schema{Models: []*schema.Model{userModel(), postModel()}}
	g, err := NewGraph(sch, nil)
	require.NoError(t, err)

	defs := BuildSchemaDefinitions(g, nil)
	for _, d := range defs {
		if d.Name != "User" {
			continue
		}
		byName := make(map[string]string)
		for _, f := range d.Fields {
			byName[f.Name] = f.Type.NamedType
		}
		assert.Equal(t, "String", byName["email"])
		assert.Equal(t, "ID", byName["id"])
		assert.Equal(t, "Post", byName["posts"]) // relation field resolves to the related object name
	}
}

func TestBuildGQLGenConfigBindsModelsAndScalars(t *testing.T) {
	sch := &schema.Schema{Models: []*schema.Model{userModel(), postModel()}}
	g, err := NewGraph(sch, nil)
	require.NoError(t, err)

	cfg := BuildGQLGenConfig(g, "github.com/acme/app/ent", "schema.graphql")
	assert.Equal(t, StringList{"schema.graphql"}, cfg.SchemaFilename)
	assert.Contains(t, cfg.Autobind, "github.com/acme/app/ent")
	assert.Contains(t, cfg.Models["ID"].Model, "github.com/99designs/gqlgen/graphql.ID")
	assert.Contains(t, cfg.Models["JSON"].Model, "github.com/99designs/gqlgen/graphql.Map")
	assert.Contains(t, cfg.Models["User"].Model, "github.com/acme/app/ent.User")
}

func TestStringListMarshalYAML(t *testing.T) {
	var s StringList
	out, err := s.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, []string(nil), out)

	single := StringList{"a"}
	out, err = single.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "a", out)
}

func TestMarshalUnmarshalJSONScalarRoundTrips(t *testing.T) {
	v := map[string]any{"a": float64(1)}
	m := MarshalJSONScalar(v)
	require.NotNil(t, m)

	got, err := UnmarshalJSONScalar(v)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}
