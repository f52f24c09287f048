package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax/schema"
)

func userModel() *schema.Model {
	id := &schema.Field{
		Name: "id",
		Type: schema.Scalar{Kind: schema.ScalarInt},
		Attributes: []*schema.Attribute{
			{Name: "id"},
		},
	}
	email := &schema.Field{
		Name: "email",
		Type: schema.Scalar{Kind: schema.ScalarString},
	}
	return &schema.Model{
		Name:   "User",
		Fields: []*schema.Field{id, email},
		Attributes: []*schema.Attribute{
			{Name: "map", Args: []schema.Arg{{Value: schema.ArgValue{Kind: schema.ArgString, Str: "users"}}}},
		},
	}
}

func TestSchemaLookups(t *testing.T) {
	s := &schema.Schema{
		Models: []*schema.Model{userModel()},
		Enums: []*schema.Enum{
			{Name: "Role", Variants: []*schema.EnumVariant{{Name: "ADMIN"}, {Name: "USER"}}},
		},
	}

	require.NotNil(t, s.Model("User"))
	assert.Nil(t, s.Model("Missing"))

	role := s.Enum("Role")
	require.NotNil(t, role)
	assert.NotNil(t, role.Variant("ADMIN"))
	assert.Nil(t, role.Variant("NOBODY"))

	stats := s.Stats()
	assert.Equal(t, 1, stats.ModelCount)
	assert.Equal(t, 1, stats.EnumCount)
}

func TestModelPrimaryKeyAndTableName(t *testing.T) {
	m := userModel()

	pk := m.PrimaryKey()
	require.Len(t, pk, 1)
	assert.Equal(t, "id", pk[0].Name)

	assert.Equal(t, "users", m.TableName())
	assert.Equal(t, "email", m.Field("email").ColumnName())
}

func TestModelCompositePrimaryKey(t *testing.T) {
	a := &schema.Field{Name: "tenantID", Type: schema.Scalar{Kind: schema.ScalarInt}}
	b := &schema.Field{Name: "slug", Type: schema.Scalar{Kind: schema.ScalarString}}
	m := &schema.Model{
		Name:   "Page",
		Fields: []*schema.Field{a, b},
		Attributes: []*schema.Attribute{
			{
				Name: "id",
				Args: []schema.Arg{{
					Value: schema.ArgValue{
						Kind: schema.ArgList,
						List: []schema.ArgValue{
							{Kind: schema.ArgIdent, Str: "tenantID"},
							{Kind: schema.ArgIdent, Str: "slug"},
						},
					},
				}},
			},
		},
	}

	pk := m.PrimaryKey()
	require.Len(t, pk, 2)
	assert.Equal(t, "tenantID", pk[0].Name)
	assert.Equal(t, "slug", pk[1].Name)
}

func TestFieldTypeString(t *testing.T) {
	cases := []struct {
		t    schema.FieldType
		want string
	}{
		{schema.Scalar{Kind: schema.ScalarString}, "String"},
		{schema.EnumRef{Name: "Role"}, "Role"},
		{schema.ModelRef{Name: "Post"}, "Post"},
		{schema.UnsupportedType{Raw: "point"}, "Unsupported(point)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.t.String())
	}
}

func TestFieldIsRelation(t *testing.T) {
	rel := &schema.Field{Type: schema.ModelRef{Name: "Post"}}
	scalar := &schema.Field{Type: schema.Scalar{Kind: schema.ScalarInt}}

	assert.True(t, rel.IsRelation())
	assert.False(t, scalar.IsRelation())
}

func TestParseDoc(t *testing.T) {
	doc := schema.ParseDoc("A user of the system.\n@graphql.field resolver\n@deprecated")
	require.NotNil(t, doc)
	require.Len(t, doc.Tags, 2)

	v, ok := doc.Tag("graphql.field")
	assert.True(t, ok)
	assert.Equal(t, "resolver", v)

	_, ok = doc.Tag("deprecated")
	assert.True(t, ok)

	assert.Nil(t, schema.ParseDoc(""))
}

func TestDeclarationsOrder(t *testing.T) {
	s := &schema.Schema{
		Models: []*schema.Model{{Name: "A"}, {Name: "B"}},
		Enums:  []*schema.Enum{{Name: "C"}},
	}
	decls := s.Declarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "A", decls[0].Name)
	assert.Equal(t, schema.KindModel, decls[0].Kind)
	assert.Equal(t, "C", decls[2].Name)
	assert.Equal(t, schema.KindEnum, decls[2].Kind)
}
