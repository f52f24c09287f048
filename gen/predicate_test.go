package gen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax/schema"
)

func TestGenPredicateFileRendersFieldPredicates(t *testing.T) {
	typ := newType(userModel())

	f := GenPredicateFile(typ)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	src := buf.String()

	assert.Contains(t, src, "package user")
	assert.Contains(t, src, "func IDEQ(v int64)")
	assert.Contains(t, src, "func EmailEQ(v string)")
	assert.Contains(t, src, "func EmailContains(")
	assert.Contains(t, src, "func NicknameIsNil()")
	assert.Contains(t, src, "func NicknameNotNil()")
	assert.Contains(t, src, "func And(")
	assert.Contains(t, src, "func Or(")
	assert.Contains(t, src, "func Not(")
	assert.NotContains(t, src, "func PostsEQ")
}

func TestGenPredicateFileSkipsUnsupportedFields(t *testing.T) {
	m := &schema.Model{
		Name: "Thing",
		Fields: []*schema.Field{
			{Name: "id", Type: schema.Scalar{Kind: schema.ScalarInt}, Attributes: []*schema.Attribute{{Name: "id"}}},
			{Name: "loc", Type: schema.UnsupportedType{Raw: "point"}},
		},
	}
	typ := newType(m)

	f := GenPredicateFile(typ)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	assert.NotContains(t, buf.String(), "LocEQ")
}

func TestGenPredicateFileComparableOpsForOrderedFields(t *testing.T) {
	m := &schema.Model{
		Name: "Metric",
		Fields: []*schema.Field{
			{Name: "id", Type: schema.Scalar{Kind: schema.ScalarInt}, Attributes: []*schema.Attribute{{Name: "id"}}},
			{Name: "amount", Type: schema.Scalar{Kind: schema.ScalarFloat}},
		},
	}
	typ := newType(m)

	f := GenPredicateFile(typ)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	src := buf.String()
	assert.Contains(t, src, "func AmountLT(v float64)")
	assert.Contains(t, src, "func AmountGTE(v float64)")
}
