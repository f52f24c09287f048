package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax/query/filter"
)

func TestAndEmptyIsUniversalTruth(t *testing.T) {
	f := filter.And()
	assert.True(t, f.IsAnd())
	assert.Empty(t, f.Children())
}

func TestOrEmptyIsUniversalFalsehood(t *testing.T) {
	f := filter.Or()
	assert.True(t, f.IsOr())
	assert.Empty(t, f.Children())
}

func TestAndSingletonFlattensTrivially(t *testing.T) {
	leaf := filter.EqualsOp("email", filter.StringValue("a@b.com"))
	f := filter.And(leaf)
	require.True(t, f.IsAnd())
	require.Len(t, f.Children(), 1)
	assert.Equal(t, leaf.Leaf(), f.Children()[0].Leaf())
}

func TestAndFlattensNestedAnd(t *testing.T) {
	a := filter.EqualsOp("a", filter.IntValue(1))
	b := filter.EqualsOp("b", filter.IntValue(2))
	c := filter.EqualsOp("c", filter.IntValue(3))
	nested := filter.And(a, b)
	f := filter.And(nested, c)
	require.True(t, f.IsAnd())
	assert.Len(t, f.Children(), 3)
}

func TestOrFlattensNestedOr(t *testing.T) {
	a := filter.EqualsOp("a", filter.IntValue(1))
	b := filter.EqualsOp("b", filter.IntValue(2))
	c := filter.EqualsOp("c", filter.IntValue(3))
	nested := filter.Or(a, b)
	f := filter.Or(nested, c)
	require.True(t, f.IsOr())
	assert.Len(t, f.Children(), 3)
}

func TestNotWrapsWithoutNormalizing(t *testing.T) {
	inner := filter.IsNullOp("deletedAt")
	f := filter.Not(filter.Not(inner))
	require.True(t, f.IsNot())
	require.True(t, f.Inner().IsNot())
	assert.Equal(t, inner.Leaf(), f.Inner().Inner().Leaf())
}

func TestInEmptyNormalizesToUniversalFalse(t *testing.T) {
	f := filter.InOp("status")
	assert.True(t, f.IsOr())
	assert.Empty(t, f.Children())
}

func TestNotInEmptyNormalizesToUniversalTrue(t *testing.T) {
	f := filter.NotInOp("status")
	assert.True(t, f.IsAnd())
	assert.Empty(t, f.Children())
}

func TestInNonEmptyBuildsLeaf(t *testing.T) {
	f := filter.InOp("status", filter.StringValue("open"), filter.StringValue("closed"))
	require.True(t, f.IsLeaf())
	leaf := f.Leaf()
	assert.Equal(t, filter.In, leaf.Op)
	assert.Equal(t, filter.List, leaf.Value.Kind)
	assert.Len(t, leaf.Value.List, 2)
}

func TestLeafCountScalar(t *testing.T) {
	f := filter.EqualsOp("email", filter.StringValue("a@b.com"))
	assert.Equal(t, 1, f.LeafCount())
}

func TestLeafCountNullIsZero(t *testing.T) {
	f := filter.IsNullOp("deletedAt")
	assert.Equal(t, 0, f.LeafCount())
}

func TestLeafCountListCountsElements(t *testing.T) {
	f := filter.InOp("status", filter.StringValue("a"), filter.StringValue("b"), filter.StringValue("c"))
	assert.Equal(t, 3, f.LeafCount())
}

func TestLeafCountCombinatorSumsChildren(t *testing.T) {
	f := filter.And(
		filter.EqualsOp("a", filter.IntValue(1)),
		filter.InOp("b", filter.IntValue(1), filter.IntValue(2)),
		filter.Not(filter.IsNullOp("c")),
	)
	assert.Equal(t, 3, f.LeafCount())
}

func TestFilterValueEqual(t *testing.T) {
	assert.True(t, filter.NullValue().Equal(filter.NullValue()))
	assert.True(t, filter.IntValue(5).Equal(filter.IntValue(5)))
	assert.False(t, filter.IntValue(5).Equal(filter.IntValue(6)))
	assert.False(t, filter.IntValue(5).Equal(filter.FloatValue(5)))

	l1 := filter.ListValue(filter.StringValue("a"), filter.StringValue("b"))
	l2 := filter.ListValue(filter.StringValue("a"), filter.StringValue("b"))
	l3 := filter.ListValue(filter.StringValue("a"))
	assert.True(t, l1.Equal(l2))
	assert.False(t, l1.Equal(l3))
}

func TestContainsCaseInsensitiveFlag(t *testing.T) {
	f := filter.ContainsOp("name", "smith", true)
	leaf := f.Leaf()
	assert.True(t, leaf.CaseInsensitive)
	assert.Equal(t, "smith", leaf.Value.S)
}

func TestJSONPathCarriesExpr(t *testing.T) {
	f := filter.JSONPathOp("profile", "$.address.city", filter.StringValue("Boston"))
	leaf := f.Leaf()
	assert.Equal(t, "$.address.city", leaf.JSONPathExpr)
	assert.Equal(t, filter.JSONPath, leaf.Op)
}

func TestVectorDistanceCarriesMetric(t *testing.T) {
	f := filter.VectorDistanceOp("embedding", "cosine", filter.ListValue(filter.FloatValue(0.1), filter.FloatValue(0.2)))
	leaf := f.Leaf()
	assert.Equal(t, "cosine", leaf.VectorMetric)
	assert.Equal(t, filter.VectorDistance, leaf.Op)
}

func TestChildrenPanicsOnLeaf(t *testing.T) {
	f := filter.EqualsOp("a", filter.IntValue(1))
	assert.Panics(t, func() { f.Children() })
}

func TestInnerPanicsOnNonNot(t *testing.T) {
	f := filter.And()
	assert.Panics(t, func() { f.Inner() })
}

func TestLeafPanicsOnCombinator(t *testing.T) {
	f := filter.Or()
	assert.Panics(t, func() { f.Leaf() })
}
