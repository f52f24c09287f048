package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/praxdb/prax/query/window"
)

func TestConstructorsSetFunctionName(t *testing.T) {
	assert.Equal(t, "row_number", window.RowNumber().Name)
	assert.Equal(t, "rank", window.Rank().Name)
	assert.Equal(t, "dense_rank", window.DenseRank().Name)
	assert.Equal(t, []string{"amount"}, window.Sum("amount").Args)
	assert.Equal(t, []string{"amount"}, window.Avg("amount").Args)
}

func TestFrameClauseDegradeReplacesGroups(t *testing.T) {
	f := window.FrameClause{Unit: window.FrameGroups}
	degraded := f.Degrade()
	assert.Equal(t, window.FrameRows, degraded.Unit)
}

func TestFrameClauseDegradeLeavesRowsAndRange(t *testing.T) {
	rows := window.FrameClause{Unit: window.FrameRows}
	assert.Equal(t, window.FrameRows, rows.Degrade().Unit)

	rng := window.FrameClause{Unit: window.FrameRange}
	assert.Equal(t, window.FrameRange, rng.Degrade().Unit)
}

func TestSpecHoldsPartitionAndOrder(t *testing.T) {
	s := window.Spec{
		PartitionBy: []string{"department"},
		OrderBy:     []window.OrderTerm{{Field: "salary", Desc: true}},
	}
	assert.Equal(t, []string{"department"}, s.PartitionBy)
	assert.True(t, s.OrderBy[0].Desc)
}

func TestCallPairsFunctionAndSpec(t *testing.T) {
	c := window.Call{
		Fn:   window.RowNumber(),
		Over: window.Spec{PartitionBy: []string{"department"}},
	}
	assert.Equal(t, "row_number", c.Fn.Name)
	assert.Equal(t, []string{"department"}, c.Over.PartitionBy)
}
