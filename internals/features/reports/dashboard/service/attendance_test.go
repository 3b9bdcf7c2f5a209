package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flags(vs ...any) []*bool {
	out := make([]*bool, len(vs))
	for i, v := range vs {
		if b, ok := v.(bool); ok {
			out[i] = &b
		}
	}
	return out
}

func TestSummarizeCountsOnlyStrictTrue(t *testing.T) {
	s := Summarize(flags(true, false, nil, true))
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2, s.Attended)
	assert.Equal(t, "2/4", s.CountDisplay())
	assert.Equal(t, "50%", s.RateDisplay())
}

func TestRateRounding(t *testing.T) {
	cases := []struct {
		attended, count int
		want            string
	}{
		{1, 3, "33%"},
		{2, 3, "67%"},
		{1, 8, "13%"}, // 12.5 rounds away from zero
		{3, 8, "38%"}, // 37.5
		{0, 5, "0%"},
		{5, 5, "100%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromCounts(tc.attended, tc.count).RateDisplay(), "%d/%d", tc.attended, tc.count)
	}
}

func TestDisplaysWithoutGathering(t *testing.T) {
	var none Summary
	assert.Equal(t, "-", none.CountDisplay())
	assert.Equal(t, "-", none.RateDisplay())
	assert.Equal(t, 0, none.Rate())
}

func TestDisplaysForEmptyGathering(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, "-", s.CountDisplay())
	assert.Equal(t, "0%", s.RateDisplay())
}

func TestAddKeepsGatheringFlag(t *testing.T) {
	total := Summary{}.Add(FromCounts(1, 3)).Add(Summary{})
	assert.True(t, total.HasGathering)
	assert.Equal(t, "1/3", total.CountDisplay())

	cell := FromCounts(2, 3).Cell()
	assert.Equal(t, 67, cell.Rate)
	assert.Equal(t, "2/3", cell.CountDisplay)
}
