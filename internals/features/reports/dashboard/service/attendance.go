package service

import (
	"math"
	"strconv"
)

// Summary is the attendance of one flag over one or more gatherings. Count is the number
// of attendance lines; only a strict true counts as attended.
type Summary struct {
	HasGathering bool
	Count        int
	Attended     int
}

// Summarize folds the flags of one gathering. Nil and false are both absent.
func Summarize(flags []*bool) Summary {
	s := Summary{HasGathering: true, Count: len(flags)}
	for _, f := range flags {
		if f != nil && *f {
			s.Attended++
		}
	}
	return s
}

// FromCounts builds the summary of an existing gathering from SQL aggregates.
func FromCounts(attended, count int) Summary {
	return Summary{HasGathering: true, Count: count, Attended: attended}
}

// Add merges two summaries; the result has a gathering if either side has one.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		HasGathering: s.HasGathering || o.HasGathering,
		Count:        s.Count + o.Count,
		Attended:     s.Attended + o.Attended,
	}
}

// Rate is round(attended/count*100), half away from zero; 0 when count is 0.
func (s Summary) Rate() int {
	if s.Count == 0 {
		return 0
	}
	return int(math.Round(float64(s.Attended) / float64(s.Count) * 100))
}

// CountDisplay renders "attended/count", or "-" when there is nothing to count.
func (s Summary) CountDisplay() string {
	if !s.HasGathering || s.Count == 0 {
		return "-"
	}
	return strconv.Itoa(s.Attended) + "/" + strconv.Itoa(s.Count)
}

// RateDisplay renders "NN%". No gathering is "-"; a gathering without members is "0%".
func (s Summary) RateDisplay() string {
	if !s.HasGathering {
		return "-"
	}
	return strconv.Itoa(s.Rate()) + "%"
}

// Cell is the JSON shape of a summary.
type Cell struct {
	Attended     int    `json:"attended"`
	Count        int    `json:"count"`
	Rate         int    `json:"rate"`
	CountDisplay string `json:"count_display"`
	RateDisplay  string `json:"rate_display"`
}

func (s Summary) Cell() Cell {
	return Cell{
		Attended:     s.Attended,
		Count:        s.Count,
		Rate:         s.Rate(),
		CountDisplay: s.CountDisplay(),
		RateDisplay:  s.RateDisplay(),
	}
}
