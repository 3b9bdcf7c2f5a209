package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekRangePartitionsMonth(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		for m := time.January; m <= time.December; m++ {
			mr := MonthRange(year, m)
			n := WeeksInMonth(year, m)
			require.GreaterOrEqual(t, n, 4)
			require.LessOrEqual(t, n, 6)

			next := mr.Start
			for w := 1; w <= n; w++ {
				r, ok := WeekRange(year, m, w)
				require.True(t, ok, "%d-%02d week %d", year, m, w)
				assert.Equal(t, next, r.Start, "%d-%02d week %d starts right after the previous week", year, m, w)
				assert.False(t, r.End.Before(r.Start))
				if w == 1 {
					assert.Equal(t, 1, r.Start.Day())
				} else {
					assert.Equal(t, time.Sunday, r.Start.Weekday())
				}
				if r.End != mr.End {
					assert.Equal(t, time.Saturday, r.End.Weekday())
				}
				next = r.End.AddDate(0, 0, 1)
			}
			assert.Equal(t, mr.End.AddDate(0, 0, 1), next, "%d-%02d weeks cover the whole month", year, m)
		}
	}
}

func TestWeekRangeKnownMonth(t *testing.T) {
	// October 2026 starts on a Thursday.
	r, ok := WeekRange(2026, time.October, 1)
	require.True(t, ok)
	assert.Equal(t, Date(2026, time.October, 1), r.Start)
	assert.Equal(t, Date(2026, time.October, 3), r.End)

	r, ok = WeekRange(2026, time.October, 5)
	require.True(t, ok)
	assert.Equal(t, Date(2026, time.October, 25), r.Start)
	assert.Equal(t, Date(2026, time.October, 31), r.End)
}

func TestWeekRangeOutOfMonthIsDegenerate(t *testing.T) {
	n := WeeksInMonth(2026, time.October)
	r, ok := WeekRange(2026, time.October, n+1)
	assert.False(t, ok)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Days())

	_, ok = WeekRange(2026, time.October, 0)
	assert.False(t, ok)
	_, ok = WeekRange(2026, time.Month(13), 1)
	assert.False(t, ok)
}

func TestWeekIndexOf(t *testing.T) {
	y, m, w := WeekIndexOf(time.Date(2026, time.October, 19, 15, 0, 0, 0, time.UTC))
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.October, m)
	assert.Equal(t, 4, w)
}

func TestWeekOfMondayAnchored(t *testing.T) {
	// 2026-10-19 is a Monday, 2026-10-25 a Sunday.
	r := WeekOf(time.Date(2026, time.October, 25, 23, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, Date(2026, time.October, 19), r.Start)
	assert.Equal(t, Date(2026, time.October, 25), r.End)

	prev := WeekOf(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), -1)
	assert.Equal(t, Date(2026, time.October, 12), prev.Start)

	next := WeekOf(time.Date(2026, time.October, 21, 0, 0, 0, 0, time.UTC), 1)
	assert.Equal(t, Date(2026, time.October, 26), next.Start)
	assert.Equal(t, Date(2026, time.November, 1), next.End)
}

func TestMonthAndYearRange(t *testing.T) {
	feb := MonthRange(2028, time.February)
	assert.Equal(t, 29, feb.End.Day())
	assert.Equal(t, 29, feb.Days())

	y := YearRange(2026)
	assert.True(t, y.Contains(time.Date(2026, time.December, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, y.Contains(Date(2027, time.January, 1)))
}
