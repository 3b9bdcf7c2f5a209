package dbtime

import (
	"time"
)

// Range is an inclusive calendar-date window; both ends sit at UTC midnight.
type Range struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// IsEmpty is true for the degenerate range returned when a week does not exist.
func (r Range) IsEmpty() bool {
	return r.Start.IsZero() || r.End.Before(r.Start)
}

func (r Range) Contains(t time.Time) bool {
	if r.IsEmpty() {
		return false
	}
	d := DateOf(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days covered.
func (r Range) Days() int {
	if r.IsEmpty() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the clock and zone of t, keeping its local calendar date.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func MonthRange(year int, month time.Month) Range {
	start := Date(year, month, 1)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

func YearRange(year int) Range {
	return Range{Start: Date(year, time.January, 1), End: Date(year, time.December, 31)}
}

// firstWeekEnd is the first Saturday of the month (weeks run Sunday..Saturday).
func firstWeekEnd(year int, month time.Month) time.Time {
	first := Date(year, month, 1)
	return first.AddDate(0, 0, int(time.Saturday-first.Weekday()))
}

// WeeksInMonth counts the Sunday-anchored reporting weeks of a month.
func WeeksInMonth(year int, month time.Month) int {
	end := MonthRange(year, month).End
	rest := end.Sub(firstWeekEnd(year, month)).Hours() / 24
	return 1 + (int(rest)+6)/7
}

// WeekRange resolves the reporting week of a month. Week 1 runs from day 1 to the first
// Saturday; later weeks run Sunday..Saturday clipped to the month end. A week outside
// 1..WeeksInMonth yields an empty range and ok=false.
func WeekRange(year int, month time.Month, week int) (Range, bool) {
	if month < time.January || month > time.December || week < 1 || week > WeeksInMonth(year, month) {
		return Range{}, false
	}
	mr := MonthRange(year, month)
	w1End := firstWeekEnd(year, month)
	if week == 1 {
		return Range{Start: mr.Start, End: w1End}, true
	}
	start := w1End.AddDate(0, 0, 1+7*(week-2))
	end := start.AddDate(0, 0, 6)
	if end.After(mr.End) {
		end = mr.End
	}
	return Range{Start: start, End: end}, true
}

// WeekIndexOf returns the reporting week of the month that contains t.
func WeekIndexOf(t time.Time) (year int, month time.Month, week int) {
	d := DateOf(t)
	year, month = d.Year(), d.Month()
	for w := 1; w <= WeeksInMonth(year, month); w++ {
		if r, _ := WeekRange(year, month, w); r.Contains(d) {
			return year, month, w
		}
	}
	return year, month, 1
}

// WeekOf returns the Monday..Sunday week containing now, shifted by offset weeks
// (0 this week, -1 last week, +1 next week).
func WeekOf(now time.Time, offset int) Range {
	d := DateOf(now)
	sinceMonday := (int(d.Weekday()) + 6) % 7
	start := d.AddDate(0, 0, -sinceMonday+7*offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}
