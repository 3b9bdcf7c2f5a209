package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBirthdayInRangeAcrossMonths(t *testing.T) {
	r := Range{Start: Date(2024, time.January, 29), End: Date(2024, time.February, 4)}

	assert.True(t, BirthdayInRange(Date(1980, time.February, 2), r))
	assert.True(t, BirthdayInRange(Date(1995, time.January, 31), r))
	assert.False(t, BirthdayInRange(Date(1990, time.January, 15), r))
	assert.False(t, BirthdayInRange(Date(1990, time.February, 5), r))
}

func TestBirthdayInRangeSameMonth(t *testing.T) {
	r := Range{Start: Date(2026, time.October, 19), End: Date(2026, time.October, 25)}

	assert.True(t, BirthdayInRange(Date(1970, time.October, 19), r))
	assert.True(t, BirthdayInRange(Date(2001, time.October, 25), r))
	assert.False(t, BirthdayInRange(Date(2001, time.October, 26), r))
	assert.False(t, BirthdayInRange(Date(2001, time.November, 20), r))
}

func TestBirthdayInRangeYearWrap(t *testing.T) {
	r := WeekOf(Date(2025, time.December, 31), 0) // Mon 29 Dec .. Sun 4 Jan
	assert.True(t, BirthdayInRange(Date(1988, time.January, 3), r))
	assert.True(t, BirthdayInRange(Date(1988, time.December, 30), r))
	assert.False(t, BirthdayInRange(Date(1988, time.December, 1), r))

	assert.Equal(t, Date(2026, time.January, 3), NextBirthday(Date(1988, time.January, 3), r))
}

func TestBirthdayInRangeEmpty(t *testing.T) {
	assert.False(t, BirthdayInRange(Date(1988, time.January, 3), Range{}))
	assert.False(t, BirthdayInRange(time.Time{}, WeekOf(Date(2026, time.January, 1), 0)))
}
