package dbtime

import "time"

// BirthdayInRange matches a birthday against a window by (month, day), ignoring the year.
// Windows spanning two months (including December into January) are matched per side.
func BirthdayInRange(birthday time.Time, r Range) bool {
	if birthday.IsZero() || r.IsEmpty() {
		return false
	}
	bm, bd := birthday.Month(), birthday.Day()
	sm, sd := r.Start.Month(), r.Start.Day()
	em, ed := r.End.Month(), r.End.Day()

	if sm == em {
		return bm == sm && bd >= sd && bd <= ed
	}
	return (bm == sm && bd >= sd) || (bm == em && bd <= ed)
}

// NextBirthday is the first occurrence of the birthday on or after r.Start.
func NextBirthday(birthday time.Time, r Range) time.Time {
	y := r.Start.Year()
	d := Date(y, birthday.Month(), birthday.Day())
	if d.Before(r.Start) {
		d = Date(y+1, birthday.Month(), birthday.Day())
	}
	return d
}
