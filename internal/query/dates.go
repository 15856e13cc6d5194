package query

import "time"

// calendarDay collapses t to its calendar date in loc, re-anchored in UTC so
// that day arithmetic is immune to DST transitions.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole calendar days between now's date and due's
// date, evaluated in now's location. 0 means same day, negative means past.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	return int(calendarDay(due, loc).Sub(calendarDay(now, loc)).Hours() / 24)
}

func IsToday(due, now time.Time) bool {
	return DaysUntil(due, now) == 0
}

func IsTomorrow(due, now time.Time) bool {
	return DaysUntil(due, now) == 1
}

// IsPastDay reports whether due falls strictly before the start of now's
// calendar day.
func IsPastDay(due, now time.Time) bool {
	return DaysUntil(due, now) < 0
}
