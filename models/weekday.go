package models

import (
	"fmt"
	"time"
)

// Weekday is the canonical collection weekday, Monday through Sunday.
// Programs and bindings are always ordered Monday-first, which is also the
// order the day assignment engine walks a zone's programs in.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven canonical weekdays.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// WeekdayOf converts a calendar date to its canonical weekday.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday has Sunday == 0; shift so Monday == 0.
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// DaysUntilFrom returns the forward-only offset in days from t to the next
// occurrence of d. A date whose weekday already equals d yields 0, so "today"
// counts as the next occurrence.
func (d Weekday) DaysUntilFrom(t time.Time) int {
	current := int(WeekdayOf(t))
	target := int(d)
	if target >= current {
		return target - current
	}
	return 7 - current + target
}

// NextDateFrom returns the date of the next occurrence of d on or after t,
// shifted forward by weekOffset whole weeks. The result is truncated to
// midnight in t's location.
func (d Weekday) NextDateFrom(t time.Time, weekOffset int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, weekOffset*7+d.DaysUntilFrom(t))
}

// MinutesToClock renders minutes-from-midnight as HH:MM for notifications.
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
