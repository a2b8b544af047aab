package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Monday, June 2nd 2025.
var mondayRef = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

func TestWeekdayOfShiftsSundayToEnd(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(mondayRef))
	assert.Equal(t, Tuesday, WeekdayOf(mondayRef.AddDate(0, 0, 1)))
	assert.Equal(t, Saturday, WeekdayOf(mondayRef.AddDate(0, 0, 5)))
	assert.Equal(t, Sunday, WeekdayOf(mondayRef.AddDate(0, 0, 6)))
	assert.Equal(t, Monday, WeekdayOf(mondayRef.AddDate(0, 0, 7)))
}

func TestDaysUntilFromIsForwardOnly(t *testing.T) {
	wednesday := mondayRef.AddDate(0, 0, 2)

	// Same weekday counts as today.
	assert.Equal(t, 0, Wednesday.DaysUntilFrom(wednesday))
	assert.Equal(t, 2, Friday.DaysUntilFrom(wednesday))
	assert.Equal(t, 4, Sunday.DaysUntilFrom(wednesday))
	// Earlier weekdays wrap into next week instead of going backwards.
	assert.Equal(t, 5, Monday.DaysUntilFrom(wednesday))
	assert.Equal(t, 6, Tuesday.DaysUntilFrom(wednesday))
}

func TestNextDateFromTruncatesToMidnight(t *testing.T) {
	got := Thursday.NextDateFrom(mondayRef, 0)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), got)

	// Week offsets shift whole weeks.
	got = Thursday.NextDateFrom(mondayRef, 2)
	assert.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), got)

	// Same weekday with no offset is today at midnight.
	got = Monday.NextDateFrom(mondayRef, 0)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestWeekdayStringAndValid(t *testing.T) {
	assert.Equal(t, "Monday", Monday.String())
	assert.Equal(t, "Sunday", Sunday.String())
	assert.Equal(t, "Weekday(7)", Weekday(7).String())

	assert.True(t, Wednesday.Valid())
	assert.False(t, Weekday(-1).Valid())
	assert.False(t, Weekday(7).Valid())
}

func TestMinutesToClock(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToClock(0))
	assert.Equal(t, "08:05", MinutesToClock(8*60+5))
	assert.Equal(t, "17:30", MinutesToClock(17*60+30))
}
