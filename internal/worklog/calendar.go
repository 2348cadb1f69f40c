package worklog

import (
	"time"
)

const (
	dateKeyLayoutConstant = "2006-01-02"
)

// BusinessDays returns the Monday through Friday dates of the month in ascending order.
// Each date is midnight in the supplied location; a nil location means time.Local.
func BusinessDays(year int, month time.Month, location *time.Location) []time.Time {
	if location == nil {
		location = time.Local
	}

	firstDay := time.Date(year, month, 1, 0, 0, 0, 0, location)
	businessDays := make([]time.Time, 0, 23)
	for day := firstDay; day.Month() == firstDay.Month(); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		businessDays = append(businessDays, day)
	}
	return businessDays
}

// MonthWindow returns the inclusive collection window covering the whole month.
func MonthWindow(year int, month time.Month, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.Local
	}
	windowStart := time.Date(year, month, 1, 0, 0, 0, 0, location)
	windowEnd := windowStart.AddDate(0, 1, 0).Add(-time.Second)
	return windowStart, windowEnd
}

// DateSet holds calendar dates keyed by their year, month, and day.
type DateSet map[string]struct{}

// NewDateSet builds a DateSet from the provided dates, ignoring the time of day.
func NewDateSet(dates ...time.Time) DateSet {
	set := make(DateSet, len(dates))
	for _, date := range dates {
		set.Add(date)
	}
	return set
}

// Add inserts the calendar date of the provided instant.
func (set DateSet) Add(date time.Time) {
	set[dateKey(date)] = struct{}{}
}

// Contains reports whether the calendar date of the provided instant is present.
func (set DateSet) Contains(date time.Time) bool {
	if set == nil {
		return false
	}
	_, present := set[dateKey(date)]
	return present
}

// Len returns the number of distinct dates.
func (set DateSet) Len() int {
	return len(set)
}

func dateKey(date time.Time) string {
	return date.Format(dateKeyLayoutConstant)
}
