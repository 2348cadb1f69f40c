package prompt

import (
	"time"
)

const (
	dayLabelLayoutConstant  = "Mon, 02 Jan 2006"
	dayKeyLayoutConstant    = "2006-01-02"
	yearChoiceCountConstant = 2
)

// DefaultPeriod returns the month preceding now, rolling the year back in January.
func DefaultPeriod(now time.Time) (int, time.Month) {
	previous := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return previous.Year(), previous.Month()
}

// YearChoices lists the current and the previous year, newest first.
func YearChoices(now time.Time) []int {
	choices := make([]int, 0, yearChoiceCountConstant)
	for offset := 0; offset < yearChoiceCountConstant; offset++ {
		choices = append(choices, now.Year()-offset)
	}
	return choices
}

// MonthChoices lists January through December.
func MonthChoices() []time.Month {
	choices := make([]time.Month, 0, 12)
	for month := time.January; month <= time.December; month++ {
		choices = append(choices, month)
	}
	return choices
}

// DayLabel renders a calendar day for selection lists.
func DayLabel(day time.Time) string {
	return day.Format(dayLabelLayoutConstant)
}

// DayKey renders the stable identifier of a calendar day.
func DayKey(day time.Time) string {
	return day.Format(dayKeyLayoutConstant)
}

// ExcludeDays returns the days not present in excluded, preserving order.
func ExcludeDays(days []time.Time, excluded []time.Time) []time.Time {
	excludedKeys := make(map[string]struct{}, len(excluded))
	for _, day := range excluded {
		excludedKeys[DayKey(day)] = struct{}{}
	}
	remaining := make([]time.Time, 0, len(days))
	for _, day := range days {
		if _, found := excludedKeys[DayKey(day)]; found {
			continue
		}
		remaining = append(remaining, day)
	}
	return remaining
}
