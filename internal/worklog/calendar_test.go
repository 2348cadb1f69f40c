package worklog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tempo/internal/worklog"
)

const (
	testCalendarSubtestTemplateConstant = "%04d_%02d"
	testCalendarFirstYearConstant       = 2020
	testCalendarLastYearConstant        = 2030
)

func TestBusinessDaysCoversWeekdaysOnly(testInstance *testing.T) {
	for year := testCalendarFirstYearConstant; year <= testCalendarLastYearConstant; year++ {
		for month := time.January; month <= time.December; month++ {
			testInstance.Run(fmt.Sprintf(testCalendarSubtestTemplateConstant, year, month), func(testInstance *testing.T) {
				businessDays := worklog.BusinessDays(year, month, time.UTC)

				require.Len(testInstance, businessDays, countWeekdays(year, month))
				for dayIndex, businessDay := range businessDays {
					require.NotEqual(testInstance, time.Saturday, businessDay.Weekday())
					require.NotEqual(testInstance, time.Sunday, businessDay.Weekday())
					require.Equal(testInstance, month, businessDay.Month())
					require.Equal(testInstance, year, businessDay.Year())
					if dayIndex > 0 {
						require.True(testInstance, businessDays[dayIndex-1].Before(businessDay))
					}
				}
			})
		}
	}
}

func TestBusinessDaysUsesRequestedLocation(testInstance *testing.T) {
	location := time.FixedZone("UTC+5", 5*60*60)
	businessDays := worklog.BusinessDays(2026, time.March, location)

	require.NotEmpty(testInstance, businessDays)
	require.Equal(testInstance, time.Date(2026, time.March, 2, 0, 0, 0, 0, location), businessDays[0])
	for _, businessDay := range businessDays {
		require.Equal(testInstance, location, businessDay.Location())
		require.Zero(testInstance, businessDay.Hour())
	}
}

func TestMonthWindowSpansWholeMonth(testInstance *testing.T) {
	windowStart, windowEnd := worklog.MonthWindow(2024, time.February, time.UTC)

	require.Equal(testInstance, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), windowStart)
	require.Equal(testInstance, time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), windowEnd)
}

func TestDateSetIgnoresTimeOfDay(testInstance *testing.T) {
	dateSet := worklog.NewDateSet(time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC))

	require.True(testInstance, dateSet.Contains(time.Date(2026, time.May, 4, 17, 30, 0, 0, time.UTC)))
	require.False(testInstance, dateSet.Contains(time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)))
	require.Equal(testInstance, 1, dateSet.Len())

	var emptySet worklog.DateSet
	require.False(testInstance, emptySet.Contains(time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)))
}

func countWeekdays(year int, month time.Month) int {
	weekdayCount := 0
	for day := 1; day <= 31; day++ {
		candidate := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
		if candidate.Month() != month {
			break
		}
		if candidate.Weekday() != time.Saturday && candidate.Weekday() != time.Sunday {
			weekdayCount++
		}
	}
	return weekdayCount
}
