package prompt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tempo/internal/prompt"
)

func TestDefaultPeriodSelectsPreviousMonth(testInstance *testing.T) {
	testCases := []struct {
		name          string
		now           time.Time
		expectedYear  int
		expectedMonth time.Month
	}{
		{name: "mid_year", now: time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), expectedYear: 2026, expectedMonth: time.September},
		{name: "january_rolls_back", now: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), expectedYear: 2025, expectedMonth: time.December},
		{name: "month_end", now: time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC), expectedYear: 2026, expectedMonth: time.February},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			year, month := prompt.DefaultPeriod(testCase.now)
			require.Equal(testInstance, testCase.expectedYear, year)
			require.Equal(testInstance, testCase.expectedMonth, month)
		})
	}
}

func TestYearAndMonthChoices(testInstance *testing.T) {
	require.Equal(testInstance, []int{2026, 2025}, prompt.YearChoices(time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)))

	months := prompt.MonthChoices()
	require.Len(testInstance, months, 12)
	require.Equal(testInstance, time.January, months[0])
	require.Equal(testInstance, time.December, months[11])
}

func TestDayLabelsAndExclusion(testInstance *testing.T) {
	monday := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	wednesday := monday.AddDate(0, 0, 2)

	require.Equal(testInstance, "Mon, 02 Feb 2026", prompt.DayLabel(monday))
	require.Equal(testInstance, "2026-02-03", prompt.DayKey(tuesday))
	require.Equal(testInstance, []time.Time{monday, wednesday}, prompt.ExcludeDays([]time.Time{monday, tuesday, wednesday}, []time.Time{tuesday}))
	require.Empty(testInstance, prompt.ExcludeDays(nil, []time.Time{tuesday}))
}

func TestSelectDaysWithoutCandidatesAsksNothing(testInstance *testing.T) {
	selector := prompt.NewFormSelector(nil, nil)

	selected, selectError := selector.SelectDays(context.Background(), "Vacation days", nil)

	require.NoError(testInstance, selectError)
	require.Empty(testInstance, selected)
}
