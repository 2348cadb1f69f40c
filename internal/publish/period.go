package publish

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/prompt"
	"github.com/temirov/tempo/internal/worklog"
)

const (
	dayLayoutConstant                = "2006-01-02"
	periodLabelLayoutConstant        = "January 2006"
	vacationDaysTitleConstant        = "Vacation days"
	skipDaysTitleConstant            = "Days to skip"
	invalidMonthTemplateConstant     = "%w: %d"
	invalidDayTemplateConstant       = "invalid day %q: expected YYYY-MM-DD or a day of the month"
	dayOutsidePeriodTemplateConstant = "%w: %s is not in %s"
)

// Period is the reporting month.
type Period struct {
	Year  int
	Month time.Month
}

// String renders the period as "February 2026".
func (period Period) String() string {
	return time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, time.UTC).Format(periodLabelLayoutConstant)
}

// Window returns the inclusive collection window of the period in location.
func (period Period) Window(location *time.Location) (time.Time, time.Time) {
	return worklog.MonthWindow(period.Year, period.Month, location)
}

// LedgerKey identifies the period in the published worklog ledger.
func (period Period) LedgerKey() string {
	return ledger.PeriodKey(period.Year, period.Month)
}

// DaySelection carries the requested vacation and skip days as typed by the user.
// A nil slice with Provided false means the user should be asked.
type DaySelection struct {
	VacationDays         []string
	VacationDaysProvided bool
	SkipDays             []string
	SkipDaysProvided     bool
}

type periodResolver struct {
	selector Selector
	clock    func() time.Time
	location *time.Location
}

// resolvePeriod fills the unset parts of the period from prompts. A month without a year
// resolves to its most recent occurrence that is not in the future.
func (resolver periodResolver) resolvePeriod(executionContext context.Context, year int, month time.Month) (Period, error) {
	if month < 0 || month > time.December {
		return Period{}, fmt.Errorf(invalidMonthTemplateConstant, ErrInvalidMonth, month)
	}

	now := resolver.clock().In(resolver.location)
	defaultYear, defaultMonth := prompt.DefaultPeriod(now)

	if month != 0 && year == 0 {
		year = now.Year()
		if month > now.Month() {
			year--
		}
	}

	if year == 0 {
		if resolver.selector == nil {
			return Period{}, ErrPeriodRequired
		}
		selectedYear, selectError := resolver.selector.SelectYear(executionContext, prompt.YearChoices(now), defaultYear)
		if selectError != nil {
			return Period{}, translatePromptError(selectError)
		}
		year = selectedYear
	}

	if month == 0 {
		if resolver.selector == nil {
			return Period{}, ErrPeriodRequired
		}
		selectedMonth, selectError := resolver.selector.SelectMonth(executionContext, defaultMonth)
		if selectError != nil {
			return Period{}, translatePromptError(selectError)
		}
		month = selectedMonth
	}

	return Period{Year: year, Month: month}, nil
}

// resolveDays parses provided days or asks for them. Skip candidates exclude the chosen vacation days.
func (resolver periodResolver) resolveDays(executionContext context.Context, period Period, selection DaySelection, businessDays []time.Time) ([]time.Time, []time.Time, error) {
	vacationDays, vacationError := resolver.resolveDayList(executionContext, period, selection.VacationDays, selection.VacationDaysProvided, vacationDaysTitleConstant, businessDays)
	if vacationError != nil {
		return nil, nil, vacationError
	}

	skipCandidates := prompt.ExcludeDays(businessDays, vacationDays)
	skipDays, skipError := resolver.resolveDayList(executionContext, period, selection.SkipDays, selection.SkipDaysProvided, skipDaysTitleConstant, skipCandidates)
	if skipError != nil {
		return nil, nil, skipError
	}

	return vacationDays, skipDays, nil
}

func (resolver periodResolver) resolveDayList(executionContext context.Context, period Period, values []string, provided bool, title string, candidates []time.Time) ([]time.Time, error) {
	if provided || resolver.selector == nil {
		days := make([]time.Time, 0, len(values))
		for _, value := range values {
			day, parseError := ParseDay(value, period, resolver.location)
			if parseError != nil {
				return nil, parseError
			}
			days = append(days, day)
		}
		return days, nil
	}

	selectedDays, selectError := resolver.selector.SelectDays(executionContext, title, candidates)
	if selectError != nil {
		return nil, translatePromptError(selectError)
	}
	return selectedDays, nil
}

// ParseDay reads a YYYY-MM-DD date or a bare day of the month and checks that it falls in period.
func ParseDay(value string, period Period, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.Local
	}
	trimmedValue := strings.TrimSpace(value)

	var day time.Time
	if dayOfMonth, conversionError := strconv.Atoi(trimmedValue); conversionError == nil {
		day = time.Date(period.Year, period.Month, dayOfMonth, 0, 0, 0, 0, location)
		if dayOfMonth < 1 || day.Month() != period.Month {
			return time.Time{}, fmt.Errorf(dayOutsidePeriodTemplateConstant, ErrDayOutsidePeriod, trimmedValue, period)
		}
		return day, nil
	}

	parsedDay, parseError := time.ParseInLocation(dayLayoutConstant, trimmedValue, location)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(invalidDayTemplateConstant, trimmedValue)
	}
	if parsedDay.Year() != period.Year || parsedDay.Month() != period.Month {
		return time.Time{}, fmt.Errorf(dayOutsidePeriodTemplateConstant, ErrDayOutsidePeriod, trimmedValue, period)
	}
	return parsedDay, nil
}

func translatePromptError(promptError error) error {
	if errors.Is(promptError, prompt.ErrAborted) {
		return ErrUserCancelled
	}
	return promptError
}
