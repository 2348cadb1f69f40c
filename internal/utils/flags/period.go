package flags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Period flag names.
const (
	YearFlagName     = "year"
	MonthFlagName    = "month"
	VacationFlagName = "vacation"
	SkipFlagName     = "skip"
)

const (
	yearUsageConstant        = "Reporting year (prompted when omitted)"
	monthUsageConstant       = "Reporting month as a number or name (prompted when omitted)"
	vacationUsageConstant    = "Vacation day as YYYY-MM-DD or day of month; repeatable, empty for none"
	skipUsageConstant        = "Day to leave unlogged as YYYY-MM-DD or day of month; repeatable, empty for none"
	monthNameMinimumLength   = 3
	invalidMonthTemplate     = "%w: %q"
	invalidYearTemplate      = "%w: %d"
	minimumSupportedYear     = 1970
	maximumSupportedYear     = 9999
	monthReadErrorTemplate   = "unable to read --%s: %w"
	dayListReadErrorTemplate = "unable to read --%s: %w"
	yearReadErrorTemplate    = "unable to read --%s: %w"
	monthNumberMinimum       = 1
	monthNumberMaximum       = 12
	emptyMonthDefault        = ""
)

// ErrInvalidMonthFlag reports a --month value that names no month.
var ErrInvalidMonthFlag = errors.New("invalid month")

// ErrInvalidYearFlag reports a --year value outside the supported range.
var ErrInvalidYearFlag = errors.New("invalid year")

// PeriodFlags holds the parsed reporting period flags. Zero values mean "not provided".
type PeriodFlags struct {
	Year                 int
	Month                time.Month
	VacationDays         []string
	VacationDaysProvided bool
	SkipDays             []string
	SkipDaysProvided     bool
}

// BindPeriodFlags attaches --year and --month, and when includeDays is set --vacation and --skip.
func BindPeriodFlags(command *cobra.Command, includeDays bool) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	flagSet.Int(YearFlagName, 0, yearUsageConstant)
	flagSet.String(MonthFlagName, emptyMonthDefault, monthUsageConstant)
	if includeDays {
		flagSet.StringSlice(VacationFlagName, nil, vacationUsageConstant)
		flagSet.StringSlice(SkipFlagName, nil, skipUsageConstant)
	}
}

// ReadPeriodFlags extracts and validates the period flags bound by BindPeriodFlags.
func ReadPeriodFlags(command *cobra.Command) (PeriodFlags, error) {
	if command == nil {
		return PeriodFlags{}, nil
	}
	flagSet := command.Flags()
	values := PeriodFlags{}

	if flagSet.Lookup(YearFlagName) != nil {
		year, yearError := flagSet.GetInt(YearFlagName)
		if yearError != nil {
			return PeriodFlags{}, fmt.Errorf(yearReadErrorTemplate, YearFlagName, yearError)
		}
		if flagSet.Changed(YearFlagName) && (year < minimumSupportedYear || year > maximumSupportedYear) {
			return PeriodFlags{}, fmt.Errorf(invalidYearTemplate, ErrInvalidYearFlag, year)
		}
		values.Year = year
	}

	if flagSet.Lookup(MonthFlagName) != nil {
		monthValue, monthError := flagSet.GetString(MonthFlagName)
		if monthError != nil {
			return PeriodFlags{}, fmt.Errorf(monthReadErrorTemplate, MonthFlagName, monthError)
		}
		if len(strings.TrimSpace(monthValue)) > 0 {
			month, parseError := ParseMonth(monthValue)
			if parseError != nil {
				return PeriodFlags{}, parseError
			}
			values.Month = month
		}
	}

	var listError error
	values.VacationDays, values.VacationDaysProvided, listError = readDayList(command, VacationFlagName)
	if listError != nil {
		return PeriodFlags{}, listError
	}
	values.SkipDays, values.SkipDaysProvided, listError = readDayList(command, SkipFlagName)
	if listError != nil {
		return PeriodFlags{}, listError
	}

	return values, nil
}

// ParseMonth accepts 1-12 or an English month name or its prefix of at least three letters.
func ParseMonth(value string) (time.Month, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if number, numberError := strconv.Atoi(trimmed); numberError == nil {
		if number < monthNumberMinimum || number > monthNumberMaximum {
			return 0, fmt.Errorf(invalidMonthTemplate, ErrInvalidMonthFlag, value)
		}
		return time.Month(number), nil
	}

	if len(trimmed) >= monthNameMinimumLength {
		for month := time.January; month <= time.December; month++ {
			if strings.HasPrefix(strings.ToLower(month.String()), trimmed) {
				return month, nil
			}
		}
	}
	return 0, fmt.Errorf(invalidMonthTemplate, ErrInvalidMonthFlag, value)
}

func readDayList(command *cobra.Command, name string) ([]string, bool, error) {
	flagSet := command.Flags()
	if flagSet.Lookup(name) == nil || !flagSet.Changed(name) {
		return nil, false, nil
	}

	rawValues, readError := flagSet.GetStringSlice(name)
	if readError != nil {
		return nil, false, fmt.Errorf(dayListReadErrorTemplate, name, readError)
	}

	days := make([]string, 0, len(rawValues))
	for _, rawValue := range rawValues {
		if trimmed := strings.TrimSpace(rawValue); len(trimmed) > 0 {
			days = append(days, trimmed)
		}
	}
	return days, true, nil
}
