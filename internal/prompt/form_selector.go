package prompt

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
)

const (
	yearTitleConstant         = "Year"
	monthTitleConstant        = "Month"
	affirmativeLabelConstant  = "Yes"
	negativeLabelConstant     = "No"
	multiSelectHeightConstant = 12
)

// FormSelector asks questions with charmbracelet/huh forms.
type FormSelector struct {
	input  io.Reader
	output io.Writer
}

// NewFormSelector constructs a FormSelector bound to the provided streams.
func NewFormSelector(input io.Reader, output io.Writer) *FormSelector {
	return &FormSelector{input: input, output: output}
}

// SelectYear offers the provided years with defaultYear highlighted.
func (selector *FormSelector) SelectYear(selectionContext context.Context, choices []int, defaultYear int) (int, error) {
	selectedYear := defaultYear
	options := make([]huh.Option[int], 0, len(choices))
	for _, choice := range choices {
		options = append(options, huh.NewOption(strconv.Itoa(choice), choice))
	}

	field := huh.NewSelect[int]().
		Title(yearTitleConstant).
		Options(options...).
		Value(&selectedYear)
	if runError := selector.run(selectionContext, field); runError != nil {
		return 0, runError
	}
	return selectedYear, nil
}

// SelectMonth offers every month with defaultMonth highlighted.
func (selector *FormSelector) SelectMonth(selectionContext context.Context, defaultMonth time.Month) (time.Month, error) {
	selectedMonth := defaultMonth
	monthChoices := MonthChoices()
	options := make([]huh.Option[time.Month], 0, len(monthChoices))
	for _, month := range monthChoices {
		options = append(options, huh.NewOption(month.String(), month))
	}

	field := huh.NewSelect[time.Month]().
		Title(monthTitleConstant).
		Options(options...).
		Value(&selectedMonth)
	if runError := selector.run(selectionContext, field); runError != nil {
		return 0, runError
	}
	return selectedMonth, nil
}

// SelectDays lets the user pick any subset of days. Nothing is asked when days is empty.
func (selector *FormSelector) SelectDays(selectionContext context.Context, title string, days []time.Time) ([]time.Time, error) {
	if len(days) == 0 {
		return nil, nil
	}

	options := make([]huh.Option[string], 0, len(days))
	for _, day := range days {
		options = append(options, huh.NewOption(DayLabel(day), DayKey(day)))
	}

	var selectedKeys []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(options...).
		Height(multiSelectHeightConstant).
		Value(&selectedKeys)
	if runError := selector.run(selectionContext, field); runError != nil {
		return nil, runError
	}

	selectedKeySet := make(map[string]struct{}, len(selectedKeys))
	for _, key := range selectedKeys {
		selectedKeySet[key] = struct{}{}
	}
	selectedDays := make([]time.Time, 0, len(selectedKeys))
	for _, day := range days {
		if _, selected := selectedKeySet[DayKey(day)]; selected {
			selectedDays = append(selectedDays, day)
		}
	}
	return selectedDays, nil
}

// SelectValues lets the user pick any subset of values, returned in their original order.
func (selector *FormSelector) SelectValues(selectionContext context.Context, title string, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	var selectedValues []string
	field := huh.NewMultiSelect[string]().
		Title(title).
		Options(huh.NewOptions(values...)...).
		Height(multiSelectHeightConstant).
		Value(&selectedValues)
	if runError := selector.run(selectionContext, field); runError != nil {
		return nil, runError
	}

	selectedSet := make(map[string]struct{}, len(selectedValues))
	for _, value := range selectedValues {
		selectedSet[value] = struct{}{}
	}
	ordered := make([]string, 0, len(selectedValues))
	for _, value := range values {
		if _, selected := selectedSet[value]; selected {
			ordered = append(ordered, value)
		}
	}
	return ordered, nil
}

// Confirm asks a yes/no question.
func (selector *FormSelector) Confirm(confirmationContext context.Context, question string) (bool, error) {
	confirmed := false
	field := huh.NewConfirm().
		Title(question).
		Affirmative(affirmativeLabelConstant).
		Negative(negativeLabelConstant).
		Value(&confirmed)
	if runError := selector.run(confirmationContext, field); runError != nil {
		return false, runError
	}
	return confirmed, nil
}

func (selector *FormSelector) run(formContext context.Context, field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithShowHelp(true)
	if selector.input != nil {
		form = form.WithInput(selector.input)
	}
	if selector.output != nil {
		form = form.WithOutput(selector.output)
	}
	return translateFormError(form.RunWithContext(formContext))
}
