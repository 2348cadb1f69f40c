package ui

import (
	"fmt"
	"io"
)

const (
	stepTemplateConstant    = "[%d/%d] %s\n"
	messageTemplateConstant = "%s\n"
)

// StepReporter prints numbered progress steps and status lines.
type StepReporter struct {
	writer     io.Writer
	palette    Palette
	totalSteps int
	current    int
}

// NewStepReporter constructs a reporter announcing totalSteps steps.
func NewStepReporter(writer io.Writer, palette Palette, totalSteps int) *StepReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &StepReporter{writer: writer, palette: palette, totalSteps: totalSteps}
}

// Step advances the counter and prints the step line, e.g. "[1/4] Syncing repositories...".
func (reporter *StepReporter) Step(message string) {
	if reporter.current < reporter.totalSteps {
		reporter.current++
	}
	reporter.palette.Step.Fprintf(reporter.writer, stepTemplateConstant, reporter.current, reporter.totalSteps, message)
}

// Info prints an uncolored line.
func (reporter *StepReporter) Info(format string, arguments ...any) {
	fmt.Fprintf(reporter.writer, messageTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Success prints a green line.
func (reporter *StepReporter) Success(format string, arguments ...any) {
	reporter.palette.Success.Fprintf(reporter.writer, messageTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Warning prints a yellow line.
func (reporter *StepReporter) Warning(format string, arguments ...any) {
	reporter.palette.Warning.Fprintf(reporter.writer, messageTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Failure prints a red line.
func (reporter *StepReporter) Failure(format string, arguments ...any) {
	reporter.palette.Failure.Fprintf(reporter.writer, messageTemplateConstant, fmt.Sprintf(format, arguments...))
}

// Writer exposes the destination for callers rendering tables.
func (reporter *StepReporter) Writer() io.Writer {
	return reporter.writer
}
