package ui

import (
	"io"

	"github.com/temirov/tempo/internal/execshell"
)

const (
	commandStartedPrefixConstant   = "  > "
	commandCompletedPrefixConstant = "  + "
	commandFailedPrefixConstant    = "  ! "
	lineTerminatorConstant         = "\n"
)

// CommandReporter prints git command lifecycle events as console lines.
type CommandReporter struct {
	writer    io.Writer
	palette   Palette
	formatter execshell.CommandMessageFormatter
}

// NewCommandReporter constructs a reporter writing to writer. A nil writer discards output.
func NewCommandReporter(writer io.Writer, palette Palette) *CommandReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &CommandReporter{writer: writer, palette: palette, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (reporter *CommandReporter) CommandStarted(command execshell.ShellCommand) {
	if reporter == nil {
		return
	}
	reporter.palette.Muted.Fprint(reporter.writer, commandStartedPrefixConstant+reporter.formatter.BuildStartedMessage(command)+lineTerminatorConstant)
}

// CommandCompleted implements execshell.CommandEventObserver.
func (reporter *CommandReporter) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if reporter == nil {
		return
	}
	if result.ExitCode == 0 {
		reporter.palette.Success.Fprint(reporter.writer, commandCompletedPrefixConstant+reporter.formatter.BuildSuccessMessage(command)+lineTerminatorConstant)
		return
	}
	reporter.palette.Warning.Fprint(reporter.writer, commandFailedPrefixConstant+reporter.formatter.BuildFailureMessage(command, result)+lineTerminatorConstant)
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (reporter *CommandReporter) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if reporter == nil {
		return
	}
	reporter.palette.Failure.Fprint(reporter.writer, commandFailedPrefixConstant+reporter.formatter.BuildExecutionFailureMessage(command, failure)+lineTerminatorConstant)
}
