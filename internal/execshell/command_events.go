package execshell

// CommandEventObserver is notified as the executor runs each command.
type CommandEventObserver interface {
	// CommandStarted fires before the runner is invoked.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exited, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
