package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandWithArgumentsTemplateConstant    = "%s %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	referencesJoinSeparatorConstant         = ", "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	flagPrefixConstant                      = "-"
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	gitFetchAllRemotesLabelConstant         = "all remotes"
	gitFetchSubjectTemplateConstant         = "%s from %s in %s"
	gitFetchRemoteSubjectTemplateConstant   = "from %s in %s"
)

const (
	gitFetchSubcommandNameConstant  = "fetch"
	gitPullSubcommandNameConstant   = "pull"
	gitConfigSubcommandNameConstant = "config"
)

// subcommandTemplates holds one format per stage. Start and success take the subject;
// failure takes the subject, exit code and stderr suffix; execution failure takes the subject and cause.
type subcommandTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var gitSubcommandTemplates = map[string]subcommandTemplates{
	gitFetchSubcommandNameConstant: {
		start:            "Fetching %s",
		success:          "Fetched %s",
		failure:          "Failed to fetch %s (exit code %d%s)",
		executionFailure: "Unable to fetch %s: %s",
	},
	gitPullSubcommandNameConstant: {
		start:            "Fast-forwarding %s",
		success:          "Fast-forwarded %s",
		failure:          "Failed to fast-forward %s (exit code %d%s)",
		executionFailure: "Unable to fast-forward %s: %s",
	},
	gitConfigSubcommandNameConstant: {
		start:            "Reading git configuration value %s",
		success:          "Read git configuration value %s",
		failure:          "Git configuration value %s is not available (exit code %d%s)",
		executionFailure: "Unable to read git configuration value %s: %s",
	},
}

var genericTemplates = subcommandTemplates{
	start:            genericStartTemplateConstant,
	success:          genericSuccessTemplateConstant,
	failure:          genericFailureTemplateConstant,
	executionFailure: genericExecutionFailureTemplateConstant,
}

// CommandMessageFormatter renders human-readable lifecycle messages for shell commands.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	templates, subject := formatter.resolveTemplates(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, result.ExitCode, standardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, describeFailure(failure))
	default:
		return ""
	}
}

// resolveTemplates picks the templates for known git subcommands and describes what they act on.
// Anything else is rendered as the full command line.
func (formatter CommandMessageFormatter) resolveTemplates(command ShellCommand) (subcommandTemplates, string) {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return genericTemplates, commandLabel(command)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	templates, known := gitSubcommandTemplates[subcommand]
	if !known {
		return genericTemplates, commandLabel(command)
	}

	switch subcommand {
	case gitFetchSubcommandNameConstant:
		return templates, fetchSubject(command)
	case gitConfigSubcommandNameConstant:
		positional := positionalArguments(command.Details.Arguments[1:])
		if len(positional) == 0 {
			return templates, fallbackUnknownValueLabelConstant
		}
		return templates, positional[len(positional)-1]
	default:
		return templates, workingDirectoryLabel(command)
	}
}

func fetchSubject(command ShellCommand) string {
	workingDirectory := workingDirectoryLabel(command)
	positional := positionalArguments(command.Details.Arguments[1:])
	if len(positional) == 0 {
		return fmt.Sprintf(gitFetchRemoteSubjectTemplateConstant, gitFetchAllRemotesLabelConstant, workingDirectory)
	}
	if len(positional) == 1 {
		return fmt.Sprintf(gitFetchRemoteSubjectTemplateConstant, positional[0], workingDirectory)
	}
	return fmt.Sprintf(gitFetchSubjectTemplateConstant, strings.Join(positional[1:], referencesJoinSeparatorConstant), positional[0], workingDirectory)
}

func commandLabel(command ShellCommand) string {
	label := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		label = fmt.Sprintf(commandWithArgumentsTemplateConstant, label, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		label += fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
	}
	return label
}

func workingDirectoryLabel(command ShellCommand) string {
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		return workingDirectory
	}
	return defaultWorkingDirectoryLabelConstant
}

func standardErrorSuffix(standardError string) string {
	trimmed := strings.TrimSpace(standardError)
	if len(trimmed) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmed)
}

func describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// positionalArguments drops flags and blank values.
func positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		positional = append(positional, trimmed)
	}
	return positional
}
