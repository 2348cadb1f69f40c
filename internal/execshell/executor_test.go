package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/tempo/internal/execshell"
)

const (
	testRepositoryPathConstant     = "/work/tempo"
	testFetchArgumentConstant      = "fetch"
	testPruneArgumentConstant      = "--prune"
	testNotARepositoryConstant     = "fatal: not a git repository"
	testExitCodeFieldConstant      = "exit_code"
	testStandardErrorFieldConstant = "stderr"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

func TestNewShellExecutorRequiresCollaborators(testInstance *testing.T) {
	_, missingLogger := execshell.NewShellExecutor(nil, &recordingCommandRunner{})
	require.ErrorIs(testInstance, missingLogger, execshell.ErrLoggerNotConfigured)

	_, missingRunner := execshell.NewShellExecutor(zap.NewNop(), nil)
	require.ErrorIs(testInstance, missingRunner, execshell.ErrCommandRunnerNotConfigured)

	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, executor)
}

func TestShellExecutorLogsFetchOutcomes(testInstance *testing.T) {
	fetchDetails := execshell.CommandDetails{
		Arguments:        []string{testFetchArgumentConstant, testPruneArgumentConstant},
		WorkingDirectory: testRepositoryPathConstant,
	}

	testCases := []struct {
		name          string
		runner        *recordingCommandRunner
		assertError   func(require.TestingT, error)
		finalLevel    zapcore.Level
		expectedField string
	}{
		{
			name:        "fetch succeeds",
			runner:      &recordingCommandRunner{executionResult: execshell.ExecutionResult{StandardOutput: "up to date"}},
			assertError: func(t require.TestingT, executionError error) { require.NoError(t, executionError) },
			finalLevel:  zapcore.DebugLevel,
		},
		{
			name:   "fetch exits non-zero",
			runner: &recordingCommandRunner{executionResult: execshell.ExecutionResult{ExitCode: 128, StandardError: testNotARepositoryConstant}},
			assertError: func(t require.TestingT, executionError error) {
				var failedError execshell.CommandFailedError
				require.ErrorAs(t, executionError, &failedError)
				require.Equal(t, 128, failedError.Result.ExitCode)
			},
			finalLevel:    zapcore.WarnLevel,
			expectedField: testExitCodeFieldConstant,
		},
		{
			name:   "git cannot start",
			runner: &recordingCommandRunner{executionError: errors.New("executable file not found")},
			assertError: func(t require.TestingT, executionError error) {
				var spawnError execshell.CommandExecutionError
				require.ErrorAs(t, executionError, &spawnError)
			},
			finalLevel: zapcore.WarnLevel,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			shellExecutor, creationError := execshell.NewShellExecutor(zap.New(observerCore), testCase.runner)
			require.NoError(testInstance, creationError)

			executionResult, executionError := shellExecutor.ExecuteGit(context.Background(), fetchDetails)
			testCase.assertError(testInstance, executionError)
			if executionError == nil {
				require.Equal(testInstance, "up to date", executionResult.StandardOutput)
			} else {
				require.Empty(testInstance, executionResult.StandardOutput)
			}

			entries := observerLogs.All()
			require.Len(testInstance, entries, 2)
			require.Equal(testInstance, zapcore.DebugLevel, entries[0].Level)
			require.Equal(testInstance, testCase.finalLevel, entries[1].Level)
			require.Equal(testInstance, testRepositoryPathConstant, entries[1].ContextMap()["working_directory"])
			if len(testCase.expectedField) > 0 {
				require.Contains(testInstance, entries[1].ContextMap(), testCase.expectedField)
				require.Equal(testInstance, testNotARepositoryConstant, entries[1].ContextMap()[testStandardErrorFieldConstant])
			}

			require.Len(testInstance, testCase.runner.recordedCommands, 1)
			require.Equal(testInstance, fetchDetails, testCase.runner.recordedCommands[0].Details)
		})
	}
}

func TestShellExecutorGitWrapperSetsCommandName(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.ExecutionResult{ExitCode: 1, StandardError: "fatal: not a git repository"},
	}

	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"config", "--global", "user.email"}})

	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &failedError)
	require.Equal(testInstance, 1, failedError.Result.ExitCode)
	require.Contains(testInstance, executionError.Error(), "not a git repository")
	require.Len(testInstance, recordingRunner.recordedCommands, 1)
	require.Equal(testInstance, execshell.CommandGit, recordingRunner.recordedCommands[0].Name)
}

type recordingObserver struct {
	started   int
	completed int
	failed    int
}

func (eventObserver *recordingObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.started++
}

func (eventObserver *recordingObserver) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {
	eventObserver.completed++
}

func (eventObserver *recordingObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.failed++
}

func TestShellExecutorNotifiesObserver(testInstance *testing.T) {
	eventObserver := &recordingObserver{}
	recordingRunner := &recordingCommandRunner{}

	executor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, execshell.WithCommandEventObserver(eventObserver))
	require.NoError(testInstance, creationError)

	_, executionError := executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"fetch", "--prune"}})
	require.NoError(testInstance, executionError)

	recordingRunner.executionError = errors.New("spawn failure")
	_, executionError = executor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"pull", "--ff-only"}})
	require.ErrorIs(testInstance, executionError, recordingRunner.executionError)

	require.Equal(testInstance, 2, eventObserver.started)
	require.Equal(testInstance, 1, eventObserver.completed)
	require.Equal(testInstance, 1, eventObserver.failed)
}
