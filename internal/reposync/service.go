// Package reposync brings tracked repositories up to date before history is read.
package reposync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/execshell"
	"github.com/temirov/tempo/internal/gitlib"
)

const (
	repositoryPathRequiredMessageConstant       = "repository path must be provided"
	gitExecutorMissingMessageConstant           = "git executor not configured"
	gitBranchLookupFailureTemplateConstant      = "failed to determine the current branch of %s: %w"
	gitFetchFailureTemplateConstant             = "failed to fetch updates in %s: %w"
	gitPullFailureTemplateConstant              = "failed to fast-forward %s: %w"
	repositoryUnavailableTemplateConstant       = "repository %s cannot be opened: %v"
	repositorySyncedMessageConstant             = "Repository synchronized"
	repositoryUnavailableMessageConstant        = "Skipping sync of inaccessible repository"
	repositoryPathFieldNameConstant             = "repository"
	branchFieldNameConstant                     = "branch"
	defaultIntegrationBranchConstant            = "develop"
	defaultRemoteNameConstant                   = "origin"
	gitRevParseSubcommandConstant               = "rev-parse"
	gitAbbreviatedReferenceFlagConstant         = "--abbrev-ref"
	gitHeadReferenceConstant                    = "HEAD"
	gitFetchSubcommandConstant                  = "fetch"
	gitFetchPruneFlagConstant                   = "--prune"
	gitPullSubcommandConstant                   = "pull"
	gitPullFastForwardFlagConstant              = "--ff-only"
	gitRefspecTemplateConstant                  = "%s:%s"
	gitTerminalPromptEnvironmentNameConstant    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableConstant = "0"
)

// ErrRepositoryPathRequired indicates the repository path was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// RepositoryUnavailableError reports a tracked path that no longer holds an openable repository.
type RepositoryUnavailableError struct {
	RepositoryPath string
	Err            error
}

func (unavailableError RepositoryUnavailableError) Error() string {
	return fmt.Sprintf(repositoryUnavailableTemplateConstant, unavailableError.RepositoryPath, unavailableError.Err)
}

// Unwrap exposes the underlying open failure.
func (unavailableError RepositoryUnavailableError) Unwrap() error {
	return unavailableError.Err
}

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryChecker verifies that a path can be opened as a repository.
type RepositoryChecker interface {
	Check(repositoryPath string) error
}

// GitRepositoryChecker opens the repository through libgit2 and releases it again.
type GitRepositoryChecker struct{}

// Check reports the libgit2 open failure, if any.
func (GitRepositoryChecker) Check(repositoryPath string) error {
	repository, openError := gitlib.OpenRepository(repositoryPath)
	if openError != nil {
		return openError
	}
	repository.Close()
	return nil
}

// Dependencies enumerates collaborators required for synchronization.
type Dependencies struct {
	GitExecutor GitExecutor
	Checker     RepositoryChecker
	Logger      *zap.Logger
}

// Result lists the repositories that were synchronized and the ones left out.
type Result struct {
	Synchronized         []string
	ExcludedRepositories []error
}

// Service fetches and fast-forwards repositories.
type Service struct {
	executor GitExecutor
	checker  RepositoryChecker
	logger   *zap.Logger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	checker := dependencies.Checker
	if checker == nil {
		checker = GitRepositoryChecker{}
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{executor: dependencies.GitExecutor, checker: checker, logger: logger}, nil
}

// Sync updates the local integration branch of the repository.
// A checked-out branch is fast-forwarded with git pull --ff-only after git fetch --prune;
// otherwise the branch is advanced in place with git fetch --prune origin <branch>:<branch>.
// Credential prompts are disabled so an unattended run fails instead of hanging.
func (service *Service) Sync(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		trimmedBranchName = defaultIntegrationBranchConstant
	}

	currentBranch, lookupError := service.executeGit(executionContext, trimmedRepositoryPath, gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlagConstant, gitHeadReferenceConstant)
	if lookupError != nil {
		return fmt.Errorf(gitBranchLookupFailureTemplateConstant, trimmedRepositoryPath, lookupError)
	}

	if strings.TrimSpace(currentBranch) != trimmedBranchName {
		refspec := fmt.Sprintf(gitRefspecTemplateConstant, trimmedBranchName, trimmedBranchName)
		if _, fetchError := service.executeGit(executionContext, trimmedRepositoryPath, gitFetchSubcommandConstant, gitFetchPruneFlagConstant, defaultRemoteNameConstant, refspec); fetchError != nil {
			return fmt.Errorf(gitFetchFailureTemplateConstant, trimmedRepositoryPath, fetchError)
		}
		service.logSynced(trimmedRepositoryPath, trimmedBranchName)
		return nil
	}

	if _, fetchError := service.executeGit(executionContext, trimmedRepositoryPath, gitFetchSubcommandConstant, gitFetchPruneFlagConstant); fetchError != nil {
		return fmt.Errorf(gitFetchFailureTemplateConstant, trimmedRepositoryPath, fetchError)
	}

	if _, pullError := service.executeGit(executionContext, trimmedRepositoryPath, gitPullSubcommandConstant, gitPullFastForwardFlagConstant); pullError != nil {
		return fmt.Errorf(gitPullFailureTemplateConstant, trimmedRepositoryPath, pullError)
	}

	service.logSynced(trimmedRepositoryPath, trimmedBranchName)
	return nil
}

// SyncAll synchronizes repositories in order. Paths that cannot be opened are
// excluded and reported; any other failure stops the loop.
func (service *Service) SyncAll(executionContext context.Context, repositoryPaths []string, branchName string) (Result, error) {
	result := Result{}
	for _, repositoryPath := range repositoryPaths {
		if contextError := executionContext.Err(); contextError != nil {
			return result, contextError
		}
		if checkError := service.checker.Check(repositoryPath); checkError != nil {
			service.logger.Warn(repositoryUnavailableMessageConstant,
				zap.String(repositoryPathFieldNameConstant, repositoryPath),
				zap.Error(checkError),
			)
			result.ExcludedRepositories = append(result.ExcludedRepositories, RepositoryUnavailableError{RepositoryPath: repositoryPath, Err: checkError})
			continue
		}
		if syncError := service.Sync(executionContext, repositoryPath, branchName); syncError != nil {
			return result, syncError
		}
		result.Synchronized = append(result.Synchronized, repositoryPath)
	}
	return result, nil
}

func (service *Service) logSynced(repositoryPath string, branchName string) {
	service.logger.Debug(repositorySyncedMessageConstant,
		zap.String(repositoryPathFieldNameConstant, repositoryPath),
		zap.String(branchFieldNameConstant, branchName),
	)
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	result, executionError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableConstant,
		},
	})
	return result.StandardOutput, executionError
}
