package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/gitlib"
	"github.com/temirov/tempo/internal/worklog"
)

const (
	// DefaultIntegrationBranch is walked when no branch is configured.
	DefaultIntegrationBranch = "develop"

	repositoryAccessWarningMessageConstant = "Skipping inaccessible repository"
	missingBranchWarningMessageConstant    = "Skipping repository without integration branch"
	repositoryCollectedMessageConstant     = "Collected ticket commits"
	walkFailureTemplateConstant            = "walk repository %s: %w"
	repositoryPathFieldNameConstant        = "repository"
	branchFieldNameConstant                = "branch"
	occurrenceCountFieldNameConstant       = "occurrences"
)

// ErrOpenerNotConfigured indicates that no repository opener was supplied.
var ErrOpenerNotConfigured = errors.New("repository opener not configured")

// History walks the commit graph of one repository.
type History interface {
	WalkBranch(branchName string, visit func(gitlib.Commit) bool) error
	Close()
}

// RepositoryOpener opens repository histories by path.
type RepositoryOpener interface {
	Open(repositoryPath string) (History, error)
}

// GitRepositoryOpener opens on-disk repositories through libgit2.
type GitRepositoryOpener struct{}

// Open opens the repository at repositoryPath.
func (GitRepositoryOpener) Open(repositoryPath string) (History, error) {
	repository, openError := gitlib.OpenRepository(repositoryPath)
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}

// Window is the inclusive reporting interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Options configures collection behavior.
type Options struct {
	IntegrationBranch   string
	MissingBranchPolicy MissingBranchPolicy
}

// Dependencies enumerates collaborators required by the service.
type Dependencies struct {
	Opener RepositoryOpener
	Logger *zap.Logger
}

// Result holds collected occurrences and the repositories that were excluded.
type Result struct {
	Occurrences          []worklog.CommitOccurrence
	ExcludedRepositories []error
}

// Service collects commit occurrences across repositories.
type Service struct {
	opener  RepositoryOpener
	logger  *zap.Logger
	options Options
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies, options Options) (*Service, error) {
	if dependencies.Opener == nil {
		return nil, ErrOpenerNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(options.IntegrationBranch) == 0 {
		options.IntegrationBranch = DefaultIntegrationBranch
	}
	if len(options.MissingBranchPolicy) == 0 {
		options.MissingBranchPolicy = MissingBranchPolicyAbort
	}
	return &Service{opener: dependencies.Opener, logger: logger, options: options}, nil
}

// Collect walks every repository in order and returns the matching occurrences.
// Inaccessible repositories are excluded; a missing integration branch follows the configured policy.
func (service *Service) Collect(executionContext context.Context, repositoryPaths []string, window Window, identity Identity) (Result, error) {
	result := Result{}

	for _, repositoryPath := range repositoryPaths {
		if contextError := executionContext.Err(); contextError != nil {
			return result, contextError
		}

		occurrences, collectError := service.collectRepository(repositoryPath, window, identity)
		if collectError == nil {
			result.Occurrences = append(result.Occurrences, occurrences...)
			service.logger.Debug(repositoryCollectedMessageConstant,
				zap.String(repositoryPathFieldNameConstant, repositoryPath),
				zap.Int(occurrenceCountFieldNameConstant, len(occurrences)),
			)
			continue
		}

		var accessError RepositoryAccessError
		if errors.As(collectError, &accessError) {
			service.logger.Warn(repositoryAccessWarningMessageConstant,
				zap.String(repositoryPathFieldNameConstant, repositoryPath),
				zap.Error(accessError.Err),
			)
			result.ExcludedRepositories = append(result.ExcludedRepositories, accessError)
			continue
		}

		var branchError BranchNotFoundError
		if errors.As(collectError, &branchError) && service.options.MissingBranchPolicy == MissingBranchPolicySkip {
			service.logger.Warn(missingBranchWarningMessageConstant,
				zap.String(repositoryPathFieldNameConstant, repositoryPath),
				zap.String(branchFieldNameConstant, branchError.BranchName),
			)
			result.ExcludedRepositories = append(result.ExcludedRepositories, branchError)
			continue
		}

		return result, collectError
	}

	return result, nil
}

func (service *Service) collectRepository(repositoryPath string, window Window, identity Identity) ([]worklog.CommitOccurrence, error) {
	history, openError := service.opener.Open(repositoryPath)
	if openError != nil {
		return nil, RepositoryAccessError{RepositoryPath: repositoryPath, Err: openError}
	}
	defer history.Close()

	var occurrences []worklog.CommitOccurrence
	walkError := history.WalkBranch(service.options.IntegrationBranch, func(commit gitlib.Commit) bool {
		if commit.When.After(window.End) {
			return true
		}
		if commit.When.Before(window.Start) {
			return false
		}
		if !identity.Matches(commit.AuthorName, commit.AuthorEmail) {
			return true
		}
		ticketID, comment, parsed := ParseMessage(commit.Message)
		if !parsed {
			return true
		}
		occurrences = append(occurrences, worklog.CommitOccurrence{
			TicketID:  ticketID,
			Comment:   comment,
			Timestamp: commit.When,
		})
		return true
	})
	if walkError != nil {
		if errors.Is(walkError, gitlib.ErrBranchNotFound) {
			return nil, BranchNotFoundError{RepositoryPath: repositoryPath, BranchName: service.options.IntegrationBranch, Err: walkError}
		}
		return nil, fmt.Errorf(walkFailureTemplateConstant, repositoryPath, walkError)
	}

	return occurrences, nil
}
