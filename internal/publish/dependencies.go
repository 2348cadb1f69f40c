package publish

import (
	"context"
	"time"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/payload"
	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/reposync"
	"github.com/temirov/tempo/internal/tracker"
)

// ProfileLoader reads the user profile.
type ProfileLoader interface {
	Load() (profile.Profile, error)
}

// RepositorySynchronizer brings tracked repositories up to date.
type RepositorySynchronizer interface {
	SyncAll(executionContext context.Context, repositoryPaths []string, branchName string) (reposync.Result, error)
}

// IdentityResolver reports the primary author email.
type IdentityResolver interface {
	PrimaryEmail(executionContext context.Context) (string, error)
}

// CommitCollector gathers ticket commits across repositories.
type CommitCollector interface {
	Collect(executionContext context.Context, repositoryPaths []string, window collector.Window, identity collector.Identity) (collector.Result, error)
}

// WorklogSubmitter posts worklogs to the tracker.
type WorklogSubmitter interface {
	AddWorklog(requestContext context.Context, record payload.Record) (tracker.Response, error)
}

// WorklogRemover deletes worklogs from the tracker.
type WorklogRemover interface {
	DeleteWorklog(requestContext context.Context, issueKey string, worklogID string) (tracker.Response, error)
}

// SubmitterFactory builds a tracker submitter for the loaded profile.
type SubmitterFactory func(executionContext context.Context, userProfile profile.Profile) (WorklogSubmitter, error)

// RemoverFactory builds a tracker remover for the loaded profile.
type RemoverFactory func(executionContext context.Context, userProfile profile.Profile) (WorklogRemover, error)

// LedgerRecorder stores published worklogs.
type LedgerRecorder interface {
	Record(executionContext context.Context, entry ledger.Entry) (ledger.Entry, error)
}

// LedgerStore lists and removes published worklogs.
type LedgerStore interface {
	ListPeriod(executionContext context.Context, period string) ([]ledger.Entry, error)
	Delete(executionContext context.Context, entryID string) error
}

// Selector asks the user for the period and the special days.
type Selector interface {
	SelectYear(selectionContext context.Context, choices []int, defaultYear int) (int, error)
	SelectMonth(selectionContext context.Context, defaultMonth time.Month) (time.Month, error)
	SelectDays(selectionContext context.Context, title string, days []time.Time) ([]time.Time, error)
}

// Confirmer asks yes/no questions.
type Confirmer interface {
	Confirm(confirmationContext context.Context, question string) (bool, error)
}
