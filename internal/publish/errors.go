package publish

import (
	"errors"
)

var (
	// ErrUserCancelled indicates that the user declined a prompt or confirmation.
	ErrUserCancelled = errors.New("canceled by user")
	// ErrNoRepositories indicates that the profile tracks no repositories.
	ErrNoRepositories = errors.New("no repositories are tracked; add one with `tempo repo add PATH`")
	// ErrPeriodRequired indicates that the period was not supplied and cannot be asked for.
	ErrPeriodRequired = errors.New("reporting period is required; pass --year and --month")
	// ErrInvalidMonth indicates a month outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	// ErrDayOutsidePeriod indicates a vacation or skip day outside the selected month.
	ErrDayOutsidePeriod = errors.New("day is outside the selected month")
	// ErrConfirmationRequired indicates that a confirmation is needed but no confirmer is available.
	ErrConfirmationRequired = errors.New("confirmation required; pass --yes to proceed without prompting")
	// ErrSubmissionStopped indicates that the user stopped submitting after a rejected worklog.
	ErrSubmissionStopped = errors.New("submission stopped after a rejected worklog")
	// ErrProfileLoaderNotConfigured indicates a missing profile loader.
	ErrProfileLoaderNotConfigured = errors.New("profile loader not configured")
	// ErrCollectorNotConfigured indicates a missing commit collector.
	ErrCollectorNotConfigured = errors.New("commit collector not configured")
	// ErrIdentityResolverNotConfigured indicates a missing identity resolver.
	ErrIdentityResolverNotConfigured = errors.New("identity resolver not configured")
	// ErrSynchronizerNotConfigured indicates a missing repository synchronizer.
	ErrSynchronizerNotConfigured = errors.New("repository synchronizer not configured")
	// ErrTrackerFactoryNotConfigured indicates a missing tracker client factory.
	ErrTrackerFactoryNotConfigured = errors.New("tracker client factory not configured")
	// ErrLedgerNotConfigured indicates a missing ledger.
	ErrLedgerNotConfigured = errors.New("ledger not configured")
)
