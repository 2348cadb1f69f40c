package publish_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/payload"
	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/reposync"
	"github.com/temirov/tempo/internal/tracker"
)

type stubProfiles struct {
	profile   profile.Profile
	loadError error
}

func (profiles stubProfiles) Load() (profile.Profile, error) {
	return profiles.profile, profiles.loadError
}

type recordingSynchronizer struct {
	syncedPaths [][]string
	branchNames []string
	unavailable map[string]error
	syncError   error
}

func (synchronizer *recordingSynchronizer) SyncAll(_ context.Context, repositoryPaths []string, branchName string) (reposync.Result, error) {
	synchronizer.syncedPaths = append(synchronizer.syncedPaths, repositoryPaths)
	synchronizer.branchNames = append(synchronizer.branchNames, branchName)
	result := reposync.Result{}
	if synchronizer.syncError != nil {
		return result, synchronizer.syncError
	}
	for _, repositoryPath := range repositoryPaths {
		if unavailableError, unavailable := synchronizer.unavailable[repositoryPath]; unavailable {
			result.ExcludedRepositories = append(result.ExcludedRepositories, reposync.RepositoryUnavailableError{RepositoryPath: repositoryPath, Err: unavailableError})
			continue
		}
		result.Synchronized = append(result.Synchronized, repositoryPath)
	}
	return result, nil
}

type stubIdentity struct {
	email         string
	identityError error
}

func (identity stubIdentity) PrimaryEmail(context.Context) (string, error) {
	return identity.email, identity.identityError
}

type recordingCollector struct {
	result           collector.Result
	collectError     error
	observedPaths    []string
	observedWindow   collector.Window
	observedIdentity collector.Identity
}

func (commitCollector *recordingCollector) Collect(_ context.Context, repositoryPaths []string, window collector.Window, identity collector.Identity) (collector.Result, error) {
	commitCollector.observedPaths = repositoryPaths
	commitCollector.observedWindow = window
	commitCollector.observedIdentity = identity
	return commitCollector.result, commitCollector.collectError
}

type recordingSubmitter struct {
	records  []payload.Record
	failures map[int]error
}

func (submitter *recordingSubmitter) AddWorklog(_ context.Context, record payload.Record) (tracker.Response, error) {
	submitter.records = append(submitter.records, record)
	if failure, found := submitter.failures[len(submitter.records)]; found {
		var statusError tracker.StatusError
		if errors.As(failure, &statusError) {
			return statusError.Response, failure
		}
		return tracker.Response{}, failure
	}
	return tracker.Response{StatusCode: http.StatusCreated, WorklogID: record.IssueKey + "-" + record.Started}, nil
}

type memoryLedger struct {
	entries     []ledger.Entry
	recordError error
	deletedIDs  []string
}

func (store *memoryLedger) Record(_ context.Context, entry ledger.Entry) (ledger.Entry, error) {
	if store.recordError != nil {
		return ledger.Entry{}, store.recordError
	}
	store.entries = append(store.entries, entry)
	return entry, nil
}

func (store *memoryLedger) ListPeriod(_ context.Context, period string) ([]ledger.Entry, error) {
	matching := []ledger.Entry{}
	for _, entry := range store.entries {
		if entry.Period == period {
			matching = append(matching, entry)
		}
	}
	return matching, nil
}

func (store *memoryLedger) Delete(_ context.Context, entryID string) error {
	store.deletedIDs = append(store.deletedIDs, entryID)
	return nil
}

type scriptedConfirmer struct {
	answers   []bool
	questions []string
	failure   error
}

func (confirmer *scriptedConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	confirmer.questions = append(confirmer.questions, question)
	if confirmer.failure != nil {
		return false, confirmer.failure
	}
	if len(confirmer.answers) == 0 {
		return false, nil
	}
	answer := confirmer.answers[0]
	confirmer.answers = confirmer.answers[1:]
	return answer, nil
}

type scriptedSelector struct {
	year           int
	month          time.Month
	dayAnswers     [][]time.Time
	offeredYears   [][]int
	offeredDays    [][]time.Time
	dayTitles      []string
	selectionError error
}

func (selector *scriptedSelector) SelectYear(_ context.Context, choices []int, _ int) (int, error) {
	selector.offeredYears = append(selector.offeredYears, choices)
	return selector.year, selector.selectionError
}

func (selector *scriptedSelector) SelectMonth(context.Context, time.Month) (time.Month, error) {
	return selector.month, selector.selectionError
}

func (selector *scriptedSelector) SelectDays(_ context.Context, title string, days []time.Time) ([]time.Time, error) {
	selector.dayTitles = append(selector.dayTitles, title)
	selector.offeredDays = append(selector.offeredDays, days)
	if selector.selectionError != nil {
		return nil, selector.selectionError
	}
	if len(selector.dayAnswers) == 0 {
		return nil, nil
	}
	answer := selector.dayAnswers[0]
	selector.dayAnswers = selector.dayAnswers[1:]
	return answer, nil
}

func submitterFactory(submitter *recordingSubmitter, calls *int) publish.SubmitterFactory {
	return func(context.Context, profile.Profile) (publish.WorklogSubmitter, error) {
		*calls++
		return submitter, nil
	}
}
