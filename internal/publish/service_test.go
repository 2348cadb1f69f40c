package publish_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/payload"
	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/prompt"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/reposync"
	"github.com/temirov/tempo/internal/tracker"
	"github.com/temirov/tempo/internal/ui"
	"github.com/temirov/tempo/internal/worklog"
)

const (
	testRepositoryPathConstant             = "/repos/alpha"
	testSecondRepositoryConstant           = "/repos/beta"
	testIntegrationBranchConstant          = "develop"
	testEmailConstant                      = "dev@example.com"
	testAliasConstant                      = "dev.work@corp.example"
	testFirstTicketConstant                = "AB-1"
	testSecondTicketConstant               = "AB-2"
	testBusinessDayCountConstant           = 20
	testRecordsWithSpecialDaysConstant     = 38
	testSubmittableWithSpecialDaysConstant = 37
)

var testLocation = time.FixedZone("UTC-3", -3*60*60)

type publishFixture struct {
	synchronizer *recordingSynchronizer
	collector    *recordingCollector
	submitter    *recordingSubmitter
	ledger       *memoryLedger
	confirmer    *scriptedConfirmer
	selector     *scriptedSelector
	output       *bytes.Buffer
	factoryCalls int
	profile      profile.Profile
	location     *time.Location
}

func newPublishFixture() *publishFixture {
	return &publishFixture{
		synchronizer: &recordingSynchronizer{},
		collector: &recordingCollector{result: collector.Result{Occurrences: []worklog.CommitOccurrence{
			{TicketID: testSecondTicketConstant, Comment: "wire ledger", Timestamp: time.Date(2026, time.February, 10, 11, 0, 0, 0, testLocation)},
			{TicketID: testFirstTicketConstant, Comment: "add login", Timestamp: time.Date(2026, time.February, 3, 9, 0, 0, 0, testLocation)},
			{TicketID: testFirstTicketConstant, Comment: "fix logout", Timestamp: time.Date(2026, time.February, 4, 9, 0, 0, 0, testLocation)},
		}}},
		submitter: &recordingSubmitter{},
		ledger:    &memoryLedger{},
		confirmer: &scriptedConfirmer{},
		output:    &bytes.Buffer{},
		profile:   profile.Profile{Aliases: []string{testAliasConstant}, Repositories: []string{testRepositoryPathConstant}},
		location:  testLocation,
	}
}

func (fixture *publishFixture) service(testInstance *testing.T) *publish.Service {
	testInstance.Helper()
	var selector publish.Selector
	if fixture.selector != nil {
		selector = fixture.selector
	}
	service, serviceError := publish.NewService(publish.Dependencies{
		Profiles:          stubProfiles{profile: fixture.profile},
		Synchronizer:      fixture.synchronizer,
		IntegrationBranch: testIntegrationBranchConstant,
		Identity:          stubIdentity{email: testEmailConstant},
		Collector:         fixture.collector,
		SubmitterFactory:  submitterFactory(fixture.submitter, &fixture.factoryCalls),
		Ledger:            fixture.ledger,
		Selector:          selector,
		Confirmer:         fixture.confirmer,
		Location:          fixture.location,
		Clock:             func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, fixture.location) },
		Output:            fixture.output,
		Palette:           ui.NewPalette(false),
	})
	require.NoError(testInstance, serviceError)
	return service
}

func februaryRequest() publish.Request {
	return publish.Request{
		Year:  2026,
		Month: time.February,
		Days: publish.DaySelection{
			VacationDays:         []string{"2026-02-16"},
			VacationDaysProvided: true,
			SkipDays:             []string{"17"},
			SkipDaysProvided:     true,
		},
		AssumeYes: true,
	}
}

func TestRunPublishesEverySubmittableRecord(testInstance *testing.T) {
	fixture := newPublishFixture()

	summary, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, publish.Period{Year: 2026, Month: time.February}, summary.Period)
	require.Len(testInstance, summary.Records, testRecordsWithSpecialDaysConstant)
	require.Equal(testInstance, testSubmittableWithSpecialDaysConstant, summary.Submitted)
	require.Zero(testInstance, summary.Rejected)
	require.Len(testInstance, fixture.submitter.records, testSubmittableWithSpecialDaysConstant)
	require.Len(testInstance, fixture.ledger.entries, testSubmittableWithSpecialDaysConstant)
	for _, entry := range fixture.ledger.entries {
		require.Equal(testInstance, "2026-02", entry.Period)
	}
	require.Equal(testInstance, 1, fixture.factoryCalls)
	require.Equal(testInstance, [][]string{{testRepositoryPathConstant}}, fixture.synchronizer.syncedPaths)
	require.Equal(testInstance, []string{testIntegrationBranchConstant}, fixture.synchronizer.branchNames)
	require.Empty(testInstance, fixture.confirmer.questions)

	for _, submitted := range fixture.submitter.records {
		require.True(testInstance, submitted.Submittable)
		require.NotEmpty(testInstance, submitted.IssueKey)
	}

	firstRegular := fixture.submitter.records[1]
	require.Equal(testInstance, testFirstTicketConstant, firstRegular.IssueKey)
	require.Equal(testInstance, "(Auto generated) \nadd login\nfix logout", firstRegular.Comment)
	require.Equal(testInstance, "2026-02-02T12:30:00.000-0300", firstRegular.Started)

	require.Equal(testInstance, collector.Identity{Email: testEmailConstant, Aliases: []string{testAliasConstant}}, fixture.collector.observedIdentity)
	require.Equal(testInstance, time.Date(2026, time.February, 1, 0, 0, 0, 0, testLocation), fixture.collector.observedWindow.Start)
	require.Equal(testInstance, time.Date(2026, time.February, 28, 23, 59, 59, 0, testLocation), fixture.collector.observedWindow.End)

	recorded := fixture.ledger.entries[0]
	require.Equal(testInstance, payload.DefaultStandupIssueKey, recorded.IssueKey)
	require.Equal(testInstance, worklog.EntryKindDailyStandup.String(), recorded.Kind)
	require.True(testInstance, recorded.StartedAt.Equal(time.Date(2026, time.February, 2, 15, 0, 0, 0, time.UTC)))

	require.Contains(testInstance, fixture.output.String(), "[1/4] Syncing repositories...")
	require.Contains(testInstance, fixture.output.String(), "[4/4] Submitting worklogs...")
	require.Contains(testInstance, fixture.output.String(), "Submitted 37 of 37 worklogs")
}

func TestRunDryRunSubmitsNothing(testInstance *testing.T) {
	fixture := newPublishFixture()
	request := februaryRequest()
	request.DryRun = true
	request.SkipPull = true

	summary, runError := fixture.service(testInstance).Run(context.Background(), request)

	require.NoError(testInstance, runError)
	require.True(testInstance, summary.DryRun)
	require.Len(testInstance, summary.Records, testRecordsWithSpecialDaysConstant)
	require.Zero(testInstance, fixture.factoryCalls)
	require.Empty(testInstance, fixture.submitter.records)
	require.Empty(testInstance, fixture.ledger.entries)
	require.Empty(testInstance, fixture.synchronizer.syncedPaths)
	require.Contains(testInstance, fixture.output.String(), "[1/4] Skipping repository sync")
	require.Contains(testInstance, fixture.output.String(), "Dry run: nothing submitted")
}

func TestRunRequiresTrackedRepositories(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.profile.Repositories = nil

	_, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.ErrorIs(testInstance, runError, publish.ErrNoRepositories)
}

func TestRunWithoutPeriodAndSelectorFails(testInstance *testing.T) {
	fixture := newPublishFixture()

	_, runError := fixture.service(testInstance).Run(context.Background(), publish.Request{})

	require.ErrorIs(testInstance, runError, publish.ErrPeriodRequired)
	require.Empty(testInstance, fixture.synchronizer.syncedPaths)
}

func TestRunAsksForConfirmation(testInstance *testing.T) {
	testCases := []struct {
		name              string
		confirmer         *scriptedConfirmer
		expectedError     error
		expectedSubmitted int
	}{
		{name: "declined", confirmer: &scriptedConfirmer{answers: []bool{false}}, expectedError: publish.ErrUserCancelled},
		{name: "aborted", confirmer: &scriptedConfirmer{failure: prompt.ErrAborted}, expectedError: publish.ErrUserCancelled},
		{name: "accepted", confirmer: &scriptedConfirmer{answers: []bool{true}}, expectedSubmitted: testSubmittableWithSpecialDaysConstant},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newPublishFixture()
			fixture.confirmer = testCase.confirmer
			request := februaryRequest()
			request.AssumeYes = false

			summary, runError := fixture.service(testInstance).Run(context.Background(), request)

			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, runError, testCase.expectedError)
			} else {
				require.NoError(testInstance, runError)
			}
			require.Equal(testInstance, testCase.expectedSubmitted, summary.Submitted)
			require.Equal(testInstance, []string{"Submit 37 worklogs for February 2026?"}, testCase.confirmer.questions)
		})
	}
}

func TestRunContinuesAfterRejectionWhenAssumingYes(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.submitter.failures = map[int]error{
		2: tracker.StatusError{Method: http.MethodPost, Response: tracker.Response{StatusCode: http.StatusBadRequest}},
	}

	summary, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 1, summary.Rejected)
	require.Equal(testInstance, testSubmittableWithSpecialDaysConstant-1, summary.Submitted)
	require.Len(testInstance, fixture.submitter.records, testSubmittableWithSpecialDaysConstant)
	require.Len(testInstance, fixture.ledger.entries, testSubmittableWithSpecialDaysConstant-1)
}

func TestRunStopsAfterRejectionWhenUserDeclines(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.confirmer = &scriptedConfirmer{answers: []bool{true, false}}
	fixture.submitter.failures = map[int]error{
		2: tracker.StatusError{Method: http.MethodPost, Response: tracker.Response{StatusCode: http.StatusForbidden}},
	}
	request := februaryRequest()
	request.AssumeYes = false

	summary, runError := fixture.service(testInstance).Run(context.Background(), request)

	require.ErrorIs(testInstance, runError, publish.ErrSubmissionStopped)
	require.Equal(testInstance, 1, summary.Submitted)
	require.Equal(testInstance, 1, summary.Rejected)
	require.Len(testInstance, fixture.submitter.records, 2)
	require.Len(testInstance, fixture.confirmer.questions, 2)
}

func TestRunStopsOnTransportFailure(testInstance *testing.T) {
	fixture := newPublishFixture()
	transportError := errors.New("connection reset")
	fixture.submitter.failures = map[int]error{3: transportError}

	summary, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.ErrorIs(testInstance, runError, transportError)
	require.Equal(testInstance, 2, summary.Submitted)
	require.Len(testInstance, fixture.submitter.records, 3)
}

func TestRunKeepsGoingWhenLedgerFails(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.ledger.recordError = errors.New("disk full")

	summary, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, testSubmittableWithSpecialDaysConstant, summary.Submitted)
	require.Contains(testInstance, fixture.output.String(), "was published but not recorded locally: disk full")
}

func TestRunPromptsForPeriodAndDays(testInstance *testing.T) {
	fixture := newPublishFixture()
	vacationDay := time.Date(2026, time.February, 16, 0, 0, 0, 0, testLocation)
	fixture.selector = &scriptedSelector{year: 2026, month: time.February, dayAnswers: [][]time.Time{{vacationDay}, nil}}
	request := publish.Request{DryRun: true}

	summary, runError := fixture.service(testInstance).Run(context.Background(), request)

	require.NoError(testInstance, runError)
	require.Equal(testInstance, [][]int{{2026, 2025}}, fixture.selector.offeredYears)
	require.Equal(testInstance, []string{"Vacation days", "Days to skip"}, fixture.selector.dayTitles)
	require.Len(testInstance, fixture.selector.offeredDays[0], testBusinessDayCountConstant)
	require.Len(testInstance, fixture.selector.offeredDays[1], testBusinessDayCountConstant-1)
	require.NotContains(testInstance, fixture.selector.offeredDays[1], vacationDay)

	ptoRecords := 0
	for _, record := range summary.Records {
		if record.Kind == worklog.EntryKindPto {
			ptoRecords++
			require.Equal(testInstance, "2026-02-16T09:00:00.000-0300", record.Started)
		}
	}
	require.Equal(testInstance, 1, ptoRecords)
}

func TestRunReportsExcludedRepositories(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.profile.Repositories = append(fixture.profile.Repositories, testSecondRepositoryConstant)
	fixture.collector.result.ExcludedRepositories = []error{collector.RepositoryAccessError{RepositoryPath: testSecondRepositoryConstant, Err: errors.New("not a repository")}}
	request := februaryRequest()
	request.DryRun = true

	summary, runError := fixture.service(testInstance).Run(context.Background(), request)

	require.NoError(testInstance, runError)
	require.Len(testInstance, summary.ExcludedRepositories, 1)
	require.Contains(testInstance, fixture.output.String(), "Excluded: ")
	require.Contains(testInstance, fixture.output.String(), "Found 3 commits for 2 tickets in 1 repositories")
}

func TestRunExcludesRepositoriesThatCannotBeSynced(testInstance *testing.T) {
	fixture := newPublishFixture()
	fixture.profile.Repositories = []string{testSecondRepositoryConstant, testRepositoryPathConstant}
	fixture.synchronizer.unavailable = map[string]error{testSecondRepositoryConstant: errors.New("could not find repository")}

	summary, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{testRepositoryPathConstant}, fixture.collector.observedPaths)
	require.Len(testInstance, summary.ExcludedRepositories, 1)
	var unavailableError reposync.RepositoryUnavailableError
	require.ErrorAs(testInstance, summary.ExcludedRepositories[0], &unavailableError)
	require.Equal(testInstance, testSecondRepositoryConstant, unavailableError.RepositoryPath)
	require.Equal(testInstance, testSubmittableWithSpecialDaysConstant, summary.Submitted)
	require.Contains(testInstance, fixture.output.String(), "Excluded: ")
	require.Contains(testInstance, fixture.output.String(), "Found 3 commits for 2 tickets in 1 repositories")
}

func TestRunPropagatesSyncFailure(testInstance *testing.T) {
	fixture := newPublishFixture()
	syncError := errors.New("diverged")
	fixture.synchronizer.syncError = syncError

	_, runError := fixture.service(testInstance).Run(context.Background(), februaryRequest())

	require.ErrorIs(testInstance, runError, syncError)
	require.Empty(testInstance, fixture.submitter.records)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, serviceError := publish.NewService(publish.Dependencies{})

	require.ErrorIs(testInstance, serviceError, publish.ErrProfileLoaderNotConfigured)
}
