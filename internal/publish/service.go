package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/payload"
	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/tracker"
	"github.com/temirov/tempo/internal/ui"
	"github.com/temirov/tempo/internal/worklog"
)

const (
	publishStepCountConstant               = 4
	syncStepMessageConstant                = "Syncing repositories..."
	syncSkippedStepMessageConstant         = "Skipping repository sync"
	collectStepMessageConstant             = "Collecting commits..."
	allocateStepMessageConstant            = "Building worklogs for %s..."
	submitStepMessageConstant              = "Submitting worklogs..."
	excludedRepositoryTemplateConstant     = "Excluded: %v"
	collectedSummaryTemplateConstant       = "Found %d commits for %d tickets in %d repositories"
	allocationSummaryTemplateConstant      = "Logged %s of %s required"
	dryRunMessageConstant                  = "Dry run: nothing submitted"
	confirmSubmissionTemplateConstant      = "Submit %d worklogs for %s?"
	continueAfterRejectionQuestionConstant = "Continue submitting the remaining worklogs?"
	submittedTemplateConstant              = "[%d/%d] %s %s (worklog %s)"
	rejectedTemplateConstant               = "[%d/%d] %s %s rejected: %v"
	ledgerFailureTemplateConstant          = "Worklog %s on %s was published but not recorded locally: %v"
	submissionSummaryTemplateConstant      = "Submitted %d of %d worklogs"
	nothingToSubmitMessageConstant         = "Nothing to submit"
	identityResolvedMessageConstant        = "Resolved author identity"
	submissionRejectedLogMessageConstant   = "Tracker rejected worklog"
	ledgerFailureLogMessageConstant        = "Unable to record published worklog"
	loadProfileErrorTemplateConstant       = "load profile: %w"
	syncErrorTemplateConstant              = "sync repositories: %w"
	collectErrorTemplateConstant           = "collect commits: %w"
	assembleErrorTemplateConstant          = "assemble worklogs: %w"
	trackerErrorTemplateConstant           = "prepare tracker client: %w"
	submitErrorTemplateConstant            = "submit worklog %d of %d to %s: %w"
	emailFieldNameConstant                 = "email"
	aliasCountFieldNameConstant            = "aliases"
	issueKeyFieldNameConstant              = "issue"
	startedFieldNameConstant               = "started"
	statusCodeFieldNameConstant            = "status"
)

// Request captures the choices for one publish run.
type Request struct {
	Year      int
	Month     time.Month
	Days      DaySelection
	SkipPull  bool
	DryRun    bool
	AssumeYes bool
}

// Summary reports the outcome of a publish run.
type Summary struct {
	Period               Period
	Records              []payload.Record
	Submitted            int
	Rejected             int
	ExcludedRepositories []error
	DryRun               bool
}

// Dependencies enumerates the collaborators of the publish service.
type Dependencies struct {
	Profiles          ProfileLoader
	Synchronizer      RepositorySynchronizer
	IntegrationBranch string
	Identity          IdentityResolver
	Collector         CommitCollector
	SubmitterFactory  SubmitterFactory
	Ledger            LedgerRecorder
	Selector          Selector
	Confirmer         Confirmer
	Assembler         *payload.Assembler
	Location          *time.Location
	Clock             func() time.Time
	Output            io.Writer
	Palette           ui.Palette
	Logger            *zap.Logger
}

// Service publishes a month of synthesized worklogs.
type Service struct {
	dependencies Dependencies
	periods      periodResolver
	engine       *worklog.Engine
	logger       *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	switch {
	case dependencies.Profiles == nil:
		return nil, ErrProfileLoaderNotConfigured
	case dependencies.Synchronizer == nil:
		return nil, ErrSynchronizerNotConfigured
	case dependencies.Identity == nil:
		return nil, ErrIdentityResolverNotConfigured
	case dependencies.Collector == nil:
		return nil, ErrCollectorNotConfigured
	case dependencies.SubmitterFactory == nil:
		return nil, ErrTrackerFactoryNotConfigured
	case dependencies.Ledger == nil:
		return nil, ErrLedgerNotConfigured
	}

	if dependencies.Assembler == nil {
		dependencies.Assembler = payload.NewAssembler(payload.IssueKeys{})
	}
	if dependencies.Location == nil {
		dependencies.Location = time.Local
	}
	if dependencies.Clock == nil {
		dependencies.Clock = time.Now
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		dependencies: dependencies,
		periods:      periodResolver{selector: dependencies.Selector, clock: dependencies.Clock, location: dependencies.Location},
		engine:       worklog.NewEngine(worklog.EngineOptions{Location: dependencies.Location}),
		logger:       logger,
	}, nil
}

// Run executes the publish workflow.
func (service *Service) Run(executionContext context.Context, request Request) (Summary, error) {
	summary := Summary{DryRun: request.DryRun}
	reporter := ui.NewStepReporter(service.dependencies.Output, service.dependencies.Palette, publishStepCountConstant)

	userProfile, loadError := service.dependencies.Profiles.Load()
	if loadError != nil {
		return summary, fmt.Errorf(loadProfileErrorTemplateConstant, loadError)
	}
	if len(userProfile.Repositories) == 0 {
		return summary, ErrNoRepositories
	}

	period, periodError := service.periods.resolvePeriod(executionContext, request.Year, request.Month)
	if periodError != nil {
		return summary, periodError
	}
	summary.Period = period

	businessDays := worklog.BusinessDays(period.Year, period.Month, service.dependencies.Location)
	vacationDays, skipDays, daysError := service.periods.resolveDays(executionContext, period, request.Days, businessDays)
	if daysError != nil {
		return summary, daysError
	}

	repositoryPaths := userProfile.Repositories
	if request.SkipPull {
		reporter.Step(syncSkippedStepMessageConstant)
	} else {
		reporter.Step(syncStepMessageConstant)
		synced, syncError := service.dependencies.Synchronizer.SyncAll(executionContext, repositoryPaths, service.dependencies.IntegrationBranch)
		if syncError != nil {
			return summary, fmt.Errorf(syncErrorTemplateConstant, syncError)
		}
		repositoryPaths = synced.Synchronized
		service.excludeRepositories(reporter, &summary, synced.ExcludedRepositories)
	}

	reporter.Step(collectStepMessageConstant)
	identity, identityError := service.resolveIdentity(executionContext, userProfile)
	if identityError != nil {
		return summary, identityError
	}
	windowStart, windowEnd := period.Window(service.dependencies.Location)
	collected, collectError := service.dependencies.Collector.Collect(executionContext, repositoryPaths, collector.Window{Start: windowStart, End: windowEnd}, identity)
	if collectError != nil {
		return summary, fmt.Errorf(collectErrorTemplateConstant, collectError)
	}
	service.excludeRepositories(reporter, &summary, collected.ExcludedRepositories)

	reporter.Step(fmt.Sprintf(allocateStepMessageConstant, period))
	occurrences := append([]worklog.CommitOccurrence(nil), collected.Occurrences...)
	worklog.SortOccurrences(occurrences)
	tickets := worklog.AggregateTickets(occurrences)
	reporter.Info(collectedSummaryTemplateConstant, len(occurrences), len(tickets), len(userProfile.Repositories)-len(summary.ExcludedRepositories))

	allocation := service.engine.Allocate(worklog.AllocationInput{
		BusinessDays: businessDays,
		Tickets:      tickets,
		VacationDays: worklog.NewDateSet(vacationDays...),
		SkipDays:     worklog.NewDateSet(skipDays...),
	})
	records, assembleError := service.dependencies.Assembler.AssembleAll(allocation.Entries)
	if assembleError != nil {
		return summary, fmt.Errorf(assembleErrorTemplateConstant, assembleError)
	}
	summary.Records = records

	fmt.Fprintln(reporter.Writer(), ui.RenderWorklogPreview(records))
	reporter.Info(allocationSummaryTemplateConstant, allocation.TotalLogged, allocation.TotalRequired)

	if request.DryRun {
		reporter.Info(dryRunMessageConstant)
		return summary, nil
	}

	submittable := payload.Submittable(records)
	if len(submittable) == 0 {
		reporter.Info(nothingToSubmitMessageConstant)
		return summary, nil
	}

	if !request.AssumeYes {
		confirmed, confirmError := service.confirm(executionContext, fmt.Sprintf(confirmSubmissionTemplateConstant, len(submittable), period))
		if confirmError != nil {
			return summary, confirmError
		}
		if !confirmed {
			return summary, ErrUserCancelled
		}
	}

	reporter.Step(submitStepMessageConstant)
	submitter, submitterError := service.dependencies.SubmitterFactory(executionContext, userProfile)
	if submitterError != nil {
		return summary, fmt.Errorf(trackerErrorTemplateConstant, submitterError)
	}

	submitError := service.submit(executionContext, request, submitter, submittable, reporter, &summary)
	reporter.Info(submissionSummaryTemplateConstant, summary.Submitted, len(submittable))
	return summary, submitError
}

func (service *Service) excludeRepositories(reporter *ui.StepReporter, summary *Summary, excluded []error) {
	for _, excludedRepository := range excluded {
		reporter.Warning(excludedRepositoryTemplateConstant, excludedRepository)
	}
	summary.ExcludedRepositories = append(summary.ExcludedRepositories, excluded...)
}

func (service *Service) resolveIdentity(executionContext context.Context, userProfile profile.Profile) (collector.Identity, error) {
	email, emailError := service.dependencies.Identity.PrimaryEmail(executionContext)
	if emailError != nil {
		return collector.Identity{}, emailError
	}
	service.logger.Debug(identityResolvedMessageConstant, zap.String(emailFieldNameConstant, email), zap.Int(aliasCountFieldNameConstant, len(userProfile.Aliases)))
	return collector.Identity{Email: email, Aliases: userProfile.Aliases}, nil
}

func (service *Service) submit(executionContext context.Context, request Request, submitter WorklogSubmitter, records []payload.Record, reporter *ui.StepReporter, summary *Summary) error {
	for recordIndex, record := range records {
		position := recordIndex + 1
		response, submitError := submitter.AddWorklog(executionContext, record)
		if submitError != nil {
			var statusError tracker.StatusError
			if !errors.As(submitError, &statusError) {
				return fmt.Errorf(submitErrorTemplateConstant, position, len(records), record.IssueKey, submitError)
			}

			summary.Rejected++
			reporter.Failure(rejectedTemplateConstant, position, len(records), record.IssueKey, record.Started, submitError)
			service.logger.Warn(submissionRejectedLogMessageConstant,
				zap.String(issueKeyFieldNameConstant, record.IssueKey),
				zap.String(startedFieldNameConstant, record.Started),
				zap.Int(statusCodeFieldNameConstant, statusError.Response.StatusCode),
			)
			if request.AssumeYes || position == len(records) {
				continue
			}
			continueSubmitting, confirmError := service.confirm(executionContext, continueAfterRejectionQuestionConstant)
			if confirmError != nil {
				return confirmError
			}
			if !continueSubmitting {
				return ErrSubmissionStopped
			}
			continue
		}

		summary.Submitted++
		reporter.Success(submittedTemplateConstant, position, len(records), record.IssueKey, record.Started, response.WorklogID)
		service.recordPublished(executionContext, summary.Period, record, response, reporter)
	}
	return nil
}

func (service *Service) recordPublished(executionContext context.Context, period Period, record payload.Record, response tracker.Response, reporter *ui.StepReporter) {
	started, recordError := payload.ParseStarted(record.Started)
	if recordError == nil {
		_, recordError = service.dependencies.Ledger.Record(executionContext, ledger.Entry{
			Period:           period.LedgerKey(),
			IssueKey:         record.IssueKey,
			WorklogID:        response.WorklogID,
			Kind:             record.Kind.String(),
			StartedAt:        started,
			TimeSpentSeconds: record.TimeSpentSeconds,
			Comment:          record.Comment,
		})
	}
	if recordError != nil {
		reporter.Warning(ledgerFailureTemplateConstant, response.WorklogID, record.IssueKey, recordError)
		service.logger.Warn(ledgerFailureLogMessageConstant, zap.String(issueKeyFieldNameConstant, record.IssueKey), zap.Error(recordError))
	}
}

func (service *Service) confirm(executionContext context.Context, question string) (bool, error) {
	if service.dependencies.Confirmer == nil {
		return false, ErrConfirmationRequired
	}
	confirmed, confirmError := service.dependencies.Confirmer.Confirm(executionContext, question)
	if confirmError != nil {
		return false, translatePromptError(confirmError)
	}
	return confirmed, nil
}
