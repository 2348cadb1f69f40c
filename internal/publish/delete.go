package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/tracker"
	"github.com/temirov/tempo/internal/ui"
)

const (
	deleteStepCountConstant             = 2
	listPublishedStepMessageConstant    = "Listing worklogs published for %s..."
	deleteStepMessageConstant           = "Deleting worklogs..."
	noPublishedWorklogsTemplateConstant = "No published worklogs recorded for %s"
	confirmDeletionTemplateConstant     = "Delete %d worklogs published for %s?"
	deletedTemplateConstant             = "[%d/%d] Deleted %s worklog %s"
	deleteRejectedTemplateConstant      = "[%d/%d] %s worklog %s rejected: %v"
	deletionSummaryTemplateConstant     = "Deleted %d of %d worklogs"
	listPublishedErrorTemplateConstant  = "list published worklogs: %w"
	forgetErrorTemplateConstant         = "forget worklog %s: %w"
	deleteErrorTemplateConstant         = "delete worklog %s on %s: %w"
	deleteRejectedLogMessageConstant    = "Tracker rejected worklog deletion"
	worklogIDFieldNameConstant          = "worklog_id"
)

// DeleteRequest captures the choices for one delete run.
type DeleteRequest struct {
	Year      int
	Month     time.Month
	AssumeYes bool
}

// DeleteSummary reports the outcome of a delete run.
type DeleteSummary struct {
	Period   Period
	Entries  []ledger.Entry
	Deleted  int
	Rejected int
}

// DeleteDependencies enumerates the collaborators of the delete service.
type DeleteDependencies struct {
	Profiles       ProfileLoader
	Ledger         LedgerStore
	RemoverFactory RemoverFactory
	Selector       Selector
	Confirmer      Confirmer
	Location       *time.Location
	Clock          func() time.Time
	Output         io.Writer
	Palette        ui.Palette
	Logger         *zap.Logger
}

// DeleteService removes worklogs that earlier runs published.
type DeleteService struct {
	dependencies DeleteDependencies
	periods      periodResolver
	logger       *zap.Logger
}

// NewDeleteService validates dependencies and constructs a DeleteService.
func NewDeleteService(dependencies DeleteDependencies) (*DeleteService, error) {
	switch {
	case dependencies.Profiles == nil:
		return nil, ErrProfileLoaderNotConfigured
	case dependencies.Ledger == nil:
		return nil, ErrLedgerNotConfigured
	case dependencies.RemoverFactory == nil:
		return nil, ErrTrackerFactoryNotConfigured
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
	return &DeleteService{
		dependencies: dependencies,
		periods:      periodResolver{selector: dependencies.Selector, clock: dependencies.Clock, location: dependencies.Location},
		logger:       logger,
	}, nil
}

// Run deletes the worklogs recorded for the requested month. Worklogs the tracker no longer
// knows are forgotten locally as well.
func (service *DeleteService) Run(executionContext context.Context, request DeleteRequest) (DeleteSummary, error) {
	summary := DeleteSummary{}
	reporter := ui.NewStepReporter(service.dependencies.Output, service.dependencies.Palette, deleteStepCountConstant)

	period, periodError := service.periods.resolvePeriod(executionContext, request.Year, request.Month)
	if periodError != nil {
		return summary, periodError
	}
	summary.Period = period

	reporter.Step(fmt.Sprintf(listPublishedStepMessageConstant, period))
	entries, listError := service.dependencies.Ledger.ListPeriod(executionContext, period.LedgerKey())
	if listError != nil {
		return summary, fmt.Errorf(listPublishedErrorTemplateConstant, listError)
	}
	summary.Entries = entries
	if len(entries) == 0 {
		reporter.Info(noPublishedWorklogsTemplateConstant, period)
		return summary, nil
	}
	fmt.Fprintln(reporter.Writer(), ui.RenderLedgerEntries(entries, service.dependencies.Location))

	if !request.AssumeYes {
		if service.dependencies.Confirmer == nil {
			return summary, ErrConfirmationRequired
		}
		confirmed, confirmError := service.dependencies.Confirmer.Confirm(executionContext, fmt.Sprintf(confirmDeletionTemplateConstant, len(entries), period))
		if confirmError != nil {
			return summary, translatePromptError(confirmError)
		}
		if !confirmed {
			return summary, ErrUserCancelled
		}
	}

	userProfile, loadError := service.dependencies.Profiles.Load()
	if loadError != nil {
		return summary, fmt.Errorf(loadProfileErrorTemplateConstant, loadError)
	}
	remover, removerError := service.dependencies.RemoverFactory(executionContext, userProfile)
	if removerError != nil {
		return summary, fmt.Errorf(trackerErrorTemplateConstant, removerError)
	}

	reporter.Step(deleteStepMessageConstant)
	for entryIndex, entry := range entries {
		position := entryIndex + 1
		_, deleteError := remover.DeleteWorklog(executionContext, entry.IssueKey, entry.WorklogID)
		if deleteError != nil {
			var statusError tracker.StatusError
			if !errors.As(deleteError, &statusError) {
				return summary, fmt.Errorf(deleteErrorTemplateConstant, entry.WorklogID, entry.IssueKey, deleteError)
			}
			if statusError.Response.StatusCode != http.StatusNotFound {
				summary.Rejected++
				reporter.Failure(deleteRejectedTemplateConstant, position, len(entries), entry.IssueKey, entry.WorklogID, deleteError)
				service.logger.Warn(deleteRejectedLogMessageConstant,
					zap.String(issueKeyFieldNameConstant, entry.IssueKey),
					zap.String(worklogIDFieldNameConstant, entry.WorklogID),
					zap.Int(statusCodeFieldNameConstant, statusError.Response.StatusCode),
				)
				continue
			}
		}

		if forgetError := service.dependencies.Ledger.Delete(executionContext, entry.ID); forgetError != nil {
			return summary, fmt.Errorf(forgetErrorTemplateConstant, entry.WorklogID, forgetError)
		}
		summary.Deleted++
		reporter.Success(deletedTemplateConstant, position, len(entries), entry.IssueKey, entry.WorklogID)
	}

	reporter.Info(deletionSummaryTemplateConstant, summary.Deleted, len(entries))
	return summary, nil
}
