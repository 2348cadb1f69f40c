package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/collector"
	"github.com/temirov/tempo/internal/identity"
	"github.com/temirov/tempo/internal/payload"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/reposync"
	"github.com/temirov/tempo/internal/utils/flags"
)

const (
	publishCommandUseConstant              = "publish"
	publishCommandShortDescriptionConstant = "Synthesize a month of worklogs from commit history and submit them"
	publishCommandLongDescriptionConstant  = "publish syncs the tracked repositories, collects your ticket commits for the chosen month, previews the allocated worklogs and submits them to the tracker after confirmation."
	publishCommandErrorTemplateConstant    = "publish failed: %w"
	publishFinishedMessageConstant         = "publish finished"
	logFieldPeriodConstant                 = "period"
	logFieldRecordsConstant                = "records"
	logFieldSubmittedConstant              = "submitted"
	logFieldRejectedConstant               = "rejected"
	logFieldExcludedConstant               = "excluded_repositories"
	logFieldDryRunConstant                 = "dry_run"
)

type publishCommandBuilder struct {
	runtimeProvider runtimeProvider
}

// Build constructs the publish command.
func (builder *publishCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescriptionConstant,
		Long:  publishCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	flags.BindExecutionFlags(command, flags.PublishExecutionFlagDefinitions())
	flags.BindPeriodFlags(command, true)

	return command
}

func (builder *publishCommandBuilder) run(command *cobra.Command, arguments []string) error {
	periodFlags, periodError := flags.ReadPeriodFlags(command)
	if periodError != nil {
		return periodError
	}
	executionFlags := flags.ReadExecutionFlags(command)

	runtime, runtimeError := builder.runtimeProvider()
	if runtimeError != nil {
		return runtimeError
	}

	service, closeLedger, serviceError := builder.buildService(runtime)
	if serviceError != nil {
		return serviceError
	}
	defer closeLedger()

	summary, runError := service.Run(command.Context(), publish.Request{
		Year:  periodFlags.Year,
		Month: periodFlags.Month,
		Days: publish.DaySelection{
			VacationDays:         periodFlags.VacationDays,
			VacationDaysProvided: periodFlags.VacationDaysProvided,
			SkipDays:             periodFlags.SkipDays,
			SkipDaysProvided:     periodFlags.SkipDaysProvided,
		},
		SkipPull:  executionFlags.SkipPull,
		DryRun:    executionFlags.DryRun,
		AssumeYes: executionFlags.AssumeYes,
	})
	if runError != nil {
		if errors.Is(runError, publish.ErrUserCancelled) {
			return runError
		}
		return fmt.Errorf(publishCommandErrorTemplateConstant, runError)
	}

	runtime.logger.Info(
		publishFinishedMessageConstant,
		zap.String(logFieldPeriodConstant, summary.Period.String()),
		zap.Int(logFieldRecordsConstant, len(summary.Records)),
		zap.Int(logFieldSubmittedConstant, summary.Submitted),
		zap.Int(logFieldRejectedConstant, summary.Rejected),
		zap.Int(logFieldExcludedConstant, len(summary.ExcludedRepositories)),
		zap.Bool(logFieldDryRunConstant, summary.DryRun),
	)
	return nil
}

func (builder *publishCommandBuilder) buildService(runtime commandRuntime) (*publish.Service, func(), error) {
	profileStore, storeError := runtime.profileStore()
	if storeError != nil {
		return nil, nil, storeError
	}

	shellExecutor, executorError := runtime.shellExecutor()
	if executorError != nil {
		return nil, nil, executorError
	}

	synchronizer, synchronizerError := reposync.NewService(reposync.Dependencies{GitExecutor: shellExecutor, Logger: runtime.logger})
	if synchronizerError != nil {
		return nil, nil, synchronizerError
	}

	identityResolver, identityError := identity.NewResolver(shellExecutor)
	if identityError != nil {
		return nil, nil, identityError
	}

	collectorOptions, optionsError := runtime.configuration.Worklog.CollectorOptions()
	if optionsError != nil {
		return nil, nil, optionsError
	}
	commitCollector, collectorError := collector.NewService(collector.Dependencies{Opener: collector.GitRepositoryOpener{}, Logger: runtime.logger}, collectorOptions)
	if collectorError != nil {
		return nil, nil, collectorError
	}

	publishedLedger, ledgerError := runtime.openLedger()
	if ledgerError != nil {
		return nil, nil, ledgerError
	}
	closeLedger := func() {
		if closeError := publishedLedger.Close(); closeError != nil {
			runtime.logger.Warn(ledgerCloseFailedMessageConstant, zap.Error(closeError))
		}
	}

	service, serviceError := publish.NewService(publish.Dependencies{
		Profiles:          profileStore,
		Synchronizer:      synchronizer,
		IntegrationBranch: collectorOptions.IntegrationBranch,
		Identity:          identityResolver,
		Collector:         commitCollector,
		SubmitterFactory:  runtime.submitterFactory(),
		Ledger:            publishedLedger,
		Selector:          runtime.selector(),
		Confirmer:         runtime.confirmer(),
		Assembler:         payload.NewAssembler(runtime.configuration.Tracker.IssueKeys()),
		Location:          runtime.location,
		Clock:             runtime.clock,
		Output:            runtime.streams.Output,
		Palette:           runtime.palette,
		Logger:            runtime.logger,
	})
	if serviceError != nil {
		closeLedger()
		return nil, nil, serviceError
	}
	return service, closeLedger, nil
}
