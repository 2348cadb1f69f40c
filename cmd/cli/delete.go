package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/utils/flags"
)

const (
	deleteCommandUseConstant              = "delete"
	deleteCommandShortDescriptionConstant = "Delete the worklogs tempo published for a month"
	deleteCommandLongDescriptionConstant  = "delete lists the worklogs recorded in the local ledger for the chosen month and removes them from the tracker after confirmation."
	deleteCommandErrorTemplateConstant    = "delete failed: %w"
	deleteFinishedMessageConstant         = "delete finished"
	logFieldEntriesConstant               = "entries"
	logFieldDeletedConstant               = "deleted"
)

type deleteCommandBuilder struct {
	runtimeProvider runtimeProvider
}

// Build constructs the delete command.
func (builder *deleteCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   deleteCommandUseConstant,
		Short: deleteCommandShortDescriptionConstant,
		Long:  deleteCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	flags.BindExecutionFlags(command, flags.ConfirmationOnlyFlagDefinitions())
	flags.BindPeriodFlags(command, false)

	return command
}

func (builder *deleteCommandBuilder) run(command *cobra.Command, arguments []string) error {
	periodFlags, periodError := flags.ReadPeriodFlags(command)
	if periodError != nil {
		return periodError
	}
	executionFlags := flags.ReadExecutionFlags(command)

	runtime, runtimeError := builder.runtimeProvider()
	if runtimeError != nil {
		return runtimeError
	}

	profileStore, storeError := runtime.profileStore()
	if storeError != nil {
		return storeError
	}

	publishedLedger, ledgerError := runtime.openLedger()
	if ledgerError != nil {
		return ledgerError
	}
	defer func() {
		if closeError := publishedLedger.Close(); closeError != nil {
			runtime.logger.Warn(ledgerCloseFailedMessageConstant, zap.Error(closeError))
		}
	}()

	service, serviceError := publish.NewDeleteService(publish.DeleteDependencies{
		Profiles:       profileStore,
		Ledger:         publishedLedger,
		RemoverFactory: runtime.removerFactory(),
		Selector:       runtime.selector(),
		Confirmer:      runtime.confirmer(),
		Location:       runtime.location,
		Clock:          runtime.clock,
		Output:         runtime.streams.Output,
		Palette:        runtime.palette,
		Logger:         runtime.logger,
	})
	if serviceError != nil {
		return serviceError
	}

	summary, runError := service.Run(command.Context(), publish.DeleteRequest{
		Year:      periodFlags.Year,
		Month:     periodFlags.Month,
		AssumeYes: executionFlags.AssumeYes,
	})
	if runError != nil {
		if errors.Is(runError, publish.ErrUserCancelled) {
			return runError
		}
		return fmt.Errorf(deleteCommandErrorTemplateConstant, runError)
	}

	runtime.logger.Info(
		deleteFinishedMessageConstant,
		zap.String(logFieldPeriodConstant, summary.Period.String()),
		zap.Int(logFieldEntriesConstant, len(summary.Entries)),
		zap.Int(logFieldDeletedConstant, summary.Deleted),
		zap.Int(logFieldRejectedConstant, summary.Rejected),
	)
	return nil
}
