package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tempo/internal/profile"
	"github.com/temirov/tempo/internal/prompt"
	"github.com/temirov/tempo/internal/publish"
	"github.com/temirov/tempo/internal/utils/flags"
)

const (
	configureCommandUseConstant              = "configure"
	configureCommandShortDescriptionConstant = "Set user configuration and secrets"
	configureListUseConstant                 = "ls"
	configureListShortDescriptionConstant    = "Print the stored user profile"
	configureRemoveUseConstant               = "rm"
	configureRemoveShortDescriptionConstant  = "Delete all stored user data"
	aliasCommandUseConstant                  = "alias"
	aliasCommandShortDescriptionConstant     = "Manage author aliases matched against commit authors"
	aliasAddUseConstant                      = "add ALIAS..."
	aliasAddShortDescriptionConstant         = "Add author aliases"
	aliasRemoveUseConstant                   = "rm [ALIAS...]"
	aliasRemoveShortDescriptionConstant      = "Remove author aliases, choosing interactively when none are given"
	aliasListUseConstant                     = "ls"
	aliasListShortDescriptionConstant        = "List author aliases"
	trackerTokenFlagNameConstant             = "tracker-token"
	trackerTokenFlagUsageConstant            = "Tracker API token stored in the user profile"
	nameFlagNameConstant                     = "name"
	nameFlagUsageConstant                    = "Display name stored in the user profile"
	savedFieldTemplateConstant               = "Saved %s: %s\n"
	trackerTokenFieldLabelConstant           = "tracker-token"
	nameFieldLabelConstant                   = "name"
	profileLocationTemplateConstant          = "# %s\n"
	deleteProfileQuestionTemplateConstant    = "Delete all user data in %s?"
	deletedProfileMessageConstant            = "Deleted all user data\n"
	aliasAddedTemplateConstant               = "Added %s\n"
	aliasAlreadyAddedTemplateConstant        = "%s already added\n"
	aliasRemovedTemplateConstant             = "Removed %d aliases\n"
	noAliasesMessageConstant                 = "No aliases configured\n"
	deleteAliasesTitleConstant               = "Delete aliases"
	numberedItemTemplateConstant             = "  %d. --> %s\n"
	encodeProfileErrorTemplateConstant       = "unable to render profile: %w"
)

// ErrSelectionRequired indicates that values must be passed when no terminal is attached.
var ErrSelectionRequired = errors.New("pass the values to remove or run in a terminal to choose them")

type configureCommandBuilder struct {
	runtimeProvider runtimeProvider
}

// Build constructs the configure command tree.
func (builder *configureCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   configureCommandUseConstant,
		Short: configureCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runConfigure,
	}
	command.Flags().String(trackerTokenFlagNameConstant, "", trackerTokenFlagUsageConstant)
	command.Flags().String(nameFlagNameConstant, "", nameFlagUsageConstant)

	listCommand := &cobra.Command{
		Use:   configureListUseConstant,
		Short: configureListShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}

	removeCommand := &cobra.Command{
		Use:   configureRemoveUseConstant,
		Short: configureRemoveShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runRemove,
	}
	flags.BindExecutionFlags(removeCommand, flags.ConfirmationOnlyFlagDefinitions())

	aliasCommand := &cobra.Command{
		Use:   aliasCommandUseConstant,
		Short: aliasCommandShortDescriptionConstant,
	}
	aliasCommand.AddCommand(
		&cobra.Command{Use: aliasAddUseConstant, Short: aliasAddShortDescriptionConstant, Args: cobra.MinimumNArgs(1), RunE: builder.runAliasAdd},
		&cobra.Command{Use: aliasRemoveUseConstant, Short: aliasRemoveShortDescriptionConstant, RunE: builder.runAliasRemove},
		&cobra.Command{Use: aliasListUseConstant, Short: aliasListShortDescriptionConstant, Args: cobra.NoArgs, RunE: builder.runAliasList},
	)

	command.AddCommand(listCommand, removeCommand, aliasCommand)
	return command
}

func (builder *configureCommandBuilder) runConfigure(command *cobra.Command, arguments []string) error {
	tokenChanged := command.Flags().Changed(trackerTokenFlagNameConstant)
	nameChanged := command.Flags().Changed(nameFlagNameConstant)
	if !tokenChanged && !nameChanged {
		return command.Help()
	}

	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	trackerToken, _ := command.Flags().GetString(trackerTokenFlagNameConstant)
	displayName, _ := command.Flags().GetString(nameFlagNameConstant)
	updated, updateError := store.Update(func(userProfile *profile.Profile) error {
		if tokenChanged {
			userProfile.TrackerToken = trackerToken
		}
		if nameChanged {
			userProfile.Name = displayName
		}
		return nil
	})
	if updateError != nil {
		return updateError
	}

	redacted := updated.Redacted()
	output := command.OutOrStdout()
	if tokenChanged {
		runtime.palette.Success.Fprintf(output, savedFieldTemplateConstant, trackerTokenFieldLabelConstant, redacted.TrackerToken)
	}
	if nameChanged {
		runtime.palette.Success.Fprintf(output, savedFieldTemplateConstant, nameFieldLabelConstant, redacted.Name)
	}
	return nil
}

func (builder *configureCommandBuilder) runList(command *cobra.Command, arguments []string) error {
	_, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	userProfile, loadError := store.Load()
	if loadError != nil {
		return loadError
	}

	encoded, encodeError := yaml.Marshal(userProfile.Redacted())
	if encodeError != nil {
		return fmt.Errorf(encodeProfileErrorTemplateConstant, encodeError)
	}
	output := command.OutOrStdout()
	fmt.Fprintf(output, profileLocationTemplateConstant, store.Path())
	_, writeError := output.Write(encoded)
	return writeError
}

func (builder *configureCommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	if !flags.ReadExecutionFlags(command).AssumeYes {
		confirmed, confirmError := runtime.confirmer().Confirm(command.Context(), fmt.Sprintf(deleteProfileQuestionTemplateConstant, store.Path()))
		if confirmError != nil {
			return translateSelectionError(confirmError)
		}
		if !confirmed {
			return publish.ErrUserCancelled
		}
	}

	if deleteError := store.Delete(); deleteError != nil {
		return deleteError
	}
	runtime.palette.Warning.Fprint(command.OutOrStdout(), deletedProfileMessageConstant)
	return nil
}

func (builder *configureCommandBuilder) runAliasAdd(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	var added []string
	var duplicates []string
	if _, updateError := store.Update(func(userProfile *profile.Profile) error {
		for _, alias := range arguments {
			if userProfile.AddAlias(alias) {
				added = append(added, alias)
				continue
			}
			duplicates = append(duplicates, alias)
		}
		return nil
	}); updateError != nil {
		return updateError
	}

	output := command.OutOrStdout()
	for _, alias := range added {
		runtime.palette.Success.Fprintf(output, aliasAddedTemplateConstant, alias)
	}
	for _, alias := range duplicates {
		runtime.palette.Muted.Fprintf(output, aliasAlreadyAddedTemplateConstant, alias)
	}
	return nil
}

func (builder *configureCommandBuilder) runAliasRemove(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	userProfile, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	output := command.OutOrStdout()
	if len(userProfile.Aliases) == 0 {
		runtime.palette.Muted.Fprint(output, noAliasesMessageConstant)
		return nil
	}

	selected, selectError := chooseValues(command.Context(), runtime, deleteAliasesTitleConstant, arguments, userProfile.Aliases)
	if selectError != nil {
		return selectError
	}

	removedCount := 0
	if _, updateError := store.Update(func(current *profile.Profile) error {
		removedCount = current.RemoveAliases(selected)
		return nil
	}); updateError != nil {
		return updateError
	}
	runtime.palette.Warning.Fprintf(output, aliasRemovedTemplateConstant, removedCount)
	return nil
}

func (builder *configureCommandBuilder) runAliasList(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	userProfile, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	printNumbered(command.OutOrStdout(), runtime, userProfile.Aliases, noAliasesMessageConstant)
	return nil
}

// chooseValues returns the provided values, or asks the user to pick from available ones.
func chooseValues(executionContext context.Context, runtime commandRuntime, title string, provided []string, available []string) ([]string, error) {
	if len(provided) > 0 {
		return provided, nil
	}
	selector := runtime.valueSelector()
	if selector == nil {
		return nil, ErrSelectionRequired
	}
	selected, selectError := selector.SelectValues(executionContext, title, available)
	if selectError != nil {
		return nil, translateSelectionError(selectError)
	}
	if len(selected) == 0 {
		return nil, publish.ErrUserCancelled
	}
	return selected, nil
}

func printNumbered(output io.Writer, runtime commandRuntime, values []string, emptyMessage string) {
	if len(values) == 0 {
		runtime.palette.Muted.Fprint(output, emptyMessage)
		return
	}
	for valueIndex, value := range values {
		fmt.Fprintf(output, numberedItemTemplateConstant, valueIndex+1, runtime.palette.Success.Sprint(value))
	}
}

func translateSelectionError(selectionError error) error {
	if errors.Is(selectionError, prompt.ErrAborted) {
		return publish.ErrUserCancelled
	}
	return selectionError
}
