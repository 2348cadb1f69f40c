package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/tempo/internal/gitlib"
	"github.com/temirov/tempo/internal/profile"
	pathutils "github.com/temirov/tempo/internal/utils/path"
)

const (
	repoCommandUseConstant               = "repo"
	repoCommandShortDescriptionConstant  = "Manage tracked git repositories"
	repoAddUseConstant                   = "add PATH..."
	repoAddShortDescriptionConstant      = "Track repositories"
	repoRemoveUseConstant                = "rm [PATH...]"
	repoRemoveShortDescriptionConstant   = "Stop tracking repositories, choosing interactively when none are given"
	repoListUseConstant                  = "ls"
	repoListShortDescriptionConstant     = "List tracked repositories"
	repositoryAddedTemplateConstant      = "Added %s\n"
	repositoryKnownTemplateConstant      = "%s already added\n"
	repositoryInvalidTemplateConstant    = "Invalid repository %s: %v\n"
	repositoryRemovedTemplateConstant    = "Removed %s\n"
	repositoryNotTrackedTemplateConstant = "%s is not tracked\n"
	repositoryListHeaderConstant         = "Tracked repositories:\n"
	noRepositoriesMessageConstant        = "Not currently tracking any repositories\n"
	deleteRepositoriesTitleConstant      = "Stop tracking repositories"
	repositoryRejectedLogMessageConstant = "Rejected repository path"
	logFieldRepositoryConstant           = "repository"
)

type repoCommandBuilder struct {
	runtimeProvider runtimeProvider
}

// Build constructs the repo command tree.
func (builder *repoCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   repoCommandUseConstant,
		Short: repoCommandShortDescriptionConstant,
	}
	command.AddCommand(
		&cobra.Command{Use: repoAddUseConstant, Short: repoAddShortDescriptionConstant, Args: cobra.MinimumNArgs(1), RunE: builder.runAdd},
		&cobra.Command{Use: repoRemoveUseConstant, Short: repoRemoveShortDescriptionConstant, RunE: builder.runRemove},
		&cobra.Command{Use: repoListUseConstant, Short: repoListShortDescriptionConstant, Args: cobra.NoArgs, RunE: builder.runList},
	)
	return command
}

// runAdd tracks every argument that opens as a git repository. Invalid paths are reported and skipped.
func (builder *repoCommandBuilder) runAdd(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}
	output := command.OutOrStdout()
	expander := pathutils.NewHomeExpander()

	var candidates []string
	for _, argument := range arguments {
		absolutePath, absoluteError := expander.ExpandAbsolute(argument)
		if absoluteError != nil {
			runtime.palette.Failure.Fprintf(output, repositoryInvalidTemplateConstant, argument, absoluteError)
			continue
		}
		repository, openError := gitlib.OpenRepository(absolutePath)
		if openError != nil {
			runtime.logger.Debug(repositoryRejectedLogMessageConstant, zap.String(logFieldRepositoryConstant, absolutePath), zap.Error(openError))
			runtime.palette.Failure.Fprintf(output, repositoryInvalidTemplateConstant, absolutePath, openError)
			continue
		}
		candidates = append(candidates, repository.Path())
		repository.Close()
	}
	if len(candidates) == 0 {
		return nil
	}

	var added []string
	var known []string
	if _, updateError := store.Update(func(userProfile *profile.Profile) error {
		for _, candidate := range candidates {
			if userProfile.AddRepository(candidate) {
				added = append(added, candidate)
				continue
			}
			known = append(known, candidate)
		}
		return nil
	}); updateError != nil {
		return updateError
	}

	for _, repositoryPath := range added {
		runtime.palette.Success.Fprintf(output, repositoryAddedTemplateConstant, repositoryPath)
	}
	for _, repositoryPath := range known {
		runtime.palette.Muted.Fprintf(output, repositoryKnownTemplateConstant, repositoryPath)
	}
	return nil
}

func (builder *repoCommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	userProfile, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	output := command.OutOrStdout()
	if len(userProfile.Repositories) == 0 {
		runtime.palette.Muted.Fprint(output, noRepositoriesMessageConstant)
		return nil
	}

	provided := pathutils.NewRepositoryPathSanitizer(nil).Sanitize(arguments)
	selected, selectError := chooseValues(command.Context(), runtime, deleteRepositoriesTitleConstant, provided, userProfile.Repositories)
	if selectError != nil {
		return selectError
	}

	var removed []string
	if _, updateError := store.Update(func(current *profile.Profile) error {
		removed = current.RemoveRepositories(selected)
		return nil
	}); updateError != nil {
		return updateError
	}

	removedSet := make(map[string]struct{}, len(removed))
	for _, repositoryPath := range removed {
		removedSet[pathutils.ComparisonKey(repositoryPath)] = struct{}{}
		runtime.palette.Warning.Fprintf(output, repositoryRemovedTemplateConstant, repositoryPath)
	}
	for _, repositoryPath := range selected {
		if _, wasRemoved := removedSet[pathutils.ComparisonKey(repositoryPath)]; !wasRemoved {
			runtime.palette.Muted.Fprintf(output, repositoryNotTrackedTemplateConstant, repositoryPath)
		}
	}
	return nil
}

func (builder *repoCommandBuilder) runList(command *cobra.Command, arguments []string) error {
	runtime, store, setupError := openProfileStore(builder.runtimeProvider)
	if setupError != nil {
		return setupError
	}

	userProfile, loadError := store.Load()
	if loadError != nil {
		return loadError
	}
	output := command.OutOrStdout()
	if len(userProfile.Repositories) > 0 {
		runtime.palette.Step.Fprint(output, repositoryListHeaderConstant)
	}
	printNumbered(output, runtime, userProfile.Repositories, noRepositoriesMessageConstant)
	return nil
}
