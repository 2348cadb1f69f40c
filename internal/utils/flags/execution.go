// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Execution flag names shared by mutating commands.
const (
	DryRunFlagName    = "dry-run"
	AssumeYesFlagName = "yes"
	SkipPullFlagName  = "skip-pull"
)

const (
	assumeYesShorthandConstant = "y"
	dryRunUsageConstant        = "Preview the worklogs without submitting anything"
	assumeYesUsageConstant     = "Answer yes to every confirmation"
	skipPullUsageConstant      = "Do not fetch or fast-forward the tracked repositories"
)

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun    ExecutionFlagDefinition
	AssumeYes ExecutionFlagDefinition
	SkipPull  ExecutionFlagDefinition
}

// ExecutionFlags holds the parsed execution flag values.
type ExecutionFlags struct {
	DryRun    bool
	AssumeYes bool
	SkipPull  bool
}

// PublishExecutionFlagDefinitions enables every execution flag.
func PublishExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:    ExecutionFlagDefinition{Name: DryRunFlagName, Usage: dryRunUsageConstant, Enabled: true},
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Usage: assumeYesUsageConstant, Shorthand: assumeYesShorthandConstant, Enabled: true},
		SkipPull:  ExecutionFlagDefinition{Name: SkipPullFlagName, Usage: skipPullUsageConstant, Enabled: true},
	}
}

// ConfirmationOnlyFlagDefinitions enables only --yes.
func ConfirmationOnlyFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Usage: assumeYesUsageConstant, Shorthand: assumeYesShorthandConstant, Enabled: true},
	}
}

// BindExecutionFlags attaches the enabled execution flags to the command's local flag set.
func BindExecutionFlags(command *cobra.Command, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	flagSet := command.Flags()
	bindBoolFlag(flagSet, definitions.DryRun)
	bindBoolFlag(flagSet, definitions.AssumeYes)
	bindBoolFlag(flagSet, definitions.SkipPull)
}

// ReadExecutionFlags extracts execution flag values. Flags that were never bound read as false.
func ReadExecutionFlags(command *cobra.Command) ExecutionFlags {
	if command == nil {
		return ExecutionFlags{}
	}

	flagSet := command.Flags()
	return ExecutionFlags{
		DryRun:    readBoolFlag(flagSet, DryRunFlagName),
		AssumeYes: readBoolFlag(flagSet, AssumeYesFlagName),
		SkipPull:  readBoolFlag(flagSet, SkipPullFlagName),
	}
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) {
	if flagSet == nil || !definition.Enabled || len(definition.Name) == 0 {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, false, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, false, definition.Usage)
}

func readBoolFlag(flagSet *pflag.FlagSet, name string) bool {
	if flagSet.Lookup(name) == nil {
		return false
	}
	value, valueError := flagSet.GetBool(name)
	if valueError != nil {
		return false
	}
	return value
}
