package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "abort",
			choices:        []string{"abort", "skip"},
			description:    "Behaviour when the integration branch is missing.",
			expectedOutput: "`<ABORT|skip>` Behaviour when the integration branch is missing.",
		},
		{
			name:           "empty_description",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<structured|CONSOLE>`",
		},
		{
			name:           "duplicates_and_whitespace",
			defaultChoice:  "info",
			choices:        []string{" debug ", "info", "INFO"},
			description:    "Log level.",
			expectedOutput: "`<debug|INFO>` Log level.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestChoiceValueValidatesInput(testInstance *testing.T) {
	choiceValue := NewChoiceValue("info", []string{"debug", "info", "warn", "error"})
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Var(choiceValue, "log-level", "level")

	require.Equal(testInstance, "info", choiceValue.String())
	require.NoError(testInstance, flagSet.Parse([]string{"--log-level", " DEBUG "}))
	require.Equal(testInstance, "debug", choiceValue.String())

	setError := choiceValue.Set("verbose")
	require.ErrorContains(testInstance, setError, "debug, info, warn, error")
	require.Equal(testInstance, "debug", choiceValue.String())
	require.Equal(testInstance, "choice", choiceValue.Type())
}
