package prompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tempo/internal/prompt"
)

func TestIOConfirmationPrompter(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "short_yes", input: "y\n", expected: true},
		{name: "long_yes_mixed_case", input: " YeS \n", expected: true},
		{name: "no", input: "n\n", expected: false},
		{name: "empty_line", input: "\n", expected: false},
		{name: "end_of_input", input: "", expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			output := &bytes.Buffer{}
			prompter := prompt.NewIOConfirmationPrompter(strings.NewReader(testCase.input), output)

			confirmed, confirmError := prompter.Confirm(context.Background(), "Submit 3 worklogs?")

			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expected, confirmed)
			require.Equal(testInstance, "Submit 3 worklogs? [y/N]: ", output.String())
		})
	}
}

func TestIOConfirmationPrompterHonorsCanceledContext(testInstance *testing.T) {
	canceledContext, cancel := context.WithCancel(context.Background())
	cancel()
	prompter := prompt.NewIOConfirmationPrompter(strings.NewReader("y\n"), nil)

	confirmed, confirmError := prompter.Confirm(canceledContext, "Submit?")

	require.ErrorIs(testInstance, confirmError, context.Canceled)
	require.False(testInstance, confirmed)
}
