package collector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/tempo/internal/collector"
)

func TestParseMessage(testInstance *testing.T) {
	testCases := []struct {
		name             string
		message          string
		expectedTicket   string
		expectedComment  string
		expectedAccepted bool
	}{
		{name: "simple", message: "AB-1: Fix login", expectedTicket: "AB-1", expectedComment: "Fix login", expectedAccepted: true},
		{name: "first_colon_wins", message: " AB-2 : note: details ", expectedTicket: "AB-2", expectedComment: "note: details", expectedAccepted: true},
		{name: "empty_comment", message: "AB-3:", expectedTicket: "AB-3", expectedComment: "", expectedAccepted: true},
		{name: "multiline_body", message: "AB-4: Subject\n\nBody line\n", expectedTicket: "AB-4", expectedComment: "Subject\n\nBody line", expectedAccepted: true},
		{name: "no_delimiter", message: "Merge branch develop", expectedAccepted: false},
		{name: "empty_ticket", message: "  : orphan comment", expectedAccepted: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			ticketID, comment, accepted := collector.ParseMessage(testCase.message)
			require.Equal(testInstance, testCase.expectedAccepted, accepted)
			require.Equal(testInstance, testCase.expectedTicket, ticketID)
			require.Equal(testInstance, testCase.expectedComment, comment)
		})
	}
}

func TestIdentityMatches(testInstance *testing.T) {
	identity := collector.Identity{Email: "Dev@Example.com", Aliases: []string{" ", "old-handle"}}

	testCases := []struct {
		name          string
		authorName    string
		authorEmail   string
		expectedMatch bool
	}{
		{name: "email_case_insensitive", authorName: "Dev", authorEmail: "dev@example.com", expectedMatch: true},
		{name: "email_substring", authorName: "Dev", authorEmail: "dev@example.com.au", expectedMatch: true},
		{name: "alias_on_name", authorName: "Old-Handle", authorEmail: "bot@ci.example", expectedMatch: true},
		{name: "foreign", authorName: "Other", authorEmail: "other@example.com", expectedMatch: false},
		{name: "blank_alias_ignored", authorName: "", authorEmail: "", expectedMatch: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMatch, identity.Matches(testCase.authorName, testCase.authorEmail))
		})
	}
}

func TestParseMissingBranchPolicy(testInstance *testing.T) {
	policy, parseError := collector.ParseMissingBranchPolicy("")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, collector.MissingBranchPolicyAbort, policy)

	policy, parseError = collector.ParseMissingBranchPolicy(" SKIP ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, collector.MissingBranchPolicySkip, policy)

	_, parseError = collector.ParseMissingBranchPolicy("retry")
	require.ErrorIs(testInstance, parseError, collector.ErrUnknownMissingBranchPolicy)
}
