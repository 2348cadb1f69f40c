// Package prompt gathers the reporting period and day selections from the terminal.
//
// FormSelector renders charmbracelet/huh forms; IOConfirmationPrompter reads plain
// y/yes answers when no terminal is attached.
package prompt
