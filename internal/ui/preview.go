package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/temirov/tempo/internal/ledger"
	"github.com/temirov/tempo/internal/payload"
)

const (
	dateColumnHeaderConstant       = "Date"
	startedColumnHeaderConstant    = "Started"
	hoursColumnHeaderConstant      = "Hours"
	issueColumnHeaderConstant      = "Issue"
	kindColumnHeaderConstant       = "Kind"
	commentColumnHeaderConstant    = "Comment"
	worklogColumnHeaderConstant    = "Worklog"
	dateLayoutConstant             = "Mon 02 Jan"
	clockLayoutConstant            = "15:04"
	hoursTemplateConstant          = "%.2f"
	totalLabelConstant             = "Total"
	skippedIssueLabelConstant      = "-"
	commentPreviewMaxRunesConstant = 48
	commentEllipsisConstant        = "..."
	autoGeneratedPrefixConstant    = "(Auto generated)"
	commentLineSeparatorConstant   = "\n"
	commentJoinSeparatorConstant   = "; "
)

// RenderWorklogPreview renders records as a table with a total hours footer.
func RenderWorklogPreview(records []payload.Record) string {
	writer := newTableWriter()
	writer.AppendHeader(table.Row{dateColumnHeaderConstant, startedColumnHeaderConstant, hoursColumnHeaderConstant, issueColumnHeaderConstant, kindColumnHeaderConstant, commentColumnHeaderConstant})

	var totalSeconds int64
	for _, record := range records {
		dateLabel, clockLabel := describeStarted(record.Started)
		issueLabel := record.IssueKey
		if len(issueLabel) == 0 {
			issueLabel = skippedIssueLabelConstant
		}
		writer.AppendRow(table.Row{dateLabel, clockLabel, formatHours(record.TimeSpentSeconds), issueLabel, record.Kind.String(), summarizeComment(record.Comment)})
		totalSeconds += record.TimeSpentSeconds
	}
	writer.AppendFooter(table.Row{totalLabelConstant, "", formatHours(totalSeconds), "", "", ""})
	return writer.Render()
}

// RenderLedgerEntries renders published worklogs recorded in the ledger.
func RenderLedgerEntries(entries []ledger.Entry, location *time.Location) string {
	if location == nil {
		location = time.Local
	}
	writer := newTableWriter()
	writer.AppendHeader(table.Row{dateColumnHeaderConstant, startedColumnHeaderConstant, hoursColumnHeaderConstant, issueColumnHeaderConstant, worklogColumnHeaderConstant, kindColumnHeaderConstant})

	var totalSeconds int64
	for _, entry := range entries {
		started := entry.StartedAt.In(location)
		writer.AppendRow(table.Row{started.Format(dateLayoutConstant), started.Format(clockLayoutConstant), formatHours(entry.TimeSpentSeconds), entry.IssueKey, entry.WorklogID, entry.Kind})
		totalSeconds += entry.TimeSpentSeconds
	}
	writer.AppendFooter(table.Row{totalLabelConstant, "", formatHours(totalSeconds), "", "", ""})
	return writer.Render()
}

func newTableWriter() table.Writer {
	writer := table.NewWriter()
	writer.SetStyle(table.StyleLight)
	writer.Style().Options.SeparateRows = false
	writer.Style().Format.Header = text.FormatDefault
	writer.Style().Format.Footer = text.FormatDefault
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return writer
}

func describeStarted(started string) (string, string) {
	parsed, parseError := payload.ParseStarted(started)
	if parseError != nil {
		return started, ""
	}
	return parsed.Format(dateLayoutConstant), parsed.Format(clockLayoutConstant)
}

func formatHours(seconds int64) string {
	return fmt.Sprintf(hoursTemplateConstant, time.Duration(seconds*int64(time.Second)).Hours())
}

func summarizeComment(comment string) string {
	lines := strings.Split(comment, commentLineSeparatorConstant)
	meaningful := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), autoGeneratedPrefixConstant))
		if len(trimmed) > 0 {
			meaningful = append(meaningful, trimmed)
		}
	}
	summary := strings.Join(meaningful, commentJoinSeparatorConstant)
	runes := []rune(summary)
	if len(runes) <= commentPreviewMaxRunesConstant {
		return summary
	}
	return string(runes[:commentPreviewMaxRunesConstant-len(commentEllipsisConstant)]) + commentEllipsisConstant
}
