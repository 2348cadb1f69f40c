package payload

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/temirov/tempo/internal/worklog"
)

const (
	// StartedLayout is the tracker timestamp layout: local time with milliseconds and a numeric zone offset.
	StartedLayout = "2006-01-02T15:04:05.000-0700"

	// DefaultStandupIssueKey receives every daily standup entry.
	DefaultStandupIssueKey = "ART-1777"
	// DefaultPtoIssueKey receives every vacation entry.
	DefaultPtoIssueKey = "ART-1790"

	unsupportedEntryKindTemplateConstant = "%w: %s"
	parseStartedTemplateConstant         = "parse started timestamp %q: %w"
)

// ErrUnsupportedEntryKind indicates an entry whose kind has no issue mapping.
var ErrUnsupportedEntryKind = errors.New("unsupported worklog entry kind")

// IssueKeys names the fixed issues that non-ticket entries are logged against.
type IssueKeys struct {
	Standup string `mapstructure:"standup_issue"`
	Pto     string `mapstructure:"pto_issue"`
}

// Sanitize trims whitespace and fills empty keys with defaults.
func (keys IssueKeys) Sanitize() IssueKeys {
	sanitized := IssueKeys{
		Standup: strings.TrimSpace(keys.Standup),
		Pto:     strings.TrimSpace(keys.Pto),
	}
	if len(sanitized.Standup) == 0 {
		sanitized.Standup = DefaultStandupIssueKey
	}
	if len(sanitized.Pto) == 0 {
		sanitized.Pto = DefaultPtoIssueKey
	}
	return sanitized
}

// Record is the submission-ready form of a worklog entry.
type Record struct {
	IssueKey         string
	Started          string
	TimeSpentSeconds int64
	Comment          string
	Kind             worklog.EntryKind
	Submittable      bool
}

// Assembler maps entries to records.
type Assembler struct {
	issueKeys IssueKeys
}

// NewAssembler constructs an Assembler with sanitized issue keys.
func NewAssembler(issueKeys IssueKeys) *Assembler {
	return &Assembler{issueKeys: issueKeys.Sanitize()}
}

// Assemble converts a single entry.
func (assembler *Assembler) Assemble(entry worklog.Entry) (Record, error) {
	record := Record{
		Started:          FormatStarted(entry.Started),
		TimeSpentSeconds: int64(entry.TimeSpent / time.Second),
		Comment:          entry.Comment,
		Kind:             entry.Kind,
		Submittable:      entry.IsSubmittable(),
	}

	switch entry.Kind {
	case worklog.EntryKindRegular:
		record.IssueKey = entry.TicketID
	case worklog.EntryKindDailyStandup:
		record.IssueKey = assembler.issueKeys.Standup
	case worklog.EntryKindPto:
		record.IssueKey = assembler.issueKeys.Pto
	case worklog.EntryKindSkipped:
		record.IssueKey = ""
	default:
		return Record{}, fmt.Errorf(unsupportedEntryKindTemplateConstant, ErrUnsupportedEntryKind, entry.Kind)
	}

	return record, nil
}

// AssembleAll converts entries in order, stopping at the first unsupported kind.
func (assembler *Assembler) AssembleAll(entries []worklog.Entry) ([]Record, error) {
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		record, assembleError := assembler.Assemble(entry)
		if assembleError != nil {
			return nil, assembleError
		}
		records = append(records, record)
	}
	return records, nil
}

// Submittable filters records down to those that may be sent to the tracker.
func Submittable(records []Record) []Record {
	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if record.Submittable {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FormatStarted renders an instant in the tracker timestamp layout, keeping its zone.
func FormatStarted(started time.Time) string {
	return started.Format(StartedLayout)
}

// ParseStarted decodes a tracker timestamp.
func ParseStarted(value string) (time.Time, error) {
	parsed, parseError := time.Parse(StartedLayout, value)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(parseStartedTemplateConstant, value, parseError)
	}
	return parsed, nil
}
