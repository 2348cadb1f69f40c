package worklog

import (
	"time"
)

const (
	entryKindRegularLabelConstant      = "Regular"
	entryKindDailyStandupLabelConstant = "Daily standup"
	entryKindPtoLabelConstant          = "PTO"
	entryKindSkippedLabelConstant      = "Skipped"
	entryKindUnknownLabelConstant      = "Unknown"
)

// EntryKind enumerates the closed set of worklog entry variants.
type EntryKind int

// Supported entry kinds. The zero value is intentionally invalid.
const (
	EntryKindRegular EntryKind = iota + 1
	EntryKindDailyStandup
	EntryKindPto
	EntryKindSkipped
)

// String returns the human-readable label for the entry kind.
func (kind EntryKind) String() string {
	switch kind {
	case EntryKindRegular:
		return entryKindRegularLabelConstant
	case EntryKindDailyStandup:
		return entryKindDailyStandupLabelConstant
	case EntryKindPto:
		return entryKindPtoLabelConstant
	case EntryKindSkipped:
		return entryKindSkippedLabelConstant
	default:
		return entryKindUnknownLabelConstant
	}
}

// CommitOccurrence is a single matched commit reduced to its ticket reference.
type CommitOccurrence struct {
	TicketID  string
	Comment   string
	Timestamp time.Time
}

// AggregatedTicket merges every occurrence of one ticket within the window.
type AggregatedTicket struct {
	TicketID        string
	Comments        []string
	Timestamp       time.Time
	RemainingBudget time.Duration
}

// Entry is one synthesized worklog record.
type Entry struct {
	Kind      EntryKind
	TicketID  string
	Comment   string
	Started   time.Time
	TimeSpent time.Duration
}

// IsSubmittable reports whether the entry may be sent to the tracker.
func (entry Entry) IsSubmittable() bool {
	return entry.Kind != EntryKindSkipped
}

// TotalTimeSpent sums the durations of the provided entries.
func TotalTimeSpent(entries []Entry) time.Duration {
	var total time.Duration
	for _, entry := range entries {
		total += entry.TimeSpent
	}
	return total
}
