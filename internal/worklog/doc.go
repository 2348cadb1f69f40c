// Package worklog synthesizes monthly worklog entries from commit history.
//
// It aggregates CommitOccurrence values into AggregatedTicket records, builds
// the business-day calendar for a target month, and runs the allocation
// Engine that apportions the daily time budget across standups, vacation,
// skipped days, and ticket work. The package performs no I/O.
package worklog
