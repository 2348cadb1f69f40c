// Package ledger records the worklogs this tool published so they can be removed later.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverNameConstant        = "sqlite"
	inMemoryPathConstant            = ":memory:"
	storedTimeLayoutConstant        = "2006-01-02T15:04:05Z07:00"
	periodLayoutConstant            = "2006-01"
	ledgerDirectoryPermissions      = 0o700
	createDirectoryTemplateConstant = "creating ledger directory: %w"
	openDatabaseTemplateConstant    = "opening ledger database: %w"
	pragmaTemplateConstant          = "applying %q: %w"
	migrationTemplateConstant       = "ledger migration %d: %w"
	schemaVersionTemplateConstant   = "reading ledger schema version: %w"
	recordTemplateConstant          = "recording worklog %s on %s: %w"
	listTemplateConstant            = "listing published worklogs: %w"
	deleteTemplateConstant          = "deleting ledger entry %s: %w"
	scanTemplateConstant            = "reading ledger row: %w"
	parseTimeTemplateConstant       = "parsing stored time %q: %w"
)

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS published_worklogs (
		id                 TEXT PRIMARY KEY,
		issue_key          TEXT NOT NULL,
		worklog_id         TEXT NOT NULL,
		kind               TEXT NOT NULL,
		started_at         TEXT NOT NULL,
		time_spent_seconds INTEGER NOT NULL,
		comment            TEXT NOT NULL DEFAULT '',
		published_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_published_worklogs_started_at ON published_worklogs(started_at)`,
	`ALTER TABLE published_worklogs ADD COLUMN period TEXT NOT NULL DEFAULT ''`,
	`UPDATE published_worklogs SET period = substr(started_at, 1, 7) WHERE period = ''`,
	`CREATE INDEX IF NOT EXISTS idx_published_worklogs_period ON published_worklogs(period)`,
}

// ErrEntryNotFound indicates that no ledger entry has the requested id.
var ErrEntryNotFound = errors.New("ledger entry not found")

// Entry is one published worklog. Period is the year-month the worklog was published for,
// which can differ from the month StartedAt falls in outside the reporting time zone.
type Entry struct {
	ID               string
	Period           string
	IssueKey         string
	WorklogID        string
	Kind             string
	StartedAt        time.Time
	TimeSpentSeconds int64
	Comment          string
	PublishedAt      time.Time
}

// Ledger is a SQLite-backed record of published worklogs.
type Ledger struct {
	database *sql.DB
	now      func() time.Time
}

// Open opens or creates the ledger database at path and applies migrations.
func Open(path string) (*Ledger, error) {
	if path != inMemoryPathConstant {
		if mkdirError := os.MkdirAll(filepath.Dir(path), ledgerDirectoryPermissions); mkdirError != nil {
			return nil, fmt.Errorf(createDirectoryTemplateConstant, mkdirError)
		}
	}

	database, openError := sql.Open(sqliteDriverNameConstant, path)
	if openError != nil {
		return nil, fmt.Errorf(openDatabaseTemplateConstant, openError)
	}
	database.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, pragmaError := database.Exec(pragma); pragmaError != nil {
			database.Close()
			return nil, fmt.Errorf(pragmaTemplateConstant, pragma, pragmaError)
		}
	}

	if migrateError := migrate(database); migrateError != nil {
		database.Close()
		return nil, migrateError
	}

	return &Ledger{database: database, now: time.Now}, nil
}

// PeriodKey formats the ledger period of a reporting month.
func PeriodKey(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(periodLayoutConstant)
}

// migrate applies the statements newer than the stored user_version.
func migrate(database *sql.DB) error {
	var schemaVersion int
	if versionError := database.QueryRow(`PRAGMA user_version`).Scan(&schemaVersion); versionError != nil {
		return fmt.Errorf(schemaVersionTemplateConstant, versionError)
	}
	for migrationIndex := schemaVersion; migrationIndex < len(migrations); migrationIndex++ {
		if _, migrationError := database.Exec(migrations[migrationIndex]); migrationError != nil {
			return fmt.Errorf(migrationTemplateConstant, migrationIndex, migrationError)
		}
		if _, versionError := database.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, migrationIndex+1)); versionError != nil {
			return fmt.Errorf(migrationTemplateConstant, migrationIndex, versionError)
		}
	}
	return nil
}

// Close releases the database handle.
func (ledger *Ledger) Close() error {
	return ledger.database.Close()
}

// Record stores a published worklog, assigning its id and publication time.
func (ledger *Ledger) Record(executionContext context.Context, entry Entry) (Entry, error) {
	entry.ID = uuid.NewString()
	entry.PublishedAt = ledger.now().UTC()

	_, insertError := ledger.database.ExecContext(executionContext,
		`INSERT INTO published_worklogs (id, period, issue_key, worklog_id, kind, started_at, time_spent_seconds, comment, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Period,
		entry.IssueKey,
		entry.WorklogID,
		entry.Kind,
		formatStoredTime(entry.StartedAt),
		entry.TimeSpentSeconds,
		entry.Comment,
		formatStoredTime(entry.PublishedAt),
	)
	if insertError != nil {
		return Entry{}, fmt.Errorf(recordTemplateConstant, entry.WorklogID, entry.IssueKey, insertError)
	}
	return entry, nil
}

// ListPeriod returns the entries published for the period key, oldest first.
func (ledger *Ledger) ListPeriod(executionContext context.Context, period string) ([]Entry, error) {
	rows, queryError := ledger.database.QueryContext(executionContext,
		`SELECT id, period, issue_key, worklog_id, kind, started_at, time_spent_seconds, comment, published_at
		 FROM published_worklogs
		 WHERE period = ?
		 ORDER BY started_at, published_at`,
		period,
	)
	if queryError != nil {
		return nil, fmt.Errorf(listTemplateConstant, queryError)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, scanError := scanEntry(rows)
		if scanError != nil {
			return nil, scanError
		}
		entries = append(entries, entry)
	}
	if rowsError := rows.Err(); rowsError != nil {
		return nil, fmt.Errorf(listTemplateConstant, rowsError)
	}
	return entries, nil
}

// Delete removes the entry with the provided id.
func (ledger *Ledger) Delete(executionContext context.Context, entryID string) error {
	result, deleteError := ledger.database.ExecContext(executionContext, `DELETE FROM published_worklogs WHERE id = ?`, entryID)
	if deleteError != nil {
		return fmt.Errorf(deleteTemplateConstant, entryID, deleteError)
	}
	affectedRows, affectedError := result.RowsAffected()
	if affectedError != nil {
		return fmt.Errorf(deleteTemplateConstant, entryID, affectedError)
	}
	if affectedRows == 0 {
		return fmt.Errorf(deleteTemplateConstant, entryID, ErrEntryNotFound)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var entry Entry
	var startedAt string
	var publishedAt string
	if scanError := rows.Scan(&entry.ID, &entry.Period, &entry.IssueKey, &entry.WorklogID, &entry.Kind, &startedAt, &entry.TimeSpentSeconds, &entry.Comment, &publishedAt); scanError != nil {
		return Entry{}, fmt.Errorf(scanTemplateConstant, scanError)
	}

	var parseError error
	if entry.StartedAt, parseError = parseStoredTime(startedAt); parseError != nil {
		return Entry{}, parseError
	}
	if entry.PublishedAt, parseError = parseStoredTime(publishedAt); parseError != nil {
		return Entry{}, parseError
	}
	return entry, nil
}

// Times are stored in UTC with second precision so lexical order matches chronological order.
func formatStoredTime(value time.Time) string {
	return value.UTC().Truncate(time.Second).Format(storedTimeLayoutConstant)
}

func parseStoredTime(value string) (time.Time, error) {
	parsed, parseError := time.Parse(storedTimeLayoutConstant, value)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(parseTimeTemplateConstant, value, parseError)
	}
	return parsed, nil
}
