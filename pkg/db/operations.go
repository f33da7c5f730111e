package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Read-side helpers for the diagnostic commands. The import path itself
// never reads back what it wrote.

// CountRows returns the number of rows in table.
func (db *DB) CountRows(table string) (int64, error) {
	var count int64
	err := db.QueryRow("SELECT COUNT(*) FROM " + quoteIdent(table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// LogRecord is a stored diagnostic row.
type LogRecord struct {
	RowID     int64
	CreatedAt string
	Type      string
	Message   string
	Exception sql.NullString
	Details   sql.NullString
}

// ListLogEntries returns the most recent log entries, newest first.
// An empty logType returns all types; limit <= 0 returns everything.
func (db *DB) ListLogEntries(logType string, limit int) ([]LogRecord, error) {
	query := `
		SELECT rowid, CAST(created_at AS TEXT), type, message, exception, details
		FROM log_entries
	`
	var args []any
	if logType != "" {
		query += " WHERE type = ?"
		args = append(args, logType)
	}
	query += " ORDER BY rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var records []LogRecord
	for rows.Next() {
		var r LogRecord
		if err := rows.Scan(&r.RowID, &r.CreatedAt, &r.Type, &r.Message, &r.Exception, &r.Details); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log entries: %w", err)
	}

	return records, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
