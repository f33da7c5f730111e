package db

import (
	"fmt"
)

// pragmas trade durability for bulk insert speed. A staging database is
// rebuilt from scratch when a run fails, so a torn file is acceptable.
// Foreign keys stay off: rows may reference targets imported later.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(OFF)",
	"foreign_keys(0)",
	"temp_store(MEMORY)",
	"cache_size(-65536)",
	"busy_timeout(5000)",
}

// SchemaVersion returns the version recorded in PRAGMA user_version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// ApplySchema executes statements in one transaction and records version.
// It is a no-op when the database is already at version or newer.
func (db *DB) ApplySchema(version int, statements []string) error {
	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	if current >= version {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback() // Rollback error less important than statement error
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}
