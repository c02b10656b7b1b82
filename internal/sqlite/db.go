// Package sqlite provides an alternative storage backend implementing the
// same repository contracts as the file-backed stores.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Entries keep their append order through
// the seq column; the two slot tables are constrained to a single row.
func (db *DB) RunMigrations() error {
	migration := `
CREATE TABLE IF NOT EXISTS entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    client TEXT NOT NULL,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    duration_minutes INTEGER NOT NULL CHECK(duration_minutes >= 0)
);
CREATE INDEX IF NOT EXISTS idx_entries_start ON entries(start_time);
CREATE INDEX IF NOT EXISTS idx_entries_client ON entries(client);

CREATE TABLE IF NOT EXISTS active_session (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    client TEXT NOT NULL,
    start_time TIMESTAMP NOT NULL,
    last_activity_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS idle_state (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    client TEXT NOT NULL,
    pause_time TIMESTAMP NOT NULL,
    original_start_time TIMESTAMP NOT NULL,
    last_activity_time TIMESTAMP NOT NULL
);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
