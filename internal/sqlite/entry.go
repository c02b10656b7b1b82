package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

// EntryRepository implements repository.EntryRepository for SQLite
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Append adds one finalized entry
func (r *EntryRepository) Append(ctx context.Context, e entry.TimeEntry) error {
	query := `
		INSERT INTO entries (client, start_time, end_time, duration_minutes)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.Client,
		e.StartTime,
		e.EndTime,
		e.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}

	return nil
}

// All returns every entry in append order
func (r *EntryRepository) All(ctx context.Context) ([]entry.TimeEntry, error) {
	query := `
		SELECT client, start_time, end_time, duration_minutes
		FROM entries
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []entry.TimeEntry
	for rows.Next() {
		var e entry.TimeEntry
		if err := rows.Scan(&e.Client, &e.StartTime, &e.EndTime, &e.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, nil
}

// ReplaceAll rewrites the ledger inside one transaction
func (r *EntryRepository) ReplaceAll(ctx context.Context, entries []entry.TimeEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rewrite: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}

	insert := `
		INSERT INTO entries (client, start_time, end_time, duration_minutes)
		VALUES (?, ?, ?, ?)
	`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, insert, e.Client, e.StartTime, e.EndTime, e.DurationMinutes); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rewrite: %w", err)
	}
	return nil
}
