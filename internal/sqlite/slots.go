package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/punchcard/internal/domain/tracking"
	"github.com/rpggio/punchcard/internal/repository"
)

// SessionRepository implements the active-session slot for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get retrieves the active session
func (r *SessionRepository) Get(ctx context.Context) (*tracking.ActiveSession, error) {
	query := `
		SELECT client, start_time, last_activity_time
		FROM active_session
		WHERE id = 1
	`

	var s tracking.ActiveSession
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Client, &s.StartTime, &s.LastActivityTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	return &s, nil
}

// Set overwrites the active session
func (r *SessionRepository) Set(ctx context.Context, s *tracking.ActiveSession) error {
	query := `
		INSERT INTO active_session (id, client, start_time, last_activity_time)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client = excluded.client,
			start_time = excluded.start_time,
			last_activity_time = excluded.last_activity_time
	`

	if _, err := r.db.ExecContext(ctx, query, s.Client, s.StartTime, s.LastActivityTime); err != nil {
		return fmt.Errorf("failed to set active session: %w", err)
	}
	return nil
}

// Clear removes the active session; clearing an empty slot succeeds
func (r *SessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}

// IdleRepository implements the idle-pending slot for SQLite
type IdleRepository struct {
	db *DB
}

// NewIdleRepository creates a new IdleRepository
func NewIdleRepository(db *DB) *IdleRepository {
	return &IdleRepository{db: db}
}

// Get retrieves the pending idle state
func (r *IdleRepository) Get(ctx context.Context) (*tracking.IdleState, error) {
	query := `
		SELECT client, pause_time, original_start_time, last_activity_time
		FROM idle_state
		WHERE id = 1
	`

	var s tracking.IdleState
	err := r.db.QueryRowContext(ctx, query).Scan(&s.Client, &s.PauseTime, &s.OriginalStartTime, &s.LastActivityTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idle state: %w", err)
	}

	return &s, nil
}

// Set overwrites the pending idle state
func (r *IdleRepository) Set(ctx context.Context, s *tracking.IdleState) error {
	query := `
		INSERT INTO idle_state (id, client, pause_time, original_start_time, last_activity_time)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client = excluded.client,
			pause_time = excluded.pause_time,
			original_start_time = excluded.original_start_time,
			last_activity_time = excluded.last_activity_time
	`

	if _, err := r.db.ExecContext(ctx, query, s.Client, s.PauseTime, s.OriginalStartTime, s.LastActivityTime); err != nil {
		return fmt.Errorf("failed to set idle state: %w", err)
	}
	return nil
}

// Clear removes the pending idle state
func (r *IdleRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM idle_state WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear idle state: %w", err)
	}
	return nil
}
