package tracking

import (
	"context"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

// SessionRepository persists the single active-session slot. Get returns
// repository.ErrNotFound when the slot is absent.
type SessionRepository interface {
	Get(ctx context.Context) (*ActiveSession, error)
	Set(ctx context.Context, s *ActiveSession) error
	Clear(ctx context.Context) error
}

// IdleRepository persists the single idle-pending slot.
type IdleRepository interface {
	Get(ctx context.Context) (*IdleState, error)
	Set(ctx context.Context, s *IdleState) error
	Clear(ctx context.Context) error
}

// Ledger receives finalized entries.
type Ledger interface {
	Append(ctx context.Context, e entry.TimeEntry) error
}
