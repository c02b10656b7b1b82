package repository

import (
	"context"

	"github.com/rpggio/punchcard/internal/domain/entry"
)

// EntryRepository manages the append-and-rewrite entry ledger.
type EntryRepository interface {
	Append(ctx context.Context, e entry.TimeEntry) error
	All(ctx context.Context) ([]entry.TimeEntry, error)
	ReplaceAll(ctx context.Context, entries []entry.TimeEntry) error
}

// SlotRepository manages a durable single-record slot. Get returns
// ErrNotFound when the slot is absent or unreadable; Clear of an absent slot
// succeeds. The active-session and idle-pending stores are instantiations of
// this contract.
type SlotRepository[T any] interface {
	Get(ctx context.Context) (*T, error)
	Set(ctx context.Context, value *T) error
	Clear(ctx context.Context) error
}
