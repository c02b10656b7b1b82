package entry

import "context"

// Repository provides durable storage for the entry ledger. All returns
// entries in storage order; a missing backing store reads as empty, not as
// an error.
type Repository interface {
	Append(ctx context.Context, e TimeEntry) error
	All(ctx context.Context) ([]TimeEntry, error)
	ReplaceAll(ctx context.Context, entries []TimeEntry) error
}
