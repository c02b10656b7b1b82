package repository

import "errors"

var (
	// ErrNotFound is returned when a requested record doesn't exist. Slot
	// reads map corrupt records to ErrNotFound as well: a slot that cannot
	// be decoded behaves like an empty slot, not like a failure.
	ErrNotFound = errors.New("not found")
)
