package tracking

import "errors"

var (
	// ErrInvalidClient indicates an empty client name.
	ErrInvalidClient = errors.New("client name is required")
	// ErrInvalidEndTime indicates a stop override at or before the session start.
	ErrInvalidEndTime = errors.New("end time must be after the session start")
	// ErrNoActiveSession indicates an operation that requires a running session.
	ErrNoActiveSession = errors.New("no active session")
	// ErrIdlePending indicates an unresolved idle confirmation.
	ErrIdlePending = errors.New("an idle confirmation is pending")
)
