package entry

import "errors"

var (
	// ErrInvalidClient indicates an empty client name.
	ErrInvalidClient = errors.New("client name is required")
	// ErrInvalidInterval indicates an end time at or before the start time.
	ErrInvalidInterval = errors.New("end time must be after start time")
)
