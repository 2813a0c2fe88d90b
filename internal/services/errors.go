package services

import "errors"

// Domain error kinds. Handlers map these onto HTTP statuses; anything else
// coming out of a service is treated as a storage failure.
var (
	// ErrInvalidRange is returned when a unit or date range ends before it
	// starts.
	ErrInvalidRange = errors.New("invalid range")

	// ErrEmptySchedule is returned when no date in the window falls on a
	// selected weekday.
	ErrEmptySchedule = errors.New("empty schedule")

	// ErrOutOfRange is returned for achievement values outside [0,100].
	ErrOutOfRange = errors.New("achievement out of range")

	// ErrNotFound is returned when a referenced user, task, or data window
	// is absent.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdentity is returned for a signup with a username that is
	// already taken.
	ErrDuplicateIdentity = errors.New("duplicate identity")
)
