package model

import "errors"

// Sentinel errors shared by the roster, attendance and calendar cores.
// The HTTP layer maps them to status codes with errors.Is.
var (
	// ErrNotFound marks an unknown activity name or event id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange marks an event whose end is not after its start.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrInvalidFormat marks a malformed date or timestamp string.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidState marks an operation that does not apply to the
	// target, such as cancelling a date on a non-recurring event.
	ErrInvalidState = errors.New("invalid state")

	// ErrAlreadySignedUp marks a duplicate activity signup.
	ErrAlreadySignedUp = errors.New("already signed up")

	// ErrNotSignedUp marks an operation on a student who is not
	// registered for the activity.
	ErrNotSignedUp = errors.New("not signed up")
)
