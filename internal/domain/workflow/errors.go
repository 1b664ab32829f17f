package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when an action is not legal from the
	// current status for any ordinary role. Callers must reload current state
	// before retrying; the request itself is stale or nonsensical.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the action is legal from the current
	// status for some actor, but the requester lacks the role or the
	// relationship standing to perform it.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced timesheet, user or course
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned on malformed input (zero ids, unknown
	// enum values) before any business logic runs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrVersionConflict is returned by the persistence boundary when an
	// optimistic concurrency check fails at save time. The losing writer
	// must reload and revalidate; the action is never replayed blindly.
	ErrVersionConflict = errors.New("version conflict")
)
