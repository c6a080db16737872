package store

import "errors"

// Sentinel errors returned by the store. The API layer translates these into
// HTTP statuses exactly once; raw driver errors never reach callers.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on a mutual-exclusion violation (slot already
	// booked) or when an optimistic-concurrency version check fails.
	ErrConflict = errors.New("conflicting update")

	// ErrForbidden is returned when the requester is not entitled to act on
	// the entity, e.g. cancelling someone else's booking.
	ErrForbidden = errors.New("not authorized")

	// ErrAlreadyCancelled is returned when cancelling a booking that has
	// already been cancelled. Repeated cancels are rejected, not absorbed.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrPastSchedule is returned when booking a slot whose start time has
	// already passed.
	ErrPastSchedule = errors.New("schedule start time is in the past")

	// ErrInvalidInput is returned for malformed domain input, e.g. a
	// schedule whose end time is not after its start time.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken is returned when registering an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already registered")
)
