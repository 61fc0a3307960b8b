package identity

import "errors"

var (
	// ErrNotFound is returned for missing users or admin links.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the email is already registered.
	// The storage unique constraint is the source of truth, so two racing
	// registrations cannot both succeed.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
