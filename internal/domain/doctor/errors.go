package doctor

import "errors"

var (
	// ErrNotFound covers doctors and schedule windows the caller cannot see,
	// including records outside the caller's hospital.
	ErrNotFound = errors.New("doctor not found")

	// ErrEmailTaken is returned when the new doctor's email is already
	// registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateWindow is returned when an identical (doctor, day, start,
	// end) window already exists. Overlapping windows are tolerated.
	ErrDuplicateWindow = errors.New("schedule window already exists")

	// ErrForbidden is returned when the caller may not manage the target
	// doctor's schedule.
	ErrForbidden = errors.New("not allowed to manage this doctor")

	// ErrInvalidWindow wraps schedule window validation failures.
	ErrInvalidWindow = errors.New("invalid schedule window")
)
