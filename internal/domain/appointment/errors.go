package appointment

import "errors"

var (
	// ErrNotFound is returned for unknown appointments or doctors.
	ErrNotFound = errors.New("appointment not found")

	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid appointment request")

	// ErrOutsideSchedule is returned when the requested slot does not fall
	// inside any of the doctor's windows for that weekday.
	ErrOutsideSchedule = errors.New("slot is outside the doctor's schedule")

	// ErrSlotTaken is returned when another appointment already holds the
	// exact (doctor, date, time) slot, whatever its status.
	ErrSlotTaken = errors.New("slot is already booked")

	// ErrForbidden is returned when the caller may not see or change the
	// target appointments.
	ErrForbidden = errors.New("not allowed to access these appointments")

	// ErrInvalidStatus is returned for a status outside the four lifecycle
	// states.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned for a status edge the lifecycle state
	// machine does not allow.
	ErrInvalidTransition = errors.New("status transition not allowed")
)
