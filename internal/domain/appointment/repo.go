package appointment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the appointment store. TryInsert performs the conditional
// insert against the (doctor_id, date, time) unique constraint and reports
// whether the row was actually written, so a lost booking race surfaces as
// false rather than as an error.
type Repository interface {
	TryInsert(ctx context.Context, a *Appointment) (bool, error)
	ExistsAt(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, date *string) ([]*Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, date *string) ([]*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// Window is one availability window on a weekday, half-open: a time t is
// inside iff Start <= t < End.
type Window struct {
	Start string
	End   string
}

// ScheduleSource is the narrow view of the doctor schedule the booking flow
// needs. Day is 0=Monday through 6=Sunday.
type ScheduleSource interface {
	WindowsForDay(ctx context.Context, doctorID uuid.UUID, day int) ([]Window, error)
}

// DoctorSource resolves doctors for booking and for the doctor's own
// appointment list.
type DoctorSource interface {
	// DoctorIDForUser returns the doctor record owned by the user, or
	// ErrNotFound when the user has none.
	DoctorIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	// HospitalForDoctor returns the doctor's hospital, or ErrNotFound for an
	// unknown doctor.
	HospitalForDoctor(ctx context.Context, doctorID uuid.UUID) (uuid.UUID, error)
}
