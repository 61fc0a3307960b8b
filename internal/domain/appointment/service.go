package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

// Service owns availability checks and the booking lifecycle.
type Service struct {
	appts     Repository
	schedules ScheduleSource
	doctors   DoctorSource
	now       func() time.Time
}

func NewService(appts Repository, schedules ScheduleSource, doctors DoctorSource) *Service {
	return &Service{appts: appts, schedules: schedules, doctors: doctors, now: time.Now}
}

// dayIndex maps a calendar date to the schedule's weekday indexing,
// 0=Monday through 6=Sunday.
func dayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// withinSchedule reports whether timeOfDay falls inside any window for the
// date's weekday. Windows are half-open, so the end boundary itself is not
// bookable.
func (s *Service) withinSchedule(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	windows, err := s.schedules.WindowsForDay(ctx, doctorID, dayIndex(date))
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Start <= timeOfDay && timeOfDay < w.End {
			return true, nil
		}
	}
	return false, nil
}

// IsSlotAvailable reports whether the slot is inside the doctor's schedule
// and not already held. An existing appointment blocks the slot whatever its
// status, Cancelled included.
func (s *Service) IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	day, err := parseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !validClock(timeOfDay) {
		return false, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}

	within, err := s.withinSchedule(ctx, doctorID, day, timeOfDay)
	if err != nil {
		return false, err
	}
	if !within {
		return false, nil
	}

	taken, err := s.appts.ExistsAt(ctx, doctorID, date, timeOfDay)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// BookInput is a booking request for the calling patient.
type BookInput struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
	Reason   *string
}

// Book validates the request, checks schedule membership, then claims the
// slot with a single conditional insert. Losing the insert race surfaces as
// ErrSlotTaken, the same answer a late caller gets.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, in BookInput) (*Appointment, error) {
	if patientID == uuid.Nil || in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctor_id is required", ErrInvalidInput)
	}
	day, err := parseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !validClock(in.Time) {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}

	hospitalID, err := s.doctors.HospitalForDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}

	within, err := s.withinSchedule(ctx, in.DoctorID, day, in.Time)
	if err != nil {
		return nil, err
	}
	if !within {
		return nil, ErrOutsideSchedule
	}

	a := &Appointment{
		PatientID:  patientID,
		DoctorID:   in.DoctorID,
		HospitalID: hospitalID,
		Date:       in.Date,
		Time:       in.Time,
		Reason:     in.Reason,
		Status:     StatusScheduled,
		CreatedAt:  s.now().UTC(),
	}
	inserted, err := s.appts.TryInsert(ctx, a)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, ErrSlotTaken
	}
	return a, nil
}

// ListForUser returns the target user's appointments. Callers only see their
// own: a doctor sees appointments addressed to their doctor record, everyone
// else their bookings as a patient. With todayOnly, only the current date.
func (s *Service) ListForUser(ctx context.Context, callerID uuid.UUID, role auth.Role, targetID uuid.UUID, todayOnly bool) ([]*Appointment, error) {
	if callerID != targetID {
		return nil, ErrForbidden
	}

	var date *string
	if todayOnly {
		today := s.now().Format("2006-01-02")
		date = &today
	}

	if role == auth.RoleDoctor {
		doctorID, err := s.doctors.DoctorIDForUser(ctx, callerID)
		if err != nil {
			return nil, err
		}
		return s.appts.ListForDoctor(ctx, doctorID, date)
	}
	return s.appts.ListForPatient(ctx, callerID, date)
}

// UpdateStatus moves an appointment along the lifecycle state machine.
// Doctors and hospital admins only.
func (s *Service) UpdateStatus(ctx context.Context, role auth.Role, id uuid.UUID, status string) (*Appointment, error) {
	if role != auth.RoleDoctor && role != auth.RoleHospitalAdmin {
		return nil, ErrForbidden
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := Status(status)
	if !CanTransition(a.Status, next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, next)
	}

	if err := s.appts.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	a.Status = next
	return a, nil
}
