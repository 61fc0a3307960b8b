package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asupatri/asupatri/internal/platform/auth"
	"github.com/asupatri/asupatri/pkg/pagination"
)

// Service owns the doctor roster and weekly schedule windows.
type Service struct {
	doctors   Repository
	schedules ScheduleRepository
	users     UserDirectory
	admins    AdminDirectory
	runTx     TxRunner
}

func NewService(doctors Repository, schedules ScheduleRepository, users UserDirectory, admins AdminDirectory, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{doctors: doctors, schedules: schedules, users: users, admins: admins, runTx: runTx}
}

// CreateDoctorInput carries the account and roster fields for a new doctor.
type CreateDoctorInput struct {
	Email           string
	Password        string
	FullName        *string
	Specialization  string
	Qualifications  *string
	ExperienceYears *int
}

// UpdateDoctorInput carries partial roster updates; nil fields are left
// untouched.
type UpdateDoctorInput struct {
	Specialization  *string
	Qualifications  *string
	ExperienceYears *int
	IsAvailable     *bool
}

// CreateDoctor creates the doctor's user account and roster record in one
// transaction, scoped to the calling admin's hospital.
func (s *Service) CreateDoctor(ctx context.Context, adminUserID uuid.UUID, in CreateDoctorInput) (*Detail, error) {
	hospitalID, err := s.admins.HospitalForAdmin(ctx, adminUserID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.Specialization) == "" {
		return nil, fmt.Errorf("email, password and specialization are required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	d := &Doctor{
		HospitalID:      hospitalID,
		Specialization:  strings.TrimSpace(in.Specialization),
		Qualifications:  in.Qualifications,
		ExperienceYears: in.ExperienceYears,
		IsAvailable:     true,
	}
	err = s.runTx(ctx, func(ctx context.Context) error {
		userID, err := s.users.CreateDoctorUser(ctx, email, hash, in.FullName)
		if err != nil {
			return err
		}
		d.UserID = userID
		return s.doctors.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return &Detail{Doctor: *d, Email: email, FullName: in.FullName}, nil
}

// Roster lists a page of the calling admin's hospital doctors with account
// details, and the roster's total size.
func (s *Service) Roster(ctx context.Context, adminUserID uuid.UUID, p pagination.Params) ([]*Detail, int, error) {
	hospitalID, err := s.admins.HospitalForAdmin(ctx, adminUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.doctors.ListDetailByHospital(ctx, hospitalID, p)
}

// UpdateDoctor applies partial field updates to a doctor in the calling
// admin's hospital.
func (s *Service) UpdateDoctor(ctx context.Context, adminUserID, doctorID uuid.UUID, in UpdateDoctorInput) (*Doctor, error) {
	d, err := s.doctorForAdmin(ctx, adminUserID, doctorID)
	if err != nil {
		return nil, err
	}

	if in.Specialization != nil {
		if strings.TrimSpace(*in.Specialization) == "" {
			return nil, fmt.Errorf("specialization cannot be empty")
		}
		d.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Qualifications != nil {
		d.Qualifications = in.Qualifications
	}
	if in.ExperienceYears != nil {
		d.ExperienceYears = in.ExperienceYears
	}
	if in.IsAvailable != nil {
		d.IsAvailable = *in.IsAvailable
	}

	if err := s.doctors.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDoctor removes the doctor record and its user account in one
// transaction.
func (s *Service) DeleteDoctor(ctx context.Context, adminUserID, doctorID uuid.UUID) error {
	d, err := s.doctorForAdmin(ctx, adminUserID, doctorID)
	if err != nil {
		return err
	}
	return s.runTx(ctx, func(ctx context.Context) error {
		if err := s.doctors.Delete(ctx, d.ID); err != nil {
			return err
		}
		return s.users.DeleteUser(ctx, d.UserID)
	})
}

// ListByHospital is the public roster for a hospital.
func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error) {
	return s.doctors.ListByHospital(ctx, hospitalID)
}

func (s *Service) doctorForAdmin(ctx context.Context, adminUserID, doctorID uuid.UUID) (*Doctor, error) {
	hospitalID, err := s.admins.HospitalForAdmin(ctx, adminUserID)
	if err != nil {
		return nil, err
	}
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	// Doctors outside the admin's hospital are invisible, not forbidden.
	if d.HospitalID != hospitalID {
		return nil, ErrNotFound
	}
	return d, nil
}

// AddWindow creates a weekly availability window for a doctor. Hospital
// admins may manage doctors in their hospital; doctors only their own
// schedule.
func (s *Service) AddWindow(ctx context.Context, actorID uuid.UUID, role auth.Role, doctorID uuid.UUID, day int, start, end string) (*ScheduleWindow, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeScheduleChange(ctx, actorID, role, d); err != nil {
		return nil, err
	}

	if day < 0 || day > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6", ErrInvalidWindow)
	}
	if err := validClock(start); err != nil {
		return nil, fmt.Errorf("%w: start_time: %v", ErrInvalidWindow, err)
	}
	if err := validClock(end); err != nil {
		return nil, fmt.Errorf("%w: end_time: %v", ErrInvalidWindow, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrInvalidWindow)
	}

	exists, err := s.schedules.ExistsExact(ctx, doctorID, day, start, end)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateWindow
	}

	w := &ScheduleWindow{DoctorID: doctorID, DayOfWeek: day, StartTime: start, EndTime: end}
	if err := s.schedules.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// WindowsForDoctor lists a doctor's weekly windows, ordered by day and
// start time.
func (s *Service) WindowsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*ScheduleWindow, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.schedules.ListByDoctor(ctx, doctorID)
}

// DeleteWindow removes a window under the same ownership rules as AddWindow.
func (s *Service) DeleteWindow(ctx context.Context, actorID uuid.UUID, role auth.Role, windowID uuid.UUID) error {
	w, err := s.schedules.GetByID(ctx, windowID)
	if err != nil {
		return err
	}
	d, err := s.doctors.GetByID(ctx, w.DoctorID)
	if err != nil {
		return err
	}
	if err := s.authorizeScheduleChange(ctx, actorID, role, d); err != nil {
		return err
	}
	return s.schedules.Delete(ctx, windowID)
}

func (s *Service) authorizeScheduleChange(ctx context.Context, actorID uuid.UUID, role auth.Role, d *Doctor) error {
	switch role {
	case auth.RoleHospitalAdmin:
		hospitalID, err := s.admins.HospitalForAdmin(ctx, actorID)
		if err != nil {
			return err
		}
		if d.HospitalID != hospitalID {
			return ErrForbidden
		}
		return nil
	case auth.RoleDoctor:
		self, err := s.doctors.GetByUserID(ctx, actorID)
		if err != nil {
			return err
		}
		if self.ID != d.ID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

// validClock accepts zero-padded 24h "HH:MM" only, so the stored strings
// compare in temporal order.
func validClock(s string) error {
	if len(s) != 5 {
		return fmt.Errorf("must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("must be in HH:MM format")
	}
	return nil
}
