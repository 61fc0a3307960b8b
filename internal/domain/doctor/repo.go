package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/asupatri/asupatri/pkg/pagination"
)

// Repository is the doctor store. ListDetailByHospital pages through the
// roster and also reports the total row count.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error)
	ListDetailByHospital(ctx context.Context, hospitalID uuid.UUID, p pagination.Params) ([]*Detail, int, error)
}

// ScheduleRepository is the weekly availability window store.
type ScheduleRepository interface {
	Create(ctx context.Context, w *ScheduleWindow) error
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduleWindow, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*ScheduleWindow, error)
	ListByDoctorDay(ctx context.Context, doctorID uuid.UUID, day int) ([]*ScheduleWindow, error)
	ExistsExact(ctx context.Context, doctorID uuid.UUID, day int, start, end string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserDirectory is the slice of the account store the doctor roster needs.
// CreateDoctorUser returns ErrEmailTaken when the email is already
// registered.
type UserDirectory interface {
	CreateDoctorUser(ctx context.Context, email, passwordHash string, fullName *string) (uuid.UUID, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// AdminDirectory resolves which hospital a Hospital Admin account manages.
type AdminDirectory interface {
	HospitalForAdmin(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// TxRunner runs fn inside a transaction. Repositories called from fn join
// the transaction through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error
