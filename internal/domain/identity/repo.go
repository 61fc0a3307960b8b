package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the account store. Create returns ErrDuplicateEmail when
// the email's unique constraint fires.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminRepository stores the admin-to-hospital links.
type AdminRepository interface {
	Create(ctx context.Context, a *HospitalAdmin) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*HospitalAdmin, error)
	SetFirstLoginComplete(ctx context.Context, userID uuid.UUID) error
}

// ProfileRepository resolves the role-specific joins behind GET /profile.
type ProfileRepository interface {
	DoctorProfile(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error)
	AdminProfile(ctx context.Context, userID uuid.UUID) (*AdminProfile, error)
}

// TxRunner runs fn inside a transaction. Repositories called from fn join
// the transaction through the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error
