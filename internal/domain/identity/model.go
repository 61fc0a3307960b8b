package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

// User is a platform account. The password hash never leaves the package.
type User struct {
	ID           uuid.UUID `db:"id" json:"user_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         auth.Role `db:"role" json:"role"`
	FullName     *string   `db:"full_name" json:"full_name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HospitalAdmin links an admin account to the hospital it manages.
// IsFirstLogin is a one-shot flag the front-end uses to force the initial
// onboarding flow.
type HospitalAdmin struct {
	ID           uuid.UUID `db:"id" json:"admin_id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	IsFirstLogin bool      `db:"is_first_login" json:"is_first_login"`
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token string `json:"access_token"`
	User  *User  `json:"user"`
}

// Profile is the role-specific view of an account.
type Profile struct {
	UserID   uuid.UUID      `json:"user_id"`
	Email    string         `json:"email"`
	Role     auth.Role      `json:"role"`
	FullName *string        `json:"full_name"`
	Doctor   *DoctorProfile `json:"doctor,omitempty"`
	Admin    *AdminProfile  `json:"admin,omitempty"`
}

// DoctorProfile is the doctor-specific slice of a profile, joined with the
// employing hospital.
type DoctorProfile struct {
	DoctorID        uuid.UUID `json:"doctor_id"`
	Specialization  string    `json:"specialization"`
	HospitalID      uuid.UUID `json:"hospital_id"`
	HospitalName    string    `json:"hospital_name"`
	HospitalAddress string    `json:"hospital_address"`
}

// AdminProfile is the admin-specific slice of a profile.
type AdminProfile struct {
	HospitalID   uuid.UUID `json:"hospital_id"`
	HospitalName string    `json:"hospital_name"`
	IsFirstLogin bool      `json:"is_first_login"`
}
