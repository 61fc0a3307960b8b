package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is a user's platform role. Roles are stored verbatim on the user row
// and embedded in tokens as a typed claim.
type Role string

const (
	RolePatient       Role = "Patient"
	RoleDoctor        Role = "Doctor"
	RoleHospitalAdmin Role = "Hospital Admin"
)

// ValidRole reports whether s is one of the three platform roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleHospitalAdmin:
		return true
	}
	return false
}

// Claims is the typed JWT payload. The identity is always a concrete
// {user_id, role} pair; handlers never see an untyped claims map.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "user_role"
)

// UserIDFromContext returns the authenticated user's id, or uuid.Nil when the
// request is unauthenticated.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	uid, _ := ctx.Value(UserIDKey).(uuid.UUID)
	return uid
}

// RoleFromContext returns the authenticated user's role, or "" when the
// request is unauthenticated.
func RoleFromContext(ctx context.Context) Role {
	role, _ := ctx.Value(RoleKey).(Role)
	return role
}
