package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

// Service owns registration, login, profiles and the admin first-login flag.
type Service struct {
	users    UserRepository
	admins   AdminRepository
	profiles ProfileRepository
	issuer   *auth.TokenIssuer
	runTx    TxRunner
}

func NewService(users UserRepository, admins AdminRepository, profiles ProfileRepository, issuer *auth.TokenIssuer, runTx TxRunner) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	return &Service{users: users, admins: admins, profiles: profiles, issuer: issuer, runTx: runTx}
}

// RegisterInput carries a new account. HospitalID is required for Hospital
// Admin registrations and ignored otherwise.
type RegisterInput struct {
	Email      string
	Password   string
	Role       string
	FullName   *string
	HospitalID *uuid.UUID
}

// Register creates the account, hashing the password and normalizing the
// email. A Hospital Admin registration also creates the admin link with the
// first-login flag set, in the same transaction.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if !auth.ValidRole(in.Role) {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	role := auth.Role(in.Role)
	if role == auth.RoleHospitalAdmin && in.HospitalID == nil {
		return nil, fmt.Errorf("hospital_id is required for Hospital Admin registration")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{Email: email, PasswordHash: hash, Role: role, FullName: in.FullName}
	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if role == auth.RoleHospitalAdmin {
			return s.admins.Create(ctx, &HospitalAdmin{
				UserID:       u.ID,
				HospitalID:   *in.HospitalID,
				IsFirstLogin: true,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password are the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Profile returns the caller's account with its role-specific projection.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Profile{UserID: u.ID, Email: u.Email, Role: u.Role, FullName: u.FullName}
	switch u.Role {
	case auth.RoleDoctor:
		dp, err := s.profiles.DoctorProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil {
			p.Doctor = dp
		}
	case auth.RoleHospitalAdmin:
		ap, err := s.profiles.AdminProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err == nil {
			p.Admin = ap
		}
	}
	return p, nil
}

// FirstLoginComplete clears the admin's one-shot onboarding flag.
func (s *Service) FirstLoginComplete(ctx context.Context, userID uuid.UUID) error {
	return s.admins.SetFirstLoginComplete(ctx, userID)
}
