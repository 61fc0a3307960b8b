package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asupatri/asupatri/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

const uniqueViolation = "23505"

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

const userCols = `id, email, password_hash, role, full_name, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FullName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &u, err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.PasswordHash, u.Role, u.FullName, u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type adminRepoPG struct{ pool *pgxpool.Pool }

func NewAdminRepoPG(pool *pgxpool.Pool) AdminRepository { return &adminRepoPG{pool: pool} }

func (r *adminRepoPG) Create(ctx context.Context, a *HospitalAdmin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO hospital_admins (id, user_id, hospital_id, is_first_login)
		VALUES ($1, $2, $3, $4)`,
		a.ID, a.UserID, a.HospitalID, a.IsFirstLogin)
	return err
}

func (r *adminRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*HospitalAdmin, error) {
	var a HospitalAdmin
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, user_id, hospital_id, is_first_login
		FROM hospital_admins WHERE user_id = $1`, userID).
		Scan(&a.ID, &a.UserID, &a.HospitalID, &a.IsFirstLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *adminRepoPG) SetFirstLoginComplete(ctx context.Context, userID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE hospital_admins SET is_first_login = FALSE WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

func (r *profileRepoPG) DoctorProfile(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	var p DoctorProfile
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT d.id, d.specialization, h.id, h.name, h.address
		FROM doctors d
		JOIN hospitals h ON h.id = d.hospital_id
		WHERE d.user_id = $1`, userID).
		Scan(&p.DoctorID, &p.Specialization, &p.HospitalID, &p.HospitalName, &p.HospitalAddress)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *profileRepoPG) AdminProfile(ctx context.Context, userID uuid.UUID) (*AdminProfile, error) {
	var p AdminProfile
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT h.id, h.name, a.is_first_login
		FROM hospital_admins a
		JOIN hospitals h ON h.id = a.hospital_id
		WHERE a.user_id = $1`, userID).
		Scan(&p.HospitalID, &p.HospitalName, &p.IsFirstLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}
