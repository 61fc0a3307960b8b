package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asupatri/asupatri/internal/platform/db"
	"github.com/asupatri/asupatri/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `id, user_id, hospital_id, specialization, qualifications, experience_years, is_available`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.HospitalID, &d.Specialization, &d.Qualifications, &d.ExperienceYears, &d.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, user_id, hospital_id, specialization, qualifications, experience_years, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.UserID, d.HospitalID, d.Specialization, d.Qualifications, d.ExperienceYears, d.IsAvailable)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id)
	return scanDoctor(row)
}

func (r *repoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID)
	return scanDoctor(row)
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors
		SET specialization = $2, qualifications = $3, experience_years = $4, is_available = $5
		WHERE id = $1`,
		d.ID, d.Specialization, d.Qualifications, d.ExperienceYears, d.IsAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+doctorCols+` FROM doctors WHERE hospital_id = $1 ORDER BY specialization, id`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) ListDetailByHospital(ctx context.Context, hospitalID uuid.UUID, p pagination.Params) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM doctors WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.user_id, d.hospital_id, d.specialization, d.qualifications, d.experience_years, d.is_available,
		       u.email, u.full_name
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.hospital_id = $1
		ORDER BY u.email
		`+p.SQL(), hospitalID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Detail
	for rows.Next() {
		var it Detail
		if err := rows.Scan(&it.ID, &it.UserID, &it.HospitalID, &it.Specialization, &it.Qualifications,
			&it.ExperienceYears, &it.IsAvailable, &it.Email, &it.FullName); err != nil {
			return nil, 0, err
		}
		items = append(items, &it)
	}
	return items, total, rows.Err()
}

type scheduleRepoPG struct{ pool *pgxpool.Pool }

func NewScheduleRepoPG(pool *pgxpool.Pool) ScheduleRepository { return &scheduleRepoPG{pool: pool} }

func (r *scheduleRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const scheduleCols = `id, doctor_id, day_of_week, start_time, end_time`

func scanWindow(row pgx.Row) (*ScheduleWindow, error) {
	var w ScheduleWindow
	err := row.Scan(&w.ID, &w.DoctorID, &w.DayOfWeek, &w.StartTime, &w.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &w, err
}

func (r *scheduleRepoPG) Create(ctx context.Context, w *ScheduleWindow) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctor_schedules (id, doctor_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.DoctorID, w.DayOfWeek, w.StartTime, w.EndTime)
	return err
}

func (r *scheduleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleWindow, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+scheduleCols+` FROM doctor_schedules WHERE id = $1`, id)
	return scanWindow(row)
}

func (r *scheduleRepoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*ScheduleWindow, error) {
	return r.list(ctx, `
		SELECT `+scheduleCols+` FROM doctor_schedules
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_time`, doctorID)
}

func (r *scheduleRepoPG) ListByDoctorDay(ctx context.Context, doctorID uuid.UUID, day int) ([]*ScheduleWindow, error) {
	return r.list(ctx, `
		SELECT `+scheduleCols+` FROM doctor_schedules
		WHERE doctor_id = $1 AND day_of_week = $2
		ORDER BY start_time`, doctorID, day)
}

func (r *scheduleRepoPG) list(ctx context.Context, sql string, args ...interface{}) ([]*ScheduleWindow, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ScheduleWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

func (r *scheduleRepoPG) ExistsExact(ctx context.Context, doctorID uuid.UUID, day int, start, end string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM doctor_schedules
			WHERE doctor_id = $1 AND day_of_week = $2 AND start_time = $3 AND end_time = $4
		)`, doctorID, day, start, end).Scan(&exists)
	return exists, err
}

func (r *scheduleRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
