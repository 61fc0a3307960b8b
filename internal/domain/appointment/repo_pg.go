package appointment

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apptCols = `id, patient_id, doctor_id, hospital_id, date, time, reason, status, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.HospitalID, &date, &a.Time, &a.Reason, &a.Status, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.Date = date.Format("2006-01-02")
	return &a, nil
}

// TryInsert writes the appointment unless the (doctor_id, date, time) slot is
// already held. The conditional insert and the uniqueness check are one
// statement, so two racing bookings cannot both succeed.
func (r *repoPG) TryInsert(ctx context.Context, a *Appointment) (bool, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, hospital_id, date, time, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (doctor_id, date, time) DO NOTHING
		RETURNING id`,
		a.ID, a.PatientID, a.DoctorID, a.HospitalID, a.Date, a.Time, a.Reason, a.Status, a.CreatedAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repoPG) ExistsAt(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments WHERE doctor_id = $1 AND date = $2 AND time = $3
		)`, doctorID, date, timeOfDay).Scan(&exists)
	return exists, err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

func (r *repoPG) ListForPatient(ctx context.Context, patientID uuid.UUID, date *string) ([]*Appointment, error) {
	return r.list(ctx, `patient_id`, patientID, date)
}

func (r *repoPG) ListForDoctor(ctx context.Context, doctorID uuid.UUID, date *string) ([]*Appointment, error) {
	return r.list(ctx, `doctor_id`, doctorID, date)
}

func (r *repoPG) list(ctx context.Context, ownerCol string, ownerID uuid.UUID, date *string) ([]*Appointment, error) {
	sql := `SELECT ` + apptCols + ` FROM appointments WHERE ` + ownerCol + ` = $1`
	args := []interface{}{ownerID}
	if date != nil {
		sql += ` AND date = $2`
		args = append(args, *date)
	}
	sql += ` ORDER BY date, time`

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
