package doctor

import (
	"github.com/google/uuid"
)

// Doctor is a practising doctor attached to exactly one hospital.
type Doctor struct {
	ID              uuid.UUID `db:"id" json:"doctor_id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	HospitalID      uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Specialization  string    `db:"specialization" json:"specialization"`
	Qualifications  *string   `db:"qualifications" json:"qualifications"`
	ExperienceYears *int      `db:"experience_years" json:"experience_years"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
}

// Detail is a doctor joined with the account fields an admin sees on the
// roster.
type Detail struct {
	Doctor
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}

// ScheduleWindow is one recurring weekly availability window. DayOfWeek is
// 0=Monday through 6=Sunday; times are zero-padded "HH:MM" so string order
// is temporal order.
type ScheduleWindow struct {
	ID        uuid.UUID `db:"id" json:"schedule_id"`
	DoctorID  uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
}
