package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SampleHospital is a seed record inserted into an empty hospitals table so
// that a fresh deployment has a usable directory.
type SampleHospital struct {
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
	FeeDetails string
	Phone      string
}

// SampleHospitals returns the built-in demo hospital data set.
func SampleHospitals() []SampleHospital {
	return []SampleHospital{
		{
			Name:       "City General Hospital",
			Address:    "123 Main Street, Downtown",
			Latitude:   18.5204,
			Longitude:  73.8567,
			FeeDetails: "Consultation: $50, Emergency: $100",
			Phone:      "+1-555-0101",
		},
		{
			Name:       "Metro Medical Center",
			Address:    "456 Health Avenue, Midtown",
			Latitude:   18.5304,
			Longitude:  73.8667,
			FeeDetails: "Consultation: $60, Emergency: $120",
			Phone:      "+1-555-0102",
		},
		{
			Name:       "Sunrise Hospital",
			Address:    "789 Wellness Blvd, Uptown",
			Latitude:   18.5404,
			Longitude:  73.8767,
			FeeDetails: "Consultation: $45, Emergency: $90",
			Phone:      "+1-555-0103",
		},
		{
			Name:       "Green Valley Medical",
			Address:    "321 Care Street, Suburb",
			Latitude:   18.5104,
			Longitude:  73.8467,
			FeeDetails: "Consultation: $40, Emergency: $80",
			Phone:      "+1-555-0104",
		},
		{
			Name:       "Royal Healthcare",
			Address:    "654 Premium Road, Elite District",
			Latitude:   18.5504,
			Longitude:  73.8867,
			FeeDetails: "Consultation: $80, Emergency: $150",
			Phone:      "+1-555-0105",
		},
	}
}

// SeedHospitals inserts the sample hospitals when the hospitals table is
// empty. It is idempotent: a non-empty table is left untouched. Returns the
// number of rows inserted.
func SeedHospitals(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM hospitals`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count hospitals: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, h := range SampleHospitals() {
		_, err := pool.Exec(ctx, `
			INSERT INTO hospitals (id, name, address, latitude, longitude, fee_details, phone)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.New(), h.Name, h.Address, h.Latitude, h.Longitude, h.FeeDetails, h.Phone)
		if err != nil {
			return inserted, fmt.Errorf("insert sample hospital %q: %w", h.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
