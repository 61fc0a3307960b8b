package hospital

import (
	"github.com/google/uuid"
)

// Hospital is a bookable facility in the directory. Coordinates are optional;
// facilities without them still list but rank last in proximity searches.
type Hospital struct {
	ID         uuid.UUID `db:"id" json:"hospital_id"`
	Name       string    `db:"name" json:"name"`
	Address    string    `db:"address" json:"address"`
	Latitude   *float64  `db:"latitude" json:"latitude"`
	Longitude  *float64  `db:"longitude" json:"longitude"`
	FeeDetails *string   `db:"fee_details" json:"fee_details"`
	Phone      *string   `db:"phone" json:"phone"`
}

// NearbyHospital is a directory entry annotated with the distance from the
// caller's coordinate. DistanceKM is nil when the hospital has no coordinates.
type NearbyHospital struct {
	Hospital
	DistanceKM *float64 `json:"distance_km"`
}
