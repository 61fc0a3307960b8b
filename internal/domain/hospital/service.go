package hospital

import (
	"context"
	"math"
	"sort"

	"github.com/asupatri/asupatri/internal/platform/geo"
)

type Service struct {
	hospitals Repository
}

func NewService(repo Repository) *Service {
	return &Service{hospitals: repo}
}

// List returns the full hospital directory.
func (s *Service) List(ctx context.Context) ([]*Hospital, error) {
	return s.hospitals.List(ctx)
}

// Nearby returns every hospital annotated with the distance from the given
// coordinate, nearest first. Hospitals without coordinates get a nil
// distance and sort after every known distance; ties keep directory order.
func (s *Service) Nearby(ctx context.Context, lat, lon float64) ([]*NearbyHospital, error) {
	items, err := s.hospitals.List(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		entry *NearbyHospital
		km    float64
	}
	enriched := make([]ranked, 0, len(items))
	for _, h := range items {
		km := geo.Haversine(&lat, &lon, h.Latitude, h.Longitude)
		entry := &NearbyHospital{Hospital: *h}
		if !math.IsInf(km, 1) {
			rounded := math.Round(km*100) / 100
			entry.DistanceKM = &rounded
		}
		enriched = append(enriched, ranked{entry: entry, km: km})
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].km < enriched[j].km
	})

	out := make([]*NearbyHospital, len(enriched))
	for i, r := range enriched {
		out[i] = r.entry
	}
	return out, nil
}
