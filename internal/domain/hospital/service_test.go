package hospital

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	hospitals []*Hospital
	err       error
}

func (m *mockRepo) List(_ context.Context) ([]*Hospital, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hospitals, nil
}

func ptr(f float64) *float64 { return &f }

func testHospitals() []*Hospital {
	return []*Hospital{
		{ID: uuid.New(), Name: "City Care Hospital", Address: "Shivajinagar, Pune", Latitude: ptr(18.5308), Longitude: ptr(73.8470)},
		{ID: uuid.New(), Name: "Green Valley Medical Center", Address: "Baner, Pune", Latitude: ptr(18.5590), Longitude: ptr(73.7868)},
		{ID: uuid.New(), Name: "Lakeside Clinic", Address: "No coordinates on file"},
		{ID: uuid.New(), Name: "Sunrise Multispeciality", Address: "Hadapsar, Pune", Latitude: ptr(18.5089), Longitude: ptr(73.9260)},
	}
}

func TestService_List(t *testing.T) {
	svc := NewService(&mockRepo{hospitals: testHospitals()})
	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 4 {
		t.Errorf("expected 4 hospitals, got %d", len(items))
	}
}

func TestService_Nearby_SortedByDistance(t *testing.T) {
	svc := NewService(&mockRepo{hospitals: testHospitals()})

	// Caller near Shivajinagar.
	items, err := svc.Nearby(context.Background(), 18.5308, 73.8470)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(items))
	}

	if items[0].Name != "City Care Hospital" {
		t.Errorf("expected nearest hospital first, got %q", items[0].Name)
	}
	if items[0].DistanceKM == nil || *items[0].DistanceKM != 0 {
		t.Errorf("expected zero distance for co-located hospital, got %v", items[0].DistanceKM)
	}

	// Distances are non-decreasing over the entries that have them.
	var prev float64 = -1
	for _, it := range items {
		if it.DistanceKM == nil {
			continue
		}
		if *it.DistanceKM < prev {
			t.Errorf("distances not sorted: %f after %f", *it.DistanceKM, prev)
		}
		prev = *it.DistanceKM
	}
}

func TestService_Nearby_UnknownCoordinatesLast(t *testing.T) {
	svc := NewService(&mockRepo{hospitals: testHospitals()})

	items, err := svc.Nearby(context.Background(), 18.5204, 73.8567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := items[len(items)-1]
	if last.Name != "Lakeside Clinic" {
		t.Errorf("expected coordinate-less hospital last, got %q", last.Name)
	}
	if last.DistanceKM != nil {
		t.Errorf("expected nil distance for coordinate-less hospital, got %v", *last.DistanceKM)
	}
}

func TestService_Nearby_RoundsToTwoDecimals(t *testing.T) {
	svc := NewService(&mockRepo{hospitals: testHospitals()})

	items, err := svc.Nearby(context.Background(), 18.5204, 73.8567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, it := range items {
		if it.DistanceKM == nil {
			continue
		}
		scaled := *it.DistanceKM * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Errorf("distance %f not rounded to 2 decimals", *it.DistanceKM)
		}
	}
}

func TestService_Nearby_EmptyDirectory(t *testing.T) {
	svc := NewService(&mockRepo{})
	items, err := svc.Nearby(context.Background(), 18.5, 73.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty result, got %d entries", len(items))
	}
}
