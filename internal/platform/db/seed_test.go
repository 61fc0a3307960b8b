package db

import "testing"

func TestSampleHospitals_Count(t *testing.T) {
	hospitals := SampleHospitals()
	if len(hospitals) != 5 {
		t.Fatalf("expected 5 sample hospitals, got %d", len(hospitals))
	}
}

func TestSampleHospitals_Fields(t *testing.T) {
	for _, h := range SampleHospitals() {
		if h.Name == "" {
			t.Error("sample hospital with empty name")
		}
		if h.Address == "" {
			t.Errorf("%s: empty address", h.Name)
		}
		if h.Latitude == 0 || h.Longitude == 0 {
			t.Errorf("%s: missing coordinates", h.Name)
		}
		if h.Phone == "" {
			t.Errorf("%s: missing phone", h.Name)
		}
	}
}

func TestSampleHospitals_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, h := range SampleHospitals() {
		if seen[h.Name] {
			t.Errorf("duplicate sample hospital name %q", h.Name)
		}
		seen[h.Name] = true
	}
}
