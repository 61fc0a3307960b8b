package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type failingProvider struct{}

func (failingProvider) Locate(context.Context) (Point, error) {
	return Point{}, errors.New("service unavailable")
}

func TestStatic_AlwaysSucceeds(t *testing.T) {
	p := Static{Point: Point{Lat: 18.5204, Lon: 73.8567}}
	pt, err := p.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 18.5204 || pt.Lon != 73.8567 {
		t.Errorf("unexpected point: %+v", pt)
	}
}

func TestChain_FallsBackToStatic(t *testing.T) {
	chain := Chain{
		failingProvider{},
		failingProvider{},
		Static{Point: Point{Lat: 18.5204, Lon: 73.8567}},
	}
	pt, err := chain.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 18.5204 {
		t.Errorf("expected fallback point, got %+v", pt)
	}
}

func TestChain_AllFail(t *testing.T) {
	chain := Chain{failingProvider{}, failingProvider{}}
	if _, err := chain.Locate(context.Background()); err == nil {
		t.Error("expected error when every provider fails")
	}
}

func TestChain_Empty(t *testing.T) {
	if _, err := (Chain{}).Locate(context.Background()); err == nil {
		t.Error("expected error for empty chain")
	}
}

func TestIPAPIProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","lat":18.5204,"lon":73.8567}`))
	}))
	defer srv.Close()

	p := &IPAPIProvider{URL: srv.URL, Client: srv.Client()}
	pt, err := p.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 18.5204 || pt.Lon != 73.8567 {
		t.Errorf("unexpected point: %+v", pt)
	}
}

func TestIPAPIProvider_FailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	p := &IPAPIProvider{URL: srv.URL, Client: srv.Client()}
	if _, err := p.Locate(context.Background()); err == nil {
		t.Error("expected error for failed lookup")
	}
}

func TestIPAPICoProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"latitude":19.076,"longitude":72.8777}`))
	}))
	defer srv.Close()

	p := &IPAPICoProvider{URL: srv.URL, Client: srv.Client()}
	pt, err := p.Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.Lat != 19.076 || pt.Lon != 72.8777 {
		t.Errorf("unexpected point: %+v", pt)
	}
}

func TestIPAPICoProvider_MissingCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":true,"reason":"RateLimited"}`))
	}))
	defer srv.Close()

	p := &IPAPICoProvider{URL: srv.URL, Client: srv.Client()}
	if _, err := p.Locate(context.Background()); err == nil {
		t.Error("expected error for response without coordinates")
	}
}

func TestIPAPIProvider_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := &IPAPIProvider{URL: srv.URL, Client: srv.Client()}
	if _, err := p.Locate(context.Background()); err == nil {
		t.Error("expected error for non-200 response")
	}
}
