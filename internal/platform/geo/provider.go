package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Provider resolves an approximate client coordinate. Implementations may
// call external services; callers should treat failures as recoverable and
// fall back to the next provider in a Chain.
type Provider interface {
	Locate(ctx context.Context) (Point, error)
}

// Static always returns a fixed coordinate. It terminates a Chain so that
// lookup never fails outright.
type Static struct {
	Point Point
}

func (s Static) Locate(context.Context) (Point, error) {
	return s.Point, nil
}

// Chain tries each provider in order and returns the first success.
type Chain []Provider

func (c Chain) Locate(ctx context.Context) (Point, error) {
	var lastErr error
	for _, p := range c {
		pt, err := p.Locate(ctx)
		if err == nil {
			return pt, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no location providers configured")
	}
	return Point{}, lastErr
}

// IPAPIProvider resolves the caller's coordinate from the ip-api.com JSON
// endpoint.
type IPAPIProvider struct {
	URL    string
	Client *http.Client
}

// NewIPAPIProvider returns a provider against the public ip-api.com service.
func NewIPAPIProvider() *IPAPIProvider {
	return &IPAPIProvider{
		URL:    "http://ip-api.com/json/",
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *IPAPIProvider) Locate(ctx context.Context) (Point, error) {
	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := getJSON(ctx, p.Client, p.URL, &body); err != nil {
		return Point{}, err
	}
	if body.Status != "success" {
		return Point{}, fmt.Errorf("ip-api lookup failed: status %q", body.Status)
	}
	return Point{Lat: body.Lat, Lon: body.Lon}, nil
}

// IPAPICoProvider resolves the caller's coordinate from the ipapi.co JSON
// endpoint, which uses latitude/longitude field names.
type IPAPICoProvider struct {
	URL    string
	Client *http.Client
}

// NewIPAPICoProvider returns a provider against the public ipapi.co service.
func NewIPAPICoProvider() *IPAPICoProvider {
	return &IPAPICoProvider{
		URL:    "https://ipapi.co/json/",
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (p *IPAPICoProvider) Locate(ctx context.Context) (Point, error) {
	var body struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := getJSON(ctx, p.Client, p.URL, &body); err != nil {
		return Point{}, err
	}
	if body.Latitude == nil || body.Longitude == nil {
		return Point{}, errors.New("ipapi.co response missing coordinates")
	}
	return Point{Lat: *body.Latitude, Lon: *body.Longitude}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("location service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
