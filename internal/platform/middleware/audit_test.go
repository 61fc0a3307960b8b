package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

// mockRecorder collects audit entries for assertions.
type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error // if set, RecordAccess returns this error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func newAuditContext(method, path string, opts ...func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func withAuth(userID uuid.UUID, role auth.Role) func(*http.Request) {
	return func(req *http.Request) {
		ctx := req.Context()
		ctx = context.WithValue(ctx, auth.UserIDKey, userID)
		ctx = context.WithValue(ctx, auth.RoleKey, role)
		*req = *req.WithContext(ctx)
	}
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestAudit_RecordsBooking(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{}
	uid := uuid.New()

	c, _ := newAuditContext(http.MethodPost, "/api/v1/appointments",
		withAuth(uid, auth.RolePatient),
	)
	c.Set("request_id", "req-abc")

	mw := Audit(logger, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", rec.count())
	}
	entry := rec.last()
	if entry.UserID != uid.String() {
		t.Errorf("expected user id %s, got %q", uid, entry.UserID)
	}
	if entry.UserRole != "Patient" {
		t.Errorf("expected role Patient, got %q", entry.UserRole)
	}
	if entry.Resource != "appointments" {
		t.Errorf("expected resource appointments, got %q", entry.Resource)
	}
	if entry.Action != "create" {
		t.Errorf("expected action create, got %q", entry.Action)
	}
	if entry.RequestID != "req-abc" {
		t.Errorf("expected request id req-abc, got %q", entry.RequestID)
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", entry.StatusCode)
	}
}

func TestAudit_SkipsReads(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{}

	c, _ := newAuditContext(http.MethodGet, "/api/v1/appointments",
		withAuth(uuid.New(), auth.RolePatient),
	)

	mw := Audit(logger, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no audit entries for GET, got %d", rec.count())
	}
}

func TestAudit_SkipsNonAPIPaths(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{}

	c, _ := newAuditContext(http.MethodPost, "/health")

	mw := Audit(logger, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected no audit entries for /health, got %d", rec.count())
	}
}

func TestAudit_StatusUpdateAction(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{}

	c, _ := newAuditContext(http.MethodPut, "/api/v1/appointments/123/status",
		withAuth(uuid.New(), auth.RoleDoctor),
	)

	mw := Audit(logger, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := rec.last()
	if entry.Action != "update" {
		t.Errorf("expected action update, got %q", entry.Action)
	}
	if entry.Resource != "appointments" {
		t.Errorf("expected resource appointments, got %q", entry.Resource)
	}
}

func TestAudit_RecorderFailureDoesNotBreakRequest(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{err: errors.New("storage down")}

	c, httpRec := newAuditContext(http.MethodPost, "/api/v1/appointments",
		withAuth(uuid.New(), auth.RolePatient),
	)

	mw := Audit(logger, rec)
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if httpRec.Code != http.StatusOK {
		t.Errorf("expected 200 despite recorder failure, got %d", httpRec.Code)
	}
}

func TestAudit_PropagatesHandlerError(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	rec := &mockRecorder{}

	c, _ := newAuditContext(http.MethodDelete, "/api/v1/admin/doctors/123",
		withAuth(uuid.New(), auth.RoleHospitalAdmin),
	)

	handler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}

	mw := Audit(logger, rec)
	err := mw(handler)(c)
	if err == nil {
		t.Fatal("expected error from handler")
	}
	if rec.count() != 1 {
		t.Fatalf("expected audit entry even on handler error, got %d", rec.count())
	}
	if got := rec.last().Action; got != "delete" {
		t.Errorf("expected action delete, got %q", got)
	}
}

func TestAuditRecorderFunc(t *testing.T) {
	var captured AuditEntry
	f := AuditRecorderFunc(func(entry AuditEntry) error {
		captured = entry
		return nil
	})
	if err := f.RecordAccess(AuditEntry{Resource: "doctors"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Resource != "doctors" {
		t.Errorf("expected resource doctors, got %q", captured.Resource)
	}
}

func TestExtractResource(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/appointments", "appointments"},
		{"/api/v1/appointments/123/status", "appointments"},
		{"/api/v1/admin/doctors", "admin"},
		{"/api/v1/", "unknown"},
	}
	for _, tt := range tests {
		if got := extractResource(tt.path); got != tt.want {
			t.Errorf("extractResource(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
