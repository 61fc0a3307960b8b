package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/asupatri/asupatri/internal/platform/auth"
	"github.com/asupatri/asupatri/internal/platform/validation"
)

func asUser(userID uuid.UUID, role auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), auth.UserIDKey, userID)
			ctx = context.WithValue(ctx, auth.RoleKey, role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func setupHandlerTest(svc *Service, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	h := NewHandler(svc)
	h.RegisterRoutes(e.Group("/api/v1", mw...))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Register(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc)

	rec := postJSON(e, "/api/v1/register", `{"email":"priya@example.com","password":"letmein-99","role":"Patient"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res AuthResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if res.Token == "" {
		t.Error("expected an access token")
	}
	if res.User == nil || res.User.Email != "priya@example.com" {
		t.Errorf("unexpected user payload: %+v", res.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash leaked in response")
	}
}

func TestHandler_Register_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc)

	for name, body := range map[string]string{
		"missing email": `{"password":"letmein-99","role":"Patient"}`,
		"bad email":     `{"email":"nope","password":"letmein-99","role":"Patient"}`,
		"short pass":    `{"email":"a@b.com","password":"short","role":"Patient"}`,
		"bad role":      `{"email":"a@b.com","password":"letmein-99","role":"Wizard"}`,
	} {
		rec := postJSON(e, "/api/v1/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestHandler_Register_DuplicateConflict(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc)

	body := `{"email":"dup@example.com","password":"letmein-99","role":"Patient"}`
	if rec := postJSON(e, "/api/v1/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec := postJSON(e, "/api/v1/register", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestHandler_Login(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc)

	postJSON(e, "/api/v1/register", `{"email":"priya@example.com","password":"letmein-99","role":"Patient"}`)

	rec := postJSON(e, "/api/v1/login", `{"email":"priya@example.com","password":"letmein-99"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = postJSON(e, "/api/v1/login", `{"email":"priya@example.com","password":"wrong-pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", rec.Code)
	}

	rec = postJSON(e, "/api/v1/login", `{"email":"ghost@example.com","password":"letmein-99"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown email, got %d", rec.Code)
	}
}

func TestHandler_Profile(t *testing.T) {
	svc, _, _, _ := newTestService()

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:    "priya@example.com",
		Password: "letmein-99",
		Role:     "Patient",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := setupHandlerTest(svc, asUser(res.User.ID, auth.RolePatient))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var p Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if p.Email != "priya@example.com" || p.Role != auth.RolePatient {
		t.Errorf("unexpected profile: %+v", p)
	}
}

func TestHandler_Profile_Unauthenticated(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandler_FirstLoginComplete(t *testing.T) {
	svc, _, admins, _ := newTestService()

	hospitalID := uuid.New()
	res, err := svc.Register(context.Background(), RegisterInput{
		Email:      "admin@example.com",
		Password:   "letmein-99",
		Role:       "Hospital Admin",
		HospitalID: &hospitalID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := setupHandlerTest(svc, asUser(res.User.ID, auth.RoleHospitalAdmin))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/first-login-complete", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	link, _ := admins.GetByUserID(context.Background(), res.User.ID)
	if link.IsFirstLogin {
		t.Error("first-login flag not cleared")
	}
}

func TestHandler_FirstLoginComplete_PatientForbidden(t *testing.T) {
	svc, _, _, _ := newTestService()
	e := setupHandlerTest(svc, asUser(uuid.New(), auth.RolePatient))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/first-login-complete", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
