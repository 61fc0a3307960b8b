package appointment

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

func setupHandlerTest(w *world, userID uuid.UUID, role auth.Role) *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	h := NewHandler(w.svc)
	h.RegisterRoutes(e.Group("/api/v1", asUser(userID, role)))
	return e
}

func TestHandler_Book(t *testing.T) {
	w := newWorld()
	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	body := `{"doctor_id":"` + w.doctorID.String() + `","date":"` + monday + `","time":"10:00","reason":"checkup"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		AppointmentID uuid.UUID `json:"appointment_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.AppointmentID == uuid.Nil {
		t.Error("expected an appointment id")
	}
}

func TestHandler_Book_ErrorStatuses(t *testing.T) {
	w := newWorld()
	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	book := func(body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	valid := `{"doctor_id":"` + w.doctorID.String() + `","date":"` + monday + `","time":"10:00"}`
	if code := book(valid); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}

	cases := map[string]struct {
		body string
		want int
	}{
		"missing date":     {`{"doctor_id":"` + w.doctorID.String() + `","time":"10:00"}`, http.StatusBadRequest},
		"malformed date":   {`{"doctor_id":"` + w.doctorID.String() + `","date":"31/08/2026","time":"10:00"}`, http.StatusBadRequest},
		"malformed time":   {`{"doctor_id":"` + w.doctorID.String() + `","date":"` + monday + `","time":"9:00"}`, http.StatusBadRequest},
		"outside schedule": {`{"doctor_id":"` + w.doctorID.String() + `","date":"` + monday + `","time":"13:00"}`, http.StatusConflict},
		"slot taken":       {valid, http.StatusConflict},
	}
	for name, tc := range cases {
		if code := book(tc.body); code != tc.want {
			t.Errorf("%s: expected %d, got %d", name, tc.want, code)
		}
	}
}

func TestHandler_ListForUser(t *testing.T) {
	w := newWorld()
	if _, err := w.svc.Book(context.Background(), w.patientID, BookInput{DoctorID: w.doctorID, Date: monday, Time: "10:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+w.patientID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Appointments []Appointment `json:"appointments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Appointments) != 1 {
		t.Errorf("expected 1 appointment, got %d", len(resp.Appointments))
	}
}

func TestHandler_ListForUser_OtherUserForbidden(t *testing.T) {
	w := newWorld()
	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestHandler_ListForUser_Empty(t *testing.T) {
	w := newWorld()
	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+w.patientID.String(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"appointments":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestHandler_UpdateStatus(t *testing.T) {
	w := newWorld()
	a, err := w.svc.Book(context.Background(), w.patientID, BookInput{DoctorID: w.doctorID, Date: monday, Time: "10:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := setupHandlerTest(w, w.doctorUser, auth.RoleDoctor)

	put := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+id, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := put(a.ID.String(), `{"status":"Confirmed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := put(a.ID.String(), `{"status":"Archived"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: expected 400, got %d", rec.Code)
	}
	if rec := put(a.ID.String(), `{"status":"Scheduled"}`); rec.Code != http.StatusConflict {
		t.Errorf("invalid transition: expected 409, got %d", rec.Code)
	}
	if rec := put(uuid.NewString(), `{"status":"Confirmed"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", rec.Code)
	}
}

func TestHandler_UpdateStatus_PatientForbidden(t *testing.T) {
	w := newWorld()
	a, err := w.svc.Book(context.Background(), w.patientID, BookInput{DoctorID: w.doctorID, Date: monday, Time: "10:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := setupHandlerTest(w, w.patientID, auth.RolePatient)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/appointments/"+a.ID.String(), strings.NewReader(`{"status":"Confirmed"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
