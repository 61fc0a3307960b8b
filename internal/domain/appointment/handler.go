package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/asupatri/asupatri/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Book)
	api.GET("/appointments/:user_id", h.ListForUser)
	api.PUT("/appointments/:id", h.UpdateStatus, auth.RequireRole(auth.RoleDoctor, auth.RoleHospitalAdmin))
}

type BookRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,dateymd"`
	Time     string    `json:"time" validate:"required,hhmm"`
	Reason   *string   `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	patientID := auth.UserIDFromContext(ctx)
	if patientID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	a, err := h.svc.Book(ctx, patientID, BookInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
	})
	if err != nil {
		return domainError(err, "failed to book appointment")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"appointment_id": a.ID})
}

func (h *Handler) ListForUser(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	ctx := c.Request().Context()
	todayOnly := c.QueryParam("today") == "true"

	items, err := h.svc.ListForUser(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), targetID, todayOnly)
	if err != nil {
		return domainError(err, "failed to list appointments")
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointments": items})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	a, err := h.svc.UpdateStatus(ctx, auth.RoleFromContext(ctx), id, req.Status)
	if err != nil {
		return domainError(err, "failed to update appointment")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointment": a})
}

func domainError(err error, fallback string) error {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOutsideSchedule), errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}
