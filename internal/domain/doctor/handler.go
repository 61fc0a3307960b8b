package doctor

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/asupatri/asupatri/internal/platform/auth"
	"github.com/asupatri/asupatri/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors/hospital/:id", h.ListByHospital)
	api.GET("/doctors/:id/schedules", h.ListSchedules)

	admin := api.Group("/admin")
	admin.POST("/doctors", h.Create, auth.RequireRole(auth.RoleHospitalAdmin))
	admin.GET("/doctors", h.Roster, auth.RequireRole(auth.RoleHospitalAdmin))
	admin.PUT("/doctors/:id", h.Update, auth.RequireRole(auth.RoleHospitalAdmin))
	admin.DELETE("/doctors/:id", h.Delete, auth.RequireRole(auth.RoleHospitalAdmin))

	schedulers := auth.RequireRole(auth.RoleHospitalAdmin, auth.RoleDoctor)
	admin.POST("/doctors/:id/schedules", h.AddSchedule, schedulers)
	admin.DELETE("/schedules/:id", h.DeleteSchedule, schedulers)
}

type CreateDoctorRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	FullName        *string `json:"full_name"`
	Specialization  string  `json:"specialization" validate:"required"`
	Qualifications  *string `json:"qualifications"`
	ExperienceYears *int    `json:"experience_years" validate:"omitempty,gte=0"`
}

type UpdateDoctorRequest struct {
	Specialization  *string `json:"specialization"`
	Qualifications  *string `json:"qualifications"`
	ExperienceYears *int    `json:"experience_years" validate:"omitempty,gte=0"`
	IsAvailable     *bool   `json:"is_available"`
}

type CreateScheduleRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.svc.CreateDoctor(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), CreateDoctorInput{
		Email:           req.Email,
		Password:        req.Password,
		FullName:        req.FullName,
		Specialization:  req.Specialization,
		Qualifications:  req.Qualifications,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return domainError(err, "failed to create doctor")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"doctor": d})
}

func (h *Handler) Roster(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Roster(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), p)
	if err != nil {
		return domainError(err, "failed to list doctors")
	}
	if items == nil {
		items = []*Detail{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"doctors":  items,
		"total":    total,
		"limit":    p.Limit,
		"offset":   p.Offset,
		"has_more": p.HasNext(total),
	})
}

func (h *Handler) Update(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	var req UpdateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.svc.UpdateDoctor(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), doctorID, UpdateDoctorInput{
		Specialization:  req.Specialization,
		Qualifications:  req.Qualifications,
		ExperienceYears: req.ExperienceYears,
		IsAvailable:     req.IsAvailable,
	})
	if err != nil {
		return domainError(err, "failed to update doctor")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctor": d})
}

func (h *Handler) Delete(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	if err := h.svc.DeleteDoctor(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), doctorID); err != nil {
		return domainError(err, "failed to delete doctor")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "doctor removed"})
}

func (h *Handler) ListByHospital(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}

	items, err := h.svc.ListByHospital(c.Request().Context(), hospitalID)
	if err != nil {
		return domainError(err, "failed to list doctors")
	}
	if items == nil {
		items = []*Doctor{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"doctors": items})
}

func (h *Handler) AddSchedule(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	var req CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	w, err := h.svc.AddWindow(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), doctorID, *req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return domainError(err, "failed to create schedule window")
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"schedule": w})
}

func (h *Handler) ListSchedules(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	items, err := h.svc.WindowsForDoctor(c.Request().Context(), doctorID)
	if err != nil {
		return domainError(err, "failed to list schedule windows")
	}
	if items == nil {
		items = []*ScheduleWindow{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"schedules": items})
}

func (h *Handler) DeleteSchedule(c echo.Context) error {
	windowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	ctx := c.Request().Context()
	if err := h.svc.DeleteWindow(ctx, auth.UserIDFromContext(ctx), auth.RoleFromContext(ctx), windowID); err != nil {
		return domainError(err, "failed to delete schedule window")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"message": "schedule window removed"})
}

func domainError(err error, fallback string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrDuplicateWindow):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidWindow):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback)
	}
}
