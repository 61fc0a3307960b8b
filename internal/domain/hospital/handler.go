package hospital

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/hospitals", h.List)
	api.GET("/hospitals/nearby", h.Nearby)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list hospitals")
	}
	if items == nil {
		items = []*Hospital{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"hospitals": items})
}

func (h *Handler) Nearby(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if latErr != nil || lonErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lon query params required")
	}

	items, err := h.svc.Nearby(c.Request().Context(), lat, lon)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to rank hospitals")
	}
	if items == nil {
		items = []*NearbyHospital{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"hospitals": items})
}
