package contract

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "registry", "billing")

	g := api.Group("/contract", role)
	g.GET("/list", h.List)
}

func (h *Handler) List(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, rows)
}
