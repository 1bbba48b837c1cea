package services

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	role := auth.RequireRole("admin", "registry")

	g := api.Group("/service", role)
	g.GET("/list", h.ListCatalog)
	g.GET("/visit/:visitId", h.ListByVisit)
	g.GET("/visit/:visitId/details", h.VisitDetails)
	g.POST("/visit/:visitId", h.AddToVisit)
	g.DELETE("/provided/:id", h.RemoveFromVisit)
}

type catalogRow struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Cost        string    `json:"cost"`
}

func (h *Handler) ListCatalog(c echo.Context) error {
	items, err := h.svc.ListCatalog(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	rows := make([]catalogRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, catalogRow{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Cost:        item.Cost.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, rows)
}

type providedRow struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"serviceId"`
	Name      string    `json:"name"`
	Cost      string    `json:"cost"`
}

func (h *Handler) ListByVisit(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("visitId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	items, err := h.svc.ListByVisit(c.Request().Context(), visitID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	rows := make([]providedRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, providedRow{
			ID:        item.ID,
			ServiceID: item.ServiceID,
			Name:      item.Name,
			Cost:      item.Cost.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) VisitDetails(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("visitId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	d, err := h.svc.VisitDetails(c.Request().Context(), visitID)
	if errors.Is(err, ErrVisitNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"visitId":   d.VisitID,
		"visitDate": d.VisitDate.Format("2006-01-02"),
		"visitTime": d.VisitTime,
		"comment":   d.Comment,
		"doctor":    d.Doctor,
		"patient":   d.Patient,
	})
}

type addServiceRequest struct {
	ServiceID uuid.UUID `json:"serviceId"`
}

func (h *Handler) AddToVisit(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("visitId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req addServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ServiceID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "serviceId is required")
	}

	ps, err := h.svc.AddToVisit(c.Request().Context(), visitID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, ErrVisitNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "visit not found")
		case errors.Is(err, ErrCatalogItemNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "service not found")
		case errors.Is(err, ErrVisitPaid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "visit already paid"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusCreated, ps)
}

func (h *Handler) RemoveFromVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.RemoveFromVisit(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrProvidedServiceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "provided service not found")
		case errors.Is(err, ErrVisitPaid):
			return c.JSON(http.StatusConflict, echo.Map{"error": "visit already paid"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service removed from visit"})
}
