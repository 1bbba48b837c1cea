package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/api/internal/domain/directory"
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

	g := api.Group("/appointment", role)
	g.GET("/list", h.List)
	g.POST("/visits", h.Create)
	g.DELETE("/visits/:id", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	type listRow struct {
		VisitID     uuid.UUID `json:"visitId"`
		PatientName string    `json:"patientName"`
		DoctorName  string    `json:"doctorName"`
		VisitDate   string    `json:"visitDate"`
		VisitTime   string    `json:"visitTime"`
	}
	out := make([]listRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, listRow{
			VisitID:     r.VisitID,
			PatientName: r.PatientName,
			DoctorName:  r.DoctorName,
			VisitDate:   r.VisitDate.Format("2006-01-02"),
			VisitTime:   r.VisitTime,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type createVisitRequest struct {
	PatientID uuid.UUID `json:"patientId"`
	DoctorID  uuid.UUID `json:"doctorId"`
	VisitDate string    `json:"visitDate"`
	VisitTime string    `json:"visitTime"`
	Comment   string    `json:"comment"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.PatientID == uuid.Nil || req.DoctorID == uuid.Nil || req.VisitDate == "" || req.VisitTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}

	date, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visit date"})
	}

	v, err := h.svc.Create(c.Request().Context(), req.DoctorID, req.PatientID, date, req.VisitTime, req.Comment)
	if err != nil {
		var conflict *SlotConflictError
		switch {
		case errors.As(err, &conflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "doctor already booked at this time",
				"existingVisit": echo.Map{
					"visitId":   conflict.VisitID,
					"patientId": conflict.PatientID,
				},
			})
		case errors.Is(err, directory.ErrPatientNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
		case errors.Is(err, directory.ErrDoctorNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor not found"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "visit created",
		"visit": echo.Map{
			"visitId":   v.ID,
			"patientId": v.PatientID,
			"doctorId":  v.DoctorID,
			"visitDate": v.VisitDate.Format("2006-01-02"),
			"visitTime": v.VisitTime,
		},
	})
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrVisitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "visit not found"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "visit deleted"})
}
