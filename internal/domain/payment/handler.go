package payment

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
	role := auth.RequireRole("admin", "billing")

	g := api.Group("/payment", role)
	g.GET("/list", h.List)
	g.POST("/pay/:visitId", h.Pay)
}

type visitRow struct {
	VisitID          uuid.UUID `json:"visitId"`
	PatientName      string    `json:"patientName"`
	VisitDate        string    `json:"visitDate"`
	VisitTime        string    `json:"visitTime"`
	TotalAmount      string    `json:"totalAmount"`
	ContractType     string    `json:"contractType"`
	OrganizationName *string   `json:"organizationName,omitempty"`
	ContractBalance  *string   `json:"contractBalance,omitempty"`
	IsPaid           bool      `json:"isPaid"`
}

func (h *Handler) List(c echo.Context) error {
	projections, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	rows := make([]visitRow, 0, len(projections))
	for _, vp := range projections {
		row := visitRow{
			VisitID:          vp.VisitID,
			PatientName:      vp.PatientName,
			VisitDate:        vp.VisitDate.Format("2006-01-02"),
			VisitTime:        vp.VisitTime,
			TotalAmount:      vp.TotalAmount.StringFixed(2),
			ContractType:     string(vp.PayerClass),
			OrganizationName: vp.OrganizationName,
			IsPaid:           vp.Paid,
		}
		if vp.ContractBalance != nil {
			b := vp.ContractBalance.StringFixed(2)
			row.ContractBalance = &b
		}
		rows = append(rows, row)
	}
	return c.JSON(http.StatusOK, rows)
}

type payResponse struct {
	Message      string `json:"message"`
	PaidAmount   string `json:"paidAmount"`
	FromContract string `json:"fromContract"`
	ByClient     string `json:"byClient"`
	IsPaid       bool   `json:"isPaid"`
}

func (h *Handler) Pay(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("visitId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}

	receipt, err := h.svc.Pay(c.Request().Context(), visitID)
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			switch pe.Kind {
			case KindNotFound:
				return c.JSON(http.StatusNotFound, echo.Map{"error": pe.Message})
			case KindConflict:
				body := echo.Map{"error": pe.Message}
				if pe.PaidAmount != nil {
					body["paidAmount"] = pe.PaidAmount.StringFixed(2)
				}
				return c.JSON(http.StatusBadRequest, body)
			case KindInvalidState:
				return c.JSON(http.StatusBadRequest, echo.Map{"error": pe.Message})
			}
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, payResponse{
		Message:      "payment recorded",
		PaidAmount:   receipt.TotalPaid.StringFixed(2),
		FromContract: receipt.FromContract.StringFixed(2),
		ByClient:     receipt.ByClient.StringFixed(2),
		IsPaid:       true,
	})
}
