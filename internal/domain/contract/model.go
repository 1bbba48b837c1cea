package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrivateContract is an individual patient's contract with the clinic.
type PrivateContract struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
}

// OrgContract is an organization's prepaid contract; its balance is
// debited by the payment engine when employed patients' visits are paid.
type OrgContract struct {
	ID               uuid.UUID       `json:"id"`
	Number           string          `json:"number"`
	OrganizationID   uuid.UUID       `json:"organization_id"`
	OrganizationName string          `json:"organization_name"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Balance          decimal.Decimal `json:"balance"`
	Active           bool            `json:"active"`
}
