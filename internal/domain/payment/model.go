package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayerClass tells who ultimately settles a visit's cost.
type PayerClass string

const (
	PayerPrivate        PayerClass = "private"
	PayerOrganizational PayerClass = "organization"
)

// ServiceLine is one billable line item of a visit: a provided service
// together with the catalog unit cost captured at load time.
type ServiceLine struct {
	ProvidedServiceID uuid.UUID       `json:"provided_service_id"`
	ServiceID         uuid.UUID       `json:"service_id"`
	Name              string          `json:"name"`
	Cost              decimal.Decimal `json:"cost"`
}

// BillableVisit is the payment engine's read model of a visit: identity,
// patient, and the service lines that make up its cost.
type BillableVisit struct {
	ID        uuid.UUID     `json:"id"`
	PatientID uuid.UUID     `json:"patient_id"`
	VisitDate time.Time     `json:"visit_date"`
	VisitTime string        `json:"visit_time"`
	Services  []ServiceLine `json:"services"`
}

// TotalDue sums the visit's service line costs, rounded to 2 fractional
// digits. The same figure is returned to the caller and stored on the
// payment row.
func (v *BillableVisit) TotalDue() decimal.Decimal {
	total := decimal.Zero
	for _, s := range v.Services {
		total = total.Add(s.Cost)
	}
	return total.Round(2)
}

// Employment links a patient to the organization paying for their care.
type Employment struct {
	PatientID      uuid.UUID `json:"patient_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// OrgContract is the prepaid balance an organization maintains to cover its
// employees' visit costs. Balance is the single mutable quantity the
// payment engine writes.
type OrgContract struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Number         string          `json:"number"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Balance        decimal.Decimal `json:"balance"`
	Active         bool            `json:"active"`
}

// Payment records that a visit has been settled. At most one row exists
// per visit, enforced by a unique index on visit_id.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	VisitID     uuid.UUID       `json:"visit_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Receipt is the outcome of a successful pay operation: the total charged
// and how it was split between the organization contract and the client.
type Receipt struct {
	TotalPaid    decimal.Decimal
	FromContract decimal.Decimal
	ByClient     decimal.Decimal
}

// VisitProjection is one row of the read-only payment listing: the visit
// joined with its patient, computed total, payer classification, and
// payment status.
type VisitProjection struct {
	VisitID          uuid.UUID
	PatientName      string
	VisitDate        time.Time
	VisitTime        string
	TotalAmount      decimal.Decimal
	PayerClass       PayerClass
	OrganizationID   *uuid.UUID
	OrganizationName *string
	ContractID       *uuid.UUID
	ContractBalance  *decimal.Decimal
	Paid             bool
}
