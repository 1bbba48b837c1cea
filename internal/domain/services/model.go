package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is a priced service the clinic offers.
type CatalogItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
}

// ProvidedService links a catalog item to a visit. The set of provided
// services determines the visit's billable total and is frozen once the
// visit is paid.
type ProvidedService struct {
	ID        uuid.UUID `json:"id"`
	VisitID   uuid.UUID `json:"visit_id"`
	ServiceID uuid.UUID `json:"service_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ProvidedServiceRow is a provided service joined with its catalog item.
type ProvidedServiceRow struct {
	ID        uuid.UUID       `json:"id"`
	VisitID   uuid.UUID       `json:"visit_id"`
	ServiceID uuid.UUID       `json:"service_id"`
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
}

// VisitPerson is the doctor or patient of a visit with the name resolved.
type VisitPerson struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
}

// VisitDetails is the visit header shown on the services screen.
type VisitDetails struct {
	VisitID   uuid.UUID   `json:"visitId"`
	VisitDate time.Time   `json:"visitDate"`
	VisitTime string      `json:"visitTime"`
	Comment   string      `json:"comment,omitempty"`
	Doctor    VisitPerson `json:"doctor"`
	Patient   VisitPerson `json:"patient"`
}
