package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicatePayment is returned by PaymentRepository.Create when a row
// for the visit already exists. The backing store surfaces this from its
// uniqueness constraint, so a race between two pay calls for the same
// visit is lost by exactly one of them.
var ErrDuplicatePayment = errors.New("payment already exists for visit")

// VisitRepository loads a visit together with its billable service lines.
// A missing visit is reported as (nil, nil).
type VisitRepository interface {
	FindWithServices(ctx context.Context, visitID uuid.UUID) (*BillableVisit, error)
}

// EmploymentRepository resolves a patient's employer. A patient with no
// employment record is reported as (nil, nil) and pays privately.
type EmploymentRepository interface {
	FindByPatient(ctx context.Context, patientID uuid.UUID) (*Employment, error)
}

// ContractRepository reads and debits an organization's active contract.
// FindActiveByOrganizationForUpdate must lock the balance row for the
// duration of the surrounding transaction so that concurrent debits
// serialize; it reports (nil, nil) when the organization holds no active
// contract.
type ContractRepository interface {
	FindActiveByOrganizationForUpdate(ctx context.Context, orgID uuid.UUID) (*OrgContract, error)
	UpdateBalance(ctx context.Context, contractID uuid.UUID, newBalance decimal.Decimal) error
}

// PaymentRepository persists payment rows. FindByVisit reports (nil, nil)
// when the visit is unpaid.
type PaymentRepository interface {
	FindByVisit(ctx context.Context, visitID uuid.UUID) (*Payment, error)
	Create(ctx context.Context, p *Payment) error
}

// ProjectionRepository serves the read-only payment listing.
type ProjectionRepository interface {
	ListVisitProjections(ctx context.Context) ([]*VisitProjection, error)
}
