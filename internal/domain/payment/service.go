package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/api/internal/platform/db"
)

// Service settles visits and serves the payment listing. Pay is the only
// write path; it runs the whole unit (conflict check, cost aggregation,
// payer resolution, contract debit, payment insert) inside one
// transaction, so a failure at any step leaves no partial state.
type Service struct {
	tx          db.TxRunner
	visits      VisitRepository
	employments EmploymentRepository
	contracts   ContractRepository
	payments    PaymentRepository
	projections ProjectionRepository
	log         zerolog.Logger
}

func NewService(
	tx db.TxRunner,
	visits VisitRepository,
	employments EmploymentRepository,
	contracts ContractRepository,
	payments PaymentRepository,
	projections ProjectionRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		tx:          tx,
		visits:      visits,
		employments: employments,
		contracts:   contracts,
		payments:    payments,
		projections: projections,
		log:         log,
	}
}

// Pay settles the visit exactly once.
//
// The visit's total is the sum of its provided services' costs. A patient
// employed by an organization is covered by the organization's active
// contract up to its remaining balance; any shortfall is attributed to the
// client. A patient with no employment record pays privately. The second
// and every later call for the same visit fails with a Conflict carrying
// the recorded amount, and never touches the contract balance.
func (s *Service) Pay(ctx context.Context, visitID uuid.UUID) (*Receipt, error) {
	var receipt *Receipt

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.payments.FindByVisit(ctx, visitID)
		if err != nil {
			return Internal(err)
		}
		if existing != nil {
			return AlreadyPaid(existing.TotalAmount)
		}

		visit, err := s.visits.FindWithServices(ctx, visitID)
		if err != nil {
			return Internal(err)
		}
		if visit == nil {
			return NotFound("visit not found")
		}
		if len(visit.Services) == 0 {
			return InvalidState("visit has no billable services")
		}
		total := visit.TotalDue()

		fromContract := decimal.Zero
		byClient := total

		employment, err := s.employments.FindByPatient(ctx, visit.PatientID)
		if err != nil {
			return Internal(err)
		}
		if employment != nil {
			// Organizational payer: lock the contract row, split the
			// total against the balance read under the lock, debit.
			contract, err := s.contracts.FindActiveByOrganizationForUpdate(ctx, employment.OrganizationID)
			if err != nil {
				return Internal(err)
			}
			if contract == nil {
				return InvalidState("organization has no active contract")
			}

			alloc := Allocate(contract.Balance, total)
			if err := s.contracts.UpdateBalance(ctx, contract.ID, alloc.NewBalance); err != nil {
				return Internal(err)
			}
			fromContract = alloc.FromContract
			byClient = alloc.ByClient
		}

		if err := s.payments.Create(ctx, &Payment{VisitID: visitID, TotalAmount: total}); err != nil {
			return err
		}

		receipt = &Receipt{TotalPaid: total, FromContract: fromContract, ByClient: byClient}
		return nil
	})

	if err == nil {
		return receipt, nil
	}

	// A concurrent pay slipped past the existence check and won the unique
	// index; our transaction (including any debit) has rolled back. Report
	// the conflict with the recorded amount.
	if errors.Is(err, ErrDuplicatePayment) {
		existing, ferr := s.payments.FindByVisit(ctx, visitID)
		if ferr == nil && existing != nil {
			return nil, AlreadyPaid(existing.TotalAmount)
		}
		return nil, &Error{Kind: KindConflict, Message: "visit already paid"}
	}

	var pe *Error
	if errors.As(err, &pe) {
		if pe.Kind == KindInternal {
			s.log.Error().Err(pe).Stringer("visit_id", visitID).Msg("pay visit failed")
		}
		return nil, pe
	}

	s.log.Error().Err(err).Stringer("visit_id", visitID).Msg("pay visit failed")
	return nil, Internal(err)
}

// List returns the payment listing projection for every visit that has at
// least one provided service. It is read-only and never blocks writers.
func (s *Service) List(ctx context.Context) ([]*VisitProjection, error) {
	rows, err := s.projections.ListVisitProjections(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list payments failed")
		return nil, Internal(err)
	}
	return rows, nil
}
