package services

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	catalog  CatalogRepository
	provided ProvidedServiceRepository
	details  VisitDetailsRepository
	paid     PaidChecker
}

func NewService(catalog CatalogRepository, provided ProvidedServiceRepository,
	details VisitDetailsRepository, paid PaidChecker) *Service {
	return &Service{catalog: catalog, provided: provided, details: details, paid: paid}
}

func (s *Service) ListCatalog(ctx context.Context) ([]*CatalogItem, error) {
	return s.catalog.List(ctx)
}

func (s *Service) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*ProvidedServiceRow, error) {
	return s.provided.ListByVisit(ctx, visitID)
}

func (s *Service) VisitDetails(ctx context.Context, visitID uuid.UUID) (*VisitDetails, error) {
	return s.details.GetDetails(ctx, visitID)
}

// AddToVisit attaches a catalog item to a visit. A paid visit's line items
// are frozen, since the payment already recorded their total.
func (s *Service) AddToVisit(ctx context.Context, visitID, serviceID uuid.UUID) (*ProvidedService, error) {
	if _, err := s.details.GetDetails(ctx, visitID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	paid, err := s.paid.IsVisitPaid(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrVisitPaid
	}

	ps := &ProvidedService{VisitID: visitID, ServiceID: serviceID}
	if err := s.provided.Add(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// RemoveFromVisit detaches a provided service, subject to the same freeze
// as AddToVisit.
func (s *Service) RemoveFromVisit(ctx context.Context, providedServiceID uuid.UUID) error {
	ps, err := s.provided.GetByID(ctx, providedServiceID)
	if err != nil {
		return err
	}

	paid, err := s.paid.IsVisitPaid(ctx, ps.VisitID)
	if err != nil {
		return err
	}
	if paid {
		return ErrVisitPaid
	}

	return s.provided.Delete(ctx, providedServiceID)
}
