package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrVisitNotFound           = errors.New("visit not found")
	ErrCatalogItemNotFound     = errors.New("service not found")
	ErrProvidedServiceNotFound = errors.New("provided service not found")

	// ErrVisitPaid guards the freeze: a paid visit's service lines can no
	// longer be changed because the recorded payment amount reflects them.
	ErrVisitPaid = errors.New("visit already paid")
)

type CatalogRepository interface {
	List(ctx context.Context) ([]*CatalogItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
}

type ProvidedServiceRepository interface {
	Add(ctx context.Context, ps *ProvidedService) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProvidedService, error)
	ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*ProvidedServiceRow, error)
}

type VisitDetailsRepository interface {
	GetDetails(ctx context.Context, visitID uuid.UUID) (*VisitDetails, error)
}

// PaidChecker tells whether a visit already has a payment row.
type PaidChecker interface {
	IsVisitPaid(ctx context.Context, visitID uuid.UUID) (bool, error)
}
