package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicdesk/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

type catalogRepoPG struct{ pool *pgxpool.Pool }

func NewCatalogRepoPG(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepoPG{pool: pool}
}

func (r *catalogRepoPG) List(ctx context.Context) ([]*CatalogItem, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, description, cost FROM service ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CatalogItem
	for rows.Next() {
		var item CatalogItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Cost); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *catalogRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	var item CatalogItem
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, description, cost FROM service WHERE id = $1`, id).
		Scan(&item.ID, &item.Name, &item.Description, &item.Cost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCatalogItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type providedServiceRepoPG struct{ pool *pgxpool.Pool }

func NewProvidedServiceRepoPG(pool *pgxpool.Pool) ProvidedServiceRepository {
	return &providedServiceRepoPG{pool: pool}
}

func (r *providedServiceRepoPG) Add(ctx context.Context, ps *ProvidedService) error {
	ps.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO provided_service (id, visit_id, service_id)
		VALUES ($1, $2, $3)`, ps.ID, ps.VisitID, ps.ServiceID)
	return err
}

func (r *providedServiceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM provided_service WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProvidedServiceNotFound
	}
	return nil
}

func (r *providedServiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ProvidedService, error) {
	var ps ProvidedService
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, visit_id, service_id, created_at
		FROM provided_service WHERE id = $1`, id).
		Scan(&ps.ID, &ps.VisitID, &ps.ServiceID, &ps.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProvidedServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

func (r *providedServiceRepoPG) ListByVisit(ctx context.Context, visitID uuid.UUID) ([]*ProvidedServiceRow, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT ps.id, ps.visit_id, ps.service_id, s.name, s.cost
		FROM provided_service ps
		JOIN service s ON s.id = ps.service_id
		WHERE ps.visit_id = $1
		ORDER BY ps.created_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ProvidedServiceRow
	for rows.Next() {
		var row ProvidedServiceRow
		if err := rows.Scan(&row.ID, &row.VisitID, &row.ServiceID, &row.Name, &row.Cost); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

type visitDetailsRepoPG struct{ pool *pgxpool.Pool }

func NewVisitDetailsRepoPG(pool *pgxpool.Pool) VisitDetailsRepository {
	return &visitDetailsRepoPG{pool: pool}
}

func (r *visitDetailsRepoPG) GetDetails(ctx context.Context, visitID uuid.UUID) (*VisitDetails, error) {
	var d VisitDetails
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT v.id, v.visit_date, v.visit_time, v.comment,
		       doc.id, TRIM(CONCAT_WS(' ', doc.last_name, doc.first_name, doc.patronymic)),
		       p.id, TRIM(CONCAT_WS(' ', p.last_name, p.first_name, p.patronymic))
		FROM visit v
		JOIN doctor doc ON doc.id = v.doctor_id
		JOIN patient p ON p.id = v.patient_id
		WHERE v.id = $1`, visitID).
		Scan(&d.VisitID, &d.VisitDate, &d.VisitTime, &d.Comment,
			&d.Doctor.ID, &d.Doctor.FullName,
			&d.Patient.ID, &d.Patient.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type paidCheckerPG struct{ pool *pgxpool.Pool }

func NewPaidCheckerPG(pool *pgxpool.Pool) PaidChecker {
	return &paidCheckerPG{pool: pool}
}

func (r *paidCheckerPG) IsVisitPaid(ctx context.Context, visitID uuid.UUID) (bool, error) {
	var paid bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM payment WHERE visit_id = $1)`, visitID).Scan(&paid)
	return paid, err
}
