package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/api/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewVisitRepoPG(pool *pgxpool.Pool) VisitRepository {
	return &visitRepoPG{pool: pool}
}

func (r *visitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *visitRepoPG) FindWithServices(ctx context.Context, visitID uuid.UUID) (*BillableVisit, error) {
	var v BillableVisit
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, visit_date, visit_time
		FROM visit WHERE id = $1`, visitID).
		Scan(&v.ID, &v.PatientID, &v.VisitDate, &v.VisitTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ps.id, s.id, s.name, s.cost
		FROM provided_service ps
		JOIN service s ON s.id = ps.service_id
		WHERE ps.visit_id = $1
		ORDER BY ps.created_at`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line ServiceLine
		if err := rows.Scan(&line.ProvidedServiceID, &line.ServiceID, &line.Name, &line.Cost); err != nil {
			return nil, err
		}
		v.Services = append(v.Services, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}

type employmentRepoPG struct{ pool *pgxpool.Pool }

func NewEmploymentRepoPG(pool *pgxpool.Pool) EmploymentRepository {
	return &employmentRepoPG{pool: pool}
}

func (r *employmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *employmentRepoPG) FindByPatient(ctx context.Context, patientID uuid.UUID) (*Employment, error) {
	var e Employment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT patient_id, organization_id
		FROM employment WHERE patient_id = $1`, patientID).
		Scan(&e.PatientID, &e.OrganizationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type contractRepoPG struct{ pool *pgxpool.Pool }

func NewContractRepoPG(pool *pgxpool.Pool) ContractRepository {
	return &contractRepoPG{pool: pool}
}

func (r *contractRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// FindActiveByOrganizationForUpdate takes a row lock on the contract, so
// it must run inside a transaction; outside one the lock is released as
// soon as the statement completes.
func (r *contractRepoPG) FindActiveByOrganizationForUpdate(ctx context.Context, orgID uuid.UUID) (*OrgContract, error) {
	var c OrgContract
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, organization_id, number, start_date, end_date, balance, active
		FROM org_contract
		WHERE organization_id = $1 AND active
		ORDER BY start_date DESC
		LIMIT 1
		FOR UPDATE`, orgID).
		Scan(&c.ID, &c.OrganizationID, &c.Number, &c.StartDate, &c.EndDate, &c.Balance, &c.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepoPG) UpdateBalance(ctx context.Context, contractID uuid.UUID, newBalance decimal.Decimal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE org_contract SET balance = $2, updated_at = NOW()
		WHERE id = $1`, contractID, newBalance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("contract not found")
	}
	return nil
}

type paymentRepoPG struct{ pool *pgxpool.Pool }

func NewPaymentRepoPG(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepoPG{pool: pool}
}

func (r *paymentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *paymentRepoPG) FindByVisit(ctx context.Context, visitID uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, visit_id, total_amount, created_at
		FROM payment WHERE visit_id = $1`, visitID).
		Scan(&p.ID, &p.VisitID, &p.TotalAmount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepoPG) Create(ctx context.Context, p *Payment) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO payment (id, visit_id, total_amount)
		VALUES ($1, $2, $3)`, p.ID, p.VisitID, p.TotalAmount)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicatePayment
	}
	return err
}

type projectionRepoPG struct{ pool *pgxpool.Pool }

func NewProjectionRepoPG(pool *pgxpool.Pool) ProjectionRepository {
	return &projectionRepoPG{pool: pool}
}

func (r *projectionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// ListVisitProjections builds the payment listing in one query. Only
// visits with at least one provided service appear; visits whose patient
// has an employment record are classified organizational even when the
// organization currently has no active contract.
func (r *projectionRepoPG) ListVisitProjections(ctx context.Context) ([]*VisitProjection, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT v.id,
		       TRIM(CONCAT_WS(' ', p.last_name, p.first_name, p.patronymic)),
		       v.visit_date, v.visit_time,
		       SUM(s.cost),
		       e.organization_id,
		       o.name,
		       oc.id, oc.balance,
		       (pay.id IS NOT NULL)
		FROM visit v
		JOIN patient p ON p.id = v.patient_id
		JOIN provided_service ps ON ps.visit_id = v.id
		JOIN service s ON s.id = ps.service_id
		LEFT JOIN employment e ON e.patient_id = v.patient_id
		LEFT JOIN organization o ON o.id = e.organization_id
		LEFT JOIN org_contract oc ON oc.organization_id = e.organization_id AND oc.active
		LEFT JOIN payment pay ON pay.visit_id = v.id
		GROUP BY v.id, p.last_name, p.first_name, p.patronymic,
		         e.organization_id, o.name, oc.id, oc.balance, pay.id
		ORDER BY v.visit_date DESC, v.visit_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*VisitProjection
	for rows.Next() {
		var vp VisitProjection
		if err := rows.Scan(&vp.VisitID, &vp.PatientName, &vp.VisitDate, &vp.VisitTime,
			&vp.TotalAmount, &vp.OrganizationID, &vp.OrganizationName,
			&vp.ContractID, &vp.ContractBalance, &vp.Paid); err != nil {
			return nil, err
		}
		vp.PayerClass = PayerPrivate
		if vp.OrganizationID != nil {
			vp.PayerClass = PayerOrganizational
		}
		out = append(out, &vp)
	}
	return out, rows.Err()
}
