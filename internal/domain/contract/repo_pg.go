package contract

import (
	"context"

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

type privateContractRepoPG struct{ pool *pgxpool.Pool }

func NewPrivateContractRepoPG(pool *pgxpool.Pool) PrivateContractRepository {
	return &privateContractRepoPG{pool: pool}
}

func (r *privateContractRepoPG) List(ctx context.Context) ([]*PrivateContract, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT c.id, c.number, c.patient_id,
		       TRIM(CONCAT_WS(' ', p.first_name, p.last_name, p.patronymic))
		FROM private_contract c
		JOIN patient p ON p.id = c.patient_id
		ORDER BY c.number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PrivateContract
	for rows.Next() {
		var c PrivateContract
		if err := rows.Scan(&c.ID, &c.Number, &c.PatientID, &c.PatientName); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

type orgContractRepoPG struct{ pool *pgxpool.Pool }

func NewOrgContractRepoPG(pool *pgxpool.Pool) OrgContractRepository {
	return &orgContractRepoPG{pool: pool}
}

func (r *orgContractRepoPG) List(ctx context.Context) ([]*OrgContract, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT c.id, c.number, c.organization_id, o.name,
		       c.start_date, c.end_date, c.balance, c.active
		FROM org_contract c
		JOIN organization o ON o.id = c.organization_id
		ORDER BY c.number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OrgContract
	for rows.Next() {
		var c OrgContract
		if err := rows.Scan(&c.ID, &c.Number, &c.OrganizationID, &c.OrganizationName,
			&c.StartDate, &c.EndDate, &c.Balance, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
