package appointment

import (
	"context"
	"errors"
	"time"

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

func (r *visitRepoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO visit (id, doctor_id, patient_id, visit_date, visit_time, comment)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.DoctorID, v.PatientID, v.VisitDate, v.VisitTime, v.Comment)
	return err
}

func (r *visitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	var v Visit
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, visit_date, visit_time, comment, created_at
		FROM visit WHERE id = $1`, id).
		Scan(&v.ID, &v.DoctorID, &v.PatientID, &v.VisitDate, &v.VisitTime, &v.Comment, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM visit WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *visitRepoPG) FindByDoctorSlot(ctx context.Context, doctorID uuid.UUID, date time.Time, visitTime string) (*Visit, error) {
	var v Visit
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, visit_date, visit_time, comment, created_at
		FROM visit
		WHERE doctor_id = $1 AND visit_date = $2 AND visit_time = $3`,
		doctorID, date, visitTime).
		Scan(&v.ID, &v.DoctorID, &v.PatientID, &v.VisitDate, &v.VisitTime, &v.Comment, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitRepoPG) ListWithNames(ctx context.Context) ([]*VisitListRow, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT v.id,
		       TRIM(CONCAT_WS(' ', p.last_name, p.first_name, p.patronymic)),
		       TRIM(CONCAT_WS(' ', d.last_name, d.first_name, d.patronymic)),
		       v.visit_date, v.visit_time
		FROM visit v
		JOIN patient p ON p.id = v.patient_id
		JOIN doctor d ON d.id = v.doctor_id
		ORDER BY v.visit_date DESC, v.visit_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*VisitListRow
	for rows.Next() {
		var row VisitListRow
		if err := rows.Scan(&row.VisitID, &row.PatientName, &row.DoctorName,
			&row.VisitDate, &row.VisitTime); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
