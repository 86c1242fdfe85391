package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hokedu/tuition-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type obligationRepository struct {
	db *sqlx.DB
}

func NewObligationRepository(db *sqlx.DB) ObligationRepository {
	return &obligationRepository{db: db}
}

func (r *obligationRepository) GetByStudent(ctx context.Context, studentID string) ([]*domain.MonthlyObligation, error) {
	query := `
		SELECT id, student_id, period_id, due_date, due_amount, paid_amount, status, created_at, updated_at
		FROM monthly_obligations
		WHERE student_id = $1
		ORDER BY period_id
	`

	var obligations []*domain.MonthlyObligation
	if err := r.db.SelectContext(ctx, &obligations, query, studentID); err != nil {
		return nil, err
	}

	return obligations, nil
}

func (r *obligationRepository) GetByStudentYear(ctx context.Context, studentID string, year int) ([]*domain.MonthlyObligation, error) {
	query := `
		SELECT id, student_id, period_id, due_date, due_amount, paid_amount, status, created_at, updated_at
		FROM monthly_obligations
		WHERE student_id = $1 AND period_id LIKE $2
		ORDER BY period_id
	`

	var obligations []*domain.MonthlyObligation
	if err := r.db.SelectContext(ctx, &obligations, query, studentID, fmt.Sprintf("%d-%%", year)); err != nil {
		return nil, err
	}

	return obligations, nil
}

func (r *obligationRepository) Upsert(ctx context.Context, obligation *domain.MonthlyObligation) error {
	query := `
		INSERT INTO monthly_obligations (id, student_id, period_id, due_date, due_amount, paid_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (student_id, period_id)
		DO UPDATE SET due_amount = EXCLUDED.due_amount, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		obligation.ID,
		obligation.StudentID,
		obligation.PeriodID,
		obligation.DueDate,
		obligation.DueAmount,
		obligation.PaidAmount,
		obligation.Status,
		now,
		now,
	)

	return err
}

func (r *obligationRepository) UpdateAllocation(ctx context.Context, studentID, periodID string, paidAmount int64, status string) error {
	query := `
		UPDATE monthly_obligations
		SET paid_amount = $3, status = $4, updated_at = $5
		WHERE student_id = $1 AND period_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, studentID, periodID, paidAmount, status, time.Now())
	return err
}
