package repository

import (
	"context"

	"github.com/hokedu/tuition-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByStudent(ctx context.Context, studentID string) ([]*domain.Payment, error) {
	query := `
		SELECT id, student_id, amount, COALESCE(receipt_reference, '') AS receipt_reference, created_at
		FROM payments
		WHERE student_id = $1
		ORDER BY created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, err
	}

	return payments, nil
}
