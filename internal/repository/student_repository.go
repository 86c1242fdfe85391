package repository

import (
	"context"

	"github.com/hokedu/tuition-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	query := `
		SELECT id, name, course_id, COALESCE(tuition_total, '') AS tuition_total,
		       COALESCE(paid_amount, '') AS paid_amount, active, created_at
		FROM students
		WHERE id = $1
	`

	var student domain.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) ListActive(ctx context.Context) ([]*domain.Student, error) {
	query := `
		SELECT id, name, course_id, COALESCE(tuition_total, '') AS tuition_total,
		       COALESCE(paid_amount, '') AS paid_amount, active, created_at
		FROM students
		WHERE active = TRUE
		ORDER BY id
	`

	var students []*domain.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, err
	}

	return students, nil
}
