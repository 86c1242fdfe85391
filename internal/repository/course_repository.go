package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/hokedu/tuition-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) CourseRepository {
	return &courseRepository{db: db}
}

// courseRow maps the courses table; monthly_template is a jsonb column
// holding {"02": "27000", ...} style month overrides from the original data.
type courseRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	TotalFee        string         `db:"total_fee"`
	Fee             string         `db:"fee"`
	Tuition         string         `db:"tuition"`
	PricePerMonth   string         `db:"price_per_month"`
	MonthlyTemplate sql.NullString `db:"monthly_template"`
}

func (r *courseRepository) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `
		SELECT id, name, COALESCE(total_fee, '') AS total_fee, COALESCE(fee, '') AS fee,
		       COALESCE(tuition, '') AS tuition, COALESCE(price_per_month, '') AS price_per_month,
		       monthly_template
		FROM courses
		WHERE id = $1
	`

	var row courseRow
	if err := r.db.GetContext(ctx, &row, query, courseID); err != nil {
		return nil, err
	}

	course := &domain.Course{
		ID:            row.ID,
		Name:          row.Name,
		TotalFee:      row.TotalFee,
		Fee:           row.Fee,
		Tuition:       row.Tuition,
		PricePerMonth: row.PricePerMonth,
	}

	if row.MonthlyTemplate.Valid && row.MonthlyTemplate.String != "" {
		if err := json.Unmarshal([]byte(row.MonthlyTemplate.String), &course.MonthlyTemplate); err != nil {
			return nil, err
		}
	}

	return course, nil
}
