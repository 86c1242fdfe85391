package repository

import (
	"context"

	"github.com/hokedu/tuition-engine/internal/domain"
)

// ObligationRepository defines the interface for monthly obligation data operations
type ObligationRepository interface {
	// GetByStudent retrieves every obligation for a student, sorted by period
	GetByStudent(ctx context.Context, studentID string) ([]*domain.MonthlyObligation, error)

	// GetByStudentYear retrieves a student's obligations for one billing year, sorted by period
	GetByStudentYear(ctx context.Context, studentID string, year int) ([]*domain.MonthlyObligation, error)

	// Upsert creates an obligation or replaces its amounts by (student, period)
	Upsert(ctx context.Context, obligation *domain.MonthlyObligation) error

	// UpdateAllocation writes the allocated paid amount and derived status for one period
	UpdateAllocation(ctx context.Context, studentID, periodID string, paidAmount int64, status string) error
}

// PaymentRepository defines the interface for payment data operations.
// Payments are created by the receipt upload flow; this engine only reads them.
type PaymentRepository interface {
	// GetByStudent retrieves all payments for a student
	GetByStudent(ctx context.Context, studentID string) ([]*domain.Payment, error)
}

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	// GetByID retrieves a student by ID
	GetByID(ctx context.Context, studentID string) (*domain.Student, error)

	// ListActive retrieves all active students
	ListActive(ctx context.Context) ([]*domain.Student, error)
}

// CourseRepository defines the interface for course fee data operations
type CourseRepository interface {
	// GetByID retrieves a course with its fee configuration
	GetByID(ctx context.Context, courseID string) (*domain.Course, error)
}
