package mocks

import (
	"context"

	"github.com/hokedu/tuition-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) GetByStudent(ctx context.Context, studentID string) ([]*domain.MonthlyObligation, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlyObligation), args.Error(1)
}

func (m *MockObligationRepository) GetByStudentYear(ctx context.Context, studentID string, year int) ([]*domain.MonthlyObligation, error) {
	args := m.Called(ctx, studentID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MonthlyObligation), args.Error(1)
}

func (m *MockObligationRepository) Upsert(ctx context.Context, obligation *domain.MonthlyObligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) UpdateAllocation(ctx context.Context, studentID, periodID string, paidAmount int64, status string) error {
	args := m.Called(ctx, studentID, periodID, paidAmount, status)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByStudent(ctx context.Context, studentID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByID(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) ListActive(ctx context.Context) ([]*domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Student), args.Error(1)
}

type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetByID(ctx context.Context, courseID string) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}
