package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrObligationNotFound  = errors.New("obligation not found")
	ErrInvalidPeriod       = errors.New("invalid billing period")
	ErrMigrationNotApplied = errors.New("migration plan was not applied")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeStudentNotFound     = "STUDENT_NOT_FOUND"
	ErrCodeCourseNotFound      = "COURSE_NOT_FOUND"
	ErrCodeObligationNotFound  = "OBLIGATION_NOT_FOUND"
	ErrCodeInvalidPeriod       = "INVALID_PERIOD"
	ErrCodeMigrationNotApplied = "MIGRATION_NOT_APPLIED"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapStudentNotFound(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeStudentNotFound,
		fmt.Sprintf("Student with ID %s not found", studentID),
		ErrStudentNotFound,
	)
}

func WrapCourseNotFound(courseID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCourseNotFound,
		fmt.Sprintf("Course with ID %s not found", courseID),
		ErrCourseNotFound,
	)
}

func WrapInvalidPeriod(periodID string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPeriod,
		fmt.Sprintf("Period %s is not a valid billing period", periodID),
		ErrInvalidPeriod,
	)
}

func WrapMigrationNotApplied(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeMigrationNotApplied,
		reason,
		ErrMigrationNotApplied,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
