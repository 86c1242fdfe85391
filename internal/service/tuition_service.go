package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/hokedu/tuition-engine/internal/cache"
	"github.com/hokedu/tuition-engine/internal/config"
	"github.com/hokedu/tuition-engine/internal/domain"
	"github.com/hokedu/tuition-engine/internal/engine"
	"github.com/hokedu/tuition-engine/internal/repository"
	customError "github.com/hokedu/tuition-engine/pkg/errors"
	"github.com/hokedu/tuition-engine/pkg/utils"
)

// TuitionService orchestrates the pure engine against storage. It is the
// single plan applier: the HTTP endpoint, the migration CLI and the
// scheduler all go through it, so the migration arithmetic lives in exactly
// one place.
//
// Callers must serialize migrations per student; the service itself does no
// optimistic locking between its snapshot reads and writes.
type TuitionService struct {
	Obligations repository.ObligationRepository
	Payments    repository.PaymentRepository
	Students    repository.StudentRepository
	Courses     repository.CourseRepository
	Cache       *cache.ScheduleCache
	Config      *config.Config
}

func NewTuitionService(
	obligations repository.ObligationRepository,
	payments repository.PaymentRepository,
	students repository.StudentRepository,
	courses repository.CourseRepository,
	scheduleCache *cache.ScheduleCache,
	cfg *config.Config,
) *TuitionService {
	return &TuitionService{
		Obligations: obligations,
		Payments:    payments,
		Students:    students,
		Courses:     courses,
		Cache:       scheduleCache,
		Config:      cfg,
	}
}

// GetSchedule returns a student's obligations for one billing year, served
// from the schedule cache when fresh.
func (s *TuitionService) GetSchedule(ctx context.Context, studentID string, year int) ([]*domain.MonthlyObligation, error) {
	if cached, ok := s.Cache.Get(ctx, studentID, year); ok {
		return cached, nil
	}

	schedule, err := s.Obligations.GetByStudentYear(ctx, studentID, year)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	// Stored status is advisory only; serve the derived one.
	for _, ob := range schedule {
		ob.Status = ob.DerivedStatus()
	}

	_ = s.Cache.Set(ctx, studentID, year, schedule)

	return schedule, nil
}

// Reconcile re-runs the FIFO allocator over a student's full payment and
// obligation history and writes back only the obligations whose paid amount
// or status actually changed.
func (s *TuitionService) Reconcile(ctx context.Context, studentID string) (*domain.ReconcileResult, error) {
	obligations, err := s.Obligations.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	payments, err := s.Payments.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	outcome := engine.Allocate(payments, obligations)

	result := &domain.ReconcileResult{StudentID: studentID, Surplus: outcome.Surplus}
	touchedYears := make(map[int]struct{})

	for _, ob := range obligations {
		alloc, ok := outcome.Results[ob.PeriodID]
		if !ok {
			continue
		}
		if alloc.Paid == ob.PaidAmount && alloc.Status == ob.Status {
			continue
		}

		if err := s.Obligations.UpdateAllocation(ctx, studentID, ob.PeriodID, alloc.Paid, alloc.Status); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		result.Updated++

		if year, _, perr := utils.ParsePeriodID(ob.PeriodID); perr == nil {
			touchedYears[year] = struct{}{}
		}
	}

	for year := range touchedYears {
		_ = s.Cache.Invalidate(ctx, studentID, year)
	}

	return result, nil
}

// GetSummary computes the canonical total/paid/remaining view for one
// student year. Percent is left unclamped; display surfaces clamp it.
func (s *TuitionService) GetSummary(ctx context.Context, studentID string, year int) (*domain.TuitionSummary, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	course, err := s.getCourse(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.GetSchedule(ctx, studentID, year)
	if err != nil {
		return nil, err
	}

	var scheduleTotal int64
	for _, ob := range schedule {
		scheduleTotal += ob.DueAmount
	}

	payments, err := s.Payments.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	totals := engine.ComputeTotals(engine.TotalsInput{
		ScheduleTotal: scheduleTotal,
		Course:        course,
		Student:       student,
		Payments:      payments,
	})

	remaining := totals.EffectiveTotal - totals.Paid
	if remaining < 0 {
		remaining = 0
	}

	return &domain.TuitionSummary{
		StudentID:      studentID,
		Year:           year,
		BaseTotal:      totals.BaseTotal,
		Discount:       totals.Discount,
		EffectiveTotal: totals.EffectiveTotal,
		Paid:           totals.Paid,
		Remaining:      remaining,
		Percent:        totals.Percent,
	}, nil
}

// MigrateYear plans the carry-over of fromYear's unpaid remainder into the
// following year and, unless dryRun is set, applies the plan.
func (s *TuitionService) MigrateYear(ctx context.Context, studentID string, fromYear int, dryRun bool) (*domain.MigrationPlan, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	course, err := s.getCourse(ctx, student.CourseID)
	if err != nil {
		return nil, err
	}

	obligations, err := s.Obligations.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	toYear := fromYear + 1
	plan := engine.PlanMigration(obligations, fromYear, toYear, s.Config.PeriodMonths(), feeTemplate(course))

	if dryRun || !plan.Migrated {
		return plan, nil
	}

	if err := s.ApplyPlan(ctx, studentID, toYear, plan); err != nil {
		return plan, err
	}

	return plan, nil
}

// ApplyPlan writes a migration plan's changes: creates for months that did
// not exist, due-amount updates with status recomputed from the unchanged
// paid amount for months that did. Months are independent write units, so
// per-month failures are collected instead of aborting the batch.
// Re-applying the same plan yields no further change.
func (s *TuitionService) ApplyPlan(ctx context.Context, studentID string, toYear int, plan *domain.MigrationPlan) error {
	if plan == nil || !plan.Migrated {
		reason := "plan is empty"
		if plan != nil && plan.Reason != "" {
			reason = plan.Reason
		}
		return customError.WrapMigrationNotApplied(reason)
	}

	existing, err := s.Obligations.GetByStudentYear(ctx, studentID, toYear)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	byPeriod := make(map[string]*domain.MonthlyObligation, len(existing))
	for _, ob := range existing {
		byPeriod[ob.PeriodID] = ob
	}

	var failures []error
	for _, change := range plan.Changes {
		periodID := utils.PeriodID(toYear, change.PeriodMonth)

		ob := byPeriod[periodID]
		if ob == nil {
			ob = &domain.MonthlyObligation{
				ID:        uuid.New(),
				StudentID: studentID,
				PeriodID:  periodID,
				DueDate:   utils.PeriodDueDate(toYear, change.PeriodMonth),
			}
		}

		ob.DueAmount = change.After
		ob.Status = ob.DerivedStatus()

		if err := s.Obligations.Upsert(ctx, ob); err != nil {
			failures = append(failures, fmt.Errorf("period %s: %w", periodID, err))
		}
	}

	_ = s.Cache.Invalidate(ctx, studentID, toYear)

	if len(failures) > 0 {
		return customError.WrapDatabaseError(errors.Join(failures...))
	}

	return nil
}

func (s *TuitionService) getStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	student, err := s.Students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapStudentNotFound(studentID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return student, nil
}

// getCourse tolerates students without a course record; fee fallbacks cover
// that case.
func (s *TuitionService) getCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	if courseID == "" {
		return nil, nil
	}
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return course, nil
}

// feeTemplate normalizes a course's raw fee configuration into the
// engine-facing template.
func feeTemplate(course *domain.Course) *domain.CourseFeeTemplate {
	tpl := &domain.CourseFeeTemplate{}
	if course == nil {
		return tpl
	}

	tpl.PricePerMonth = engine.SafeNonNegativeYen(course.PricePerMonth)

	if len(course.MonthlyTemplate) > 0 {
		tpl.Monthly = make(map[int]int64, len(course.MonthlyTemplate))
		for key, raw := range course.MonthlyTemplate {
			month, err := strconv.Atoi(key)
			if err != nil || month < 1 || month > 12 {
				continue
			}
			tpl.Monthly[month] = engine.SafeNonNegativeYen(raw)
		}
	}

	return tpl
}
