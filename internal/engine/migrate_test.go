package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hokedu/tuition-engine/internal/domain"
)

var billingMonths = []int{2, 3, 4, 5, 6, 7, 8, 9, 10}

func emptyTemplate() *domain.CourseFeeTemplate {
	return &domain.CourseFeeTemplate{}
}

func planTotal(changes []domain.PlanChange) int64 {
	var total int64
	for _, c := range changes {
		total += c.After
	}
	return total
}

func TestPlanMigration_NoRemainingBalance(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 86000, 86000),
		obligation("2025-03", 86000, 90000),
		obligation("2026-02", 10000, 0),
	}

	plan := PlanMigration(obligations, 2025, 2026, billingMonths, emptyTemplate())

	assert.False(t, plan.Migrated)
	assert.Equal(t, "no remaining balance for fromYear", plan.Reason)
	assert.Equal(t, int64(0), plan.AddedAmount)
	assert.Equal(t, int64(10000), plan.NewYearTotal)
	assert.Empty(t, plan.Changes)
}

func TestPlanMigration_CarryOverIntoEmptyYear(t *testing.T) {
	// One source obligation 86000 due with 30000 paid leaves 56000 to carry.
	// Nine empty destination months share it: floor(56000/9) = 6222 with
	// remainder 2, so the first two months take 6223.
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 86000, 30000),
	}

	plan := PlanMigration(obligations, 2025, 2026, billingMonths, emptyTemplate())

	assert.True(t, plan.Migrated)
	assert.Equal(t, int64(56000), plan.AddedAmount)
	assert.Equal(t, int64(56000), plan.NewYearTotal)
	require.Len(t, plan.Changes, 9)

	for i, change := range plan.Changes {
		assert.Equal(t, billingMonths[i], change.PeriodMonth)
		assert.True(t, change.Created)
		assert.Nil(t, change.Before)
		if i < 2 {
			assert.Equal(t, int64(6223), change.After)
		} else {
			assert.Equal(t, int64(6222), change.After)
		}
	}

	assert.Equal(t, int64(56000), planTotal(plan.Changes))
}

func TestPlanMigration_TemplateAndExistingBases(t *testing.T) {
	tpl := &domain.CourseFeeTemplate{
		Monthly:       map[int]int64{3: 30000},
		PricePerMonth: 10000,
	}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 9000, 0),
		obligation("2026-02", 20000, 0),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3, 4}, tpl)

	require.True(t, plan.Migrated)
	assert.Equal(t, int64(9000), plan.AddedAmount)
	// Existing due 20000 + remainder 9000.
	assert.Equal(t, int64(29000), plan.NewYearTotal)
	require.Len(t, plan.Changes, 3)

	// Bases: existing 20000, template 30000, flat 10000 = 60000; the
	// negative extra shrinks them and the third month floors at zero.
	assert.Equal(t, int64(29000), planTotal(plan.Changes))
	assert.False(t, plan.Changes[0].Created)
	require.NotNil(t, plan.Changes[0].Before)
	assert.Equal(t, int64(20000), *plan.Changes[0].Before)
	assert.True(t, plan.Changes[1].Created)
	assert.True(t, plan.Changes[2].Created)
}

func TestPlanMigration_LockedMonthNeverReduced(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 50000, 0),
		// Destination month already partially paid: locked.
		obligation("2026-02", 10000, 4000),
		obligation("2026-03", 10000, 0),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3}, emptyTemplate())

	require.True(t, plan.Migrated)
	assert.Equal(t, int64(50000), plan.AddedAmount)
	assert.Equal(t, int64(70000), plan.NewYearTotal)

	locked := plan.Changes[0]
	assert.Equal(t, 2, locked.PeriodMonth)
	assert.Equal(t, int64(10000), locked.After)

	adjustable := plan.Changes[1]
	assert.Equal(t, 3, adjustable.PeriodMonth)
	assert.Equal(t, int64(60000), adjustable.After)

	assert.Equal(t, plan.NewYearTotal, planTotal(plan.Changes))
}

func TestPlanMigration_LockedAmountCoversOverpayment(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 30000, 0),
		// Paid beyond the month's due: the lock pins at the paid amount.
		obligation("2026-02", 10000, 15000),
		obligation("2026-03", 0, 0),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3}, emptyTemplate())

	require.True(t, plan.Migrated)
	assert.Equal(t, int64(40000), plan.NewYearTotal)
	assert.Equal(t, int64(15000), plan.Changes[0].After)
	assert.Equal(t, int64(25000), plan.Changes[1].After)
}

func TestPlanMigration_LockedSumExceedsTarget(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 1000, 0),
		obligation("2026-02", 0, 50000),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3}, emptyTemplate())

	assert.False(t, plan.Migrated)
	assert.Contains(t, plan.Reason, "locked months sum")
	assert.Empty(t, plan.Changes)

	// Preview keeps the locked month and zeroes the adjustable one.
	require.Len(t, plan.Preview, 2)
	assert.Equal(t, int64(50000), plan.Preview[0].After)
	assert.Equal(t, int64(0), plan.Preview[1].After)
}

func TestPlanMigration_NoAdjustableMonths(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 1000, 0),
		obligation("2026-02", 10000, 10000),
		obligation("2026-03", 10000, 10000),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3}, emptyTemplate())

	assert.False(t, plan.Migrated)
	assert.Contains(t, plan.Reason, "no adjustable months")
	assert.Empty(t, plan.Changes)
}

func TestPlanMigration_NegativeShareFloorsAtZeroAndReconciles(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 1000, 0),
		obligation("2026-02", 10000, 50000),
		obligation("2026-03", 5000, 0),
		obligation("2026-04", 55000, 0),
	}

	plan := PlanMigration(obligations, 2025, 2026, []int{2, 3, 4}, emptyTemplate())

	require.True(t, plan.Migrated)
	// 70000 existing + 1000 carried.
	assert.Equal(t, int64(71000), plan.NewYearTotal)
	// Locked month pinned; the small adjustable month floors at zero and
	// the reconciliation pass lands the rest exactly.
	assert.Equal(t, int64(50000), plan.Changes[0].After)
	assert.Equal(t, int64(0), plan.Changes[1].After)
	assert.Equal(t, int64(21000), plan.Changes[2].After)
	assert.Equal(t, plan.NewYearTotal, planTotal(plan.Changes))

	for _, change := range plan.Changes {
		assert.GreaterOrEqual(t, change.After, int64(0))
	}
}

func TestPlanMigration_Deterministic(t *testing.T) {
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 86000, 30000),
		obligation("2025-03", 40000, 12345),
		obligation("2026-02", 20000, 5000),
	}

	first := PlanMigration(obligations, 2025, 2026, billingMonths, emptyTemplate())
	second := PlanMigration(obligations, 2025, 2026, billingMonths, emptyTemplate())

	assert.Equal(t, first, second)
}

func TestPlanMigration_ConservationAcrossInputs(t *testing.T) {
	tests := []struct {
		name        string
		obligations []*domain.MonthlyObligation
		months      []int
	}{
		{
			name: "prime remainder over nine months",
			obligations: []*domain.MonthlyObligation{
				obligation("2025-02", 100003, 0),
			},
			months: billingMonths,
		},
		{
			name: "mixed locked and existing",
			obligations: []*domain.MonthlyObligation{
				obligation("2025-02", 86000, 30000),
				obligation("2026-02", 27000, 27000),
				obligation("2026-03", 27000, 100),
				obligation("2026-04", 27000, 0),
			},
			months: billingMonths,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanMigration(tt.obligations, 2025, 2026, tt.months, emptyTemplate())
			require.True(t, plan.Migrated)
			assert.Equal(t, plan.NewYearTotal, planTotal(plan.Changes))
		})
	}
}
