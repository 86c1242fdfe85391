package engine

import (
	"fmt"

	"github.com/hokedu/tuition-engine/internal/domain"
	"github.com/hokedu/tuition-engine/pkg/utils"
)

// PlanMigration computes a non-destructive plan carrying the unpaid
// remainder of fromYear into toYear's billing months. Months of the
// destination year that already have money on them are locked: their due
// amount is never reduced below what was paid. The remainder lands on the
// adjustable months in equal shares, with the leftover units going to the
// earliest months, and a final reconciliation pass guarantees the new
// schedule sums exactly to the target total.
//
// The planner performs no I/O and is deterministic, so it is safe to call
// repeatedly for previews before a caller commits the writes.
func PlanMigration(obligations []*domain.MonthlyObligation, fromYear, toYear int, periodMonths []int, tpl *domain.CourseFeeTemplate) *domain.MigrationPlan {
	var fromObs []*domain.MonthlyObligation
	toObs := make(map[int]*domain.MonthlyObligation)

	for _, ob := range obligations {
		year, month, err := utils.ParsePeriodID(ob.PeriodID)
		if err != nil {
			continue
		}
		switch year {
		case fromYear:
			fromObs = append(fromObs, ob)
		case toYear:
			toObs[month] = ob
		}
	}

	var remaining int64
	for _, ob := range fromObs {
		remaining += ob.Remaining()
	}

	var existingToTotal int64
	for _, ob := range toObs {
		existingToTotal += ob.DueAmount
	}

	if remaining <= 0 {
		return &domain.MigrationPlan{
			Migrated:     false,
			AddedAmount:  0,
			NewYearTotal: existingToTotal,
			Reason:       "no remaining balance for fromYear",
		}
	}

	newYearTotal := existingToTotal + remaining

	type monthState struct {
		month        int
		existing     *domain.MonthlyObligation
		base         int64
		locked       bool
		lockedAmount int64
		after        int64
	}

	months := make([]*monthState, 0, len(periodMonths))
	var lockedTotal int64
	for _, m := range periodMonths {
		st := &monthState{month: m}
		if existing, ok := toObs[m]; ok {
			st.existing = existing
			st.base = existing.DueAmount
			if existing.PaidAmount > 0 {
				st.locked = true
				st.lockedAmount = existing.DueAmount
				if existing.PaidAmount > st.lockedAmount {
					st.lockedAmount = existing.PaidAmount
				}
				lockedTotal += st.lockedAmount
			}
		} else {
			st.base = tpl.MonthBase(m)
		}
		months = append(months, st)
	}

	if lockedTotal > newYearTotal {
		preview := make([]domain.PlanChange, 0, len(months))
		for _, st := range months {
			after := int64(0)
			if st.locked {
				after = st.lockedAmount
			}
			preview = append(preview, planChange(st.month, st.existing, after))
		}
		return &domain.MigrationPlan{
			Migrated:     false,
			AddedAmount:  remaining,
			NewYearTotal: newYearTotal,
			Reason:       fmt.Sprintf("locked months sum %d exceeds target total %d", lockedTotal, newYearTotal),
			Preview:      preview,
		}
	}

	var adjustable []*monthState
	var adjustableBase int64
	for _, st := range months {
		if st.locked {
			st.after = st.lockedAmount
			continue
		}
		adjustable = append(adjustable, st)
		adjustableBase += st.base
	}

	remainingForAdjust := newYearTotal - lockedTotal

	if len(adjustable) == 0 && remainingForAdjust != 0 {
		return &domain.MigrationPlan{
			Migrated:     false,
			AddedAmount:  remaining,
			NewYearTotal: newYearTotal,
			Reason:       fmt.Sprintf("no adjustable months to absorb remaining balance %d", remainingForAdjust),
		}
	}

	if n := int64(len(adjustable)); n > 0 {
		extra := remainingForAdjust - adjustableBase
		share := extra / n
		rem := extra - share*n

		for i, st := range adjustable {
			after := st.base + share
			if rem > 0 && int64(i) < rem {
				after++
			} else if rem < 0 && int64(i) < -rem {
				after--
			}
			if after < 0 {
				after = 0
			}
			st.after = after
		}

		// Flooring at zero can leave the sum off target; nudge the earliest
		// adjustable months one yen at a time until conservation is exact.
		var total int64
		for _, st := range months {
			total += st.after
		}
		for residual := newYearTotal - total; residual != 0; {
			progressed := false
			for _, st := range adjustable {
				if residual == 0 {
					break
				}
				if residual > 0 {
					st.after++
					residual--
					progressed = true
				} else if st.after > 0 {
					st.after--
					residual++
					progressed = true
				}
			}
			if !progressed {
				break
			}
		}
	}

	changes := make([]domain.PlanChange, 0, len(months))
	migrated := false
	for _, st := range months {
		change := planChange(st.month, st.existing, st.after)
		if change.Created || *change.Before != change.After {
			migrated = true
		}
		changes = append(changes, change)
	}

	return &domain.MigrationPlan{
		Migrated:     migrated,
		AddedAmount:  remaining,
		NewYearTotal: newYearTotal,
		Changes:      changes,
	}
}

func planChange(month int, existing *domain.MonthlyObligation, after int64) domain.PlanChange {
	change := domain.PlanChange{
		PeriodMonth: month,
		After:       after,
		Created:     existing == nil,
	}
	if existing != nil {
		before := existing.DueAmount
		change.Before = &before
	}
	return change
}
