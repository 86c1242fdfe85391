package engine

import (
	"sort"

	"github.com/hokedu/tuition-engine/internal/domain"
)

// paymentEntry tracks how much of one payment is still unconsumed while the
// allocator walks the obligations.
type paymentEntry struct {
	id        string
	remaining int64
}

// Allocate maps payments onto monthly obligations FIFO: the oldest
// undepleted payment always funds the earliest unsatisfied obligation first.
// Obligations must arrive pre-sorted in chronological period order; payments
// are sorted here by CreatedAt ascending with a stable tie-break on input
// order. Zero-amount payments are skipped and an obligation with a
// non-positive due is immediately paid with no fragments.
//
// The function is pure. Callers diff the results against stored paid/status
// and write only what changed.
func Allocate(payments []*domain.Payment, obligations []*domain.MonthlyObligation) *domain.AllocationOutcome {
	sorted := make([]*domain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	queue := make([]*paymentEntry, 0, len(sorted))
	for _, p := range sorted {
		if p.Amount <= 0 {
			continue
		}
		queue = append(queue, &paymentEntry{id: p.ID, remaining: p.Amount})
	}

	outcome := &domain.AllocationOutcome{
		Results: make(map[string]*domain.AllocationResult, len(obligations)),
	}

	for _, ob := range obligations {
		result := &domain.AllocationResult{}

		if ob.DueAmount <= 0 {
			result.Status = domain.ObligationStatusPaid
			outcome.Results[ob.PeriodID] = result
			continue
		}

		for result.Paid < ob.DueAmount && len(queue) > 0 {
			head := queue[0]
			need := ob.DueAmount - result.Paid
			take := need
			if head.remaining < take {
				take = head.remaining
			}

			head.remaining -= take
			result.Paid += take
			result.AppliedFragments = append(result.AppliedFragments, domain.PaymentFragment{
				PaymentID:     head.id,
				AmountApplied: take,
			})

			if head.remaining == 0 {
				queue = queue[1:]
			}
		}

		result.Status = domain.DeriveStatus(result.Paid, ob.DueAmount)
		outcome.Results[ob.PeriodID] = result
	}

	for _, entry := range queue {
		outcome.Surplus += entry.remaining
	}

	return outcome
}
