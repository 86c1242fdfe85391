package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hokedu/tuition-engine/internal/domain"
)

func obligation(periodID string, due, paid int64) *domain.MonthlyObligation {
	return &domain.MonthlyObligation{
		PeriodID:   periodID,
		DueAmount:  due,
		PaidAmount: paid,
	}
}

func payment(id string, amount int64, t time.Time) *domain.Payment {
	return &domain.Payment{ID: id, Amount: amount, CreatedAt: t}
}

func TestAllocate_FIFOOrder(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{
		payment("p1", 50, t1),
		payment("p2", 100, t1.Add(time.Hour)),
	}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 80, 0),
		obligation("2025-03", 70, 0),
	}

	outcome := Allocate(payments, obligations)

	first := outcome.Results["2025-02"]
	require.NotNil(t, first)
	assert.Equal(t, int64(80), first.Paid)
	assert.Equal(t, domain.ObligationStatusPaid, first.Status)
	require.Len(t, first.AppliedFragments, 2)
	assert.Equal(t, domain.PaymentFragment{PaymentID: "p1", AmountApplied: 50}, first.AppliedFragments[0])
	assert.Equal(t, domain.PaymentFragment{PaymentID: "p2", AmountApplied: 30}, first.AppliedFragments[1])

	second := outcome.Results["2025-03"]
	require.NotNil(t, second)
	assert.Equal(t, int64(70), second.Paid)
	assert.Equal(t, domain.ObligationStatusPaid, second.Status)
	require.Len(t, second.AppliedFragments, 1)
	assert.Equal(t, domain.PaymentFragment{PaymentID: "p2", AmountApplied: 70}, second.AppliedFragments[0])

	assert.Equal(t, int64(0), outcome.Surplus)
}

func TestAllocate_SortsPaymentsByCreatedAt(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	// Later payment supplied first; allocation must still consume the
	// older one before it.
	payments := []*domain.Payment{
		payment("late", 40, t1.Add(time.Hour)),
		payment("early", 40, t1),
	}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 40, 0),
	}

	outcome := Allocate(payments, obligations)

	result := outcome.Results["2025-02"]
	require.Len(t, result.AppliedFragments, 1)
	assert.Equal(t, "early", result.AppliedFragments[0].PaymentID)
	assert.Equal(t, int64(40), outcome.Surplus)
}

func TestAllocate_PartialAndUnpaid(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{payment("p1", 30, t1)}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 80, 0),
		obligation("2025-03", 70, 0),
	}

	outcome := Allocate(payments, obligations)

	assert.Equal(t, int64(30), outcome.Results["2025-02"].Paid)
	assert.Equal(t, domain.ObligationStatusPartial, outcome.Results["2025-02"].Status)
	assert.Equal(t, int64(0), outcome.Results["2025-03"].Paid)
	assert.Equal(t, domain.ObligationStatusUnpaid, outcome.Results["2025-03"].Status)
}

func TestAllocate_ZeroAmountPaymentSkipped(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{
		payment("zero", 0, t1),
		payment("real", 50, t1.Add(time.Minute)),
	}
	obligations := []*domain.MonthlyObligation{obligation("2025-02", 50, 0)}

	outcome := Allocate(payments, obligations)

	result := outcome.Results["2025-02"]
	require.Len(t, result.AppliedFragments, 1)
	assert.Equal(t, "real", result.AppliedFragments[0].PaymentID)
}

func TestAllocate_ZeroDueObligationImmediatelyPaid(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{payment("p1", 100, t1)}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 0, 0),
		obligation("2025-03", 100, 0),
	}

	outcome := Allocate(payments, obligations)

	zero := outcome.Results["2025-02"]
	assert.Equal(t, domain.ObligationStatusPaid, zero.Status)
	assert.Empty(t, zero.AppliedFragments)

	// The payment is untouched by the zero-due month.
	assert.Equal(t, int64(100), outcome.Results["2025-03"].Paid)
}

func TestAllocate_SurplusLeftUnallocated(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{payment("p1", 500, t1)}
	obligations := []*domain.MonthlyObligation{obligation("2025-02", 120, 0)}

	outcome := Allocate(payments, obligations)

	assert.Equal(t, int64(120), outcome.Results["2025-02"].Paid)
	assert.Equal(t, int64(380), outcome.Surplus)
}

func TestAllocate_Conservation(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{
		payment("p1", 33, t1),
		payment("p2", 91, t1.Add(time.Minute)),
		payment("p3", 7, t1.Add(2*time.Minute)),
	}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 40, 0),
		obligation("2025-03", 55, 0),
		obligation("2025-04", 60, 0),
	}

	outcome := Allocate(payments, obligations)

	var totalPayments, totalApplied int64
	appliedPerPayment := make(map[string]int64)
	for _, p := range payments {
		totalPayments += p.Amount
	}
	for _, result := range outcome.Results {
		var fragTotal int64
		for _, frag := range result.AppliedFragments {
			fragTotal += frag.AmountApplied
			appliedPerPayment[frag.PaymentID] += frag.AmountApplied
		}
		assert.Equal(t, result.Paid, fragTotal)
		totalApplied += fragTotal
	}

	assert.LessOrEqual(t, totalApplied, totalPayments)
	assert.Equal(t, totalPayments, totalApplied+outcome.Surplus)
	for _, p := range payments {
		assert.LessOrEqual(t, appliedPerPayment[p.ID], p.Amount)
	}
}

func TestAllocate_Idempotent(t *testing.T) {
	t1 := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	payments := []*domain.Payment{
		payment("p1", 50, t1),
		payment("p2", 100, t1.Add(time.Hour)),
	}
	obligations := []*domain.MonthlyObligation{
		obligation("2025-02", 80, 0),
		obligation("2025-03", 70, 0),
	}

	first := Allocate(payments, obligations)
	second := Allocate(payments, obligations)

	assert.Equal(t, first, second)
}
