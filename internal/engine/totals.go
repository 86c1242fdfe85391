package engine

import (
	"github.com/shopspring/decimal"

	"github.com/hokedu/tuition-engine/internal/domain"
)

// TotalsInput gathers every source the aggregator may draw from. All fields
// are optional; missing ones just fall through the precedence chain.
type TotalsInput struct {
	// ScheduleTotal is the explicit schedule-level total (sum of a year's
	// due amounts), strongest base-total source when positive.
	ScheduleTotal int64
	Course        *domain.Course
	Student       *domain.Student
	// Payments are summed for the paid amount when present.
	Payments []*domain.Payment
	// PaidAggregate is a pre-aggregated object (e.g. a stored counter doc)
	// consulted when no payment records are supplied. Keys "total_paid" and
	// "paid" are recognized.
	PaidAggregate map[string]interface{}
	Discount      int64
	FallbackTotal int64
}

// Totals is the canonical total/paid view consumed by every display surface.
// Percent is not clamped here; callers clamp to [0,100] before rendering.
type Totals struct {
	BaseTotal      int64
	Discount       int64
	EffectiveTotal int64
	Paid           int64
	Percent        float64
}

// ComputeTotals derives the single canonical definition of "total owed".
// Base total precedence: schedule total > course fee > student stored total
// > caller fallback > 0. The effective total never goes spuriously zero when
// a positive base exists.
func ComputeTotals(in TotalsInput) Totals {
	base := in.ScheduleTotal
	if base <= 0 {
		base = courseFee(in.Course)
	}
	if base <= 0 && in.Student != nil {
		base = SafeNonNegativeYen(in.Student.TuitionTotal)
	}
	if base <= 0 {
		base = in.FallbackTotal
	}
	if base < 0 {
		base = 0
	}

	discount := in.Discount
	if discount < 0 {
		discount = 0
	}

	effective := base - discount
	if effective <= 0 {
		effective = base
	}

	paid := paidAmount(in)

	t := Totals{
		BaseTotal:      base,
		Discount:       discount,
		EffectiveTotal: effective,
		Paid:           paid,
	}
	if effective > 0 {
		pct := decimal.NewFromInt(paid).
			Div(decimal.NewFromInt(effective)).
			Mul(decimal.NewFromInt(100)).
			Round(1)
		t.Percent = pct.InexactFloat64()
	}
	return t
}

// courseFee picks the first positive fee field off a course record.
func courseFee(c *domain.Course) int64 {
	if c == nil {
		return 0
	}
	for _, raw := range []string{c.TotalFee, c.Fee, c.Tuition, c.PricePerMonth} {
		if fee := SafeNonNegativeYen(raw); fee > 0 {
			return fee
		}
	}
	return 0
}

func paidAmount(in TotalsInput) int64 {
	var paid int64
	for _, p := range in.Payments {
		if p.Amount > 0 {
			paid += p.Amount
		}
	}
	if paid == 0 && in.PaidAggregate != nil {
		if v, ok := in.PaidAggregate["total_paid"]; ok {
			paid = SafeNonNegativeYen(v)
		}
		if paid == 0 {
			if v, ok := in.PaidAggregate["paid"]; ok {
				paid = SafeNonNegativeYen(v)
			}
		}
	}
	if paid == 0 && in.Student != nil {
		paid = SafeNonNegativeYen(in.Student.PaidAmount)
	}
	return paid
}
