package domain

// Course is a course record with its fee configuration. The fee fields come
// from a legacy import and may hold currency-formatted strings ("¥900,000"),
// so they stay raw here and go through the amount normalizer at read time.
type Course struct {
	ID              string            `json:"id" db:"id"`
	Name            string            `json:"name" db:"name"`
	TotalFee        string            `json:"total_fee" db:"total_fee"`
	Fee             string            `json:"fee" db:"fee"`
	Tuition         string            `json:"tuition" db:"tuition"`
	PricePerMonth   string            `json:"price_per_month" db:"price_per_month"`
	MonthlyTemplate map[string]string `json:"monthly_template" db:"-"`
}

// CourseFeeTemplate is the normalized, engine-facing view of a course's fee
// configuration. Monthly maps billing month number to a due amount; months
// absent from the map fall back to PricePerMonth.
type CourseFeeTemplate struct {
	Monthly       map[int]int64
	PricePerMonth int64
}

// MonthBase returns the template amount for a billing month: the per-month
// override when present, otherwise the flat price.
func (t *CourseFeeTemplate) MonthBase(month int) int64 {
	if t == nil {
		return 0
	}
	if amount, ok := t.Monthly[month]; ok {
		return amount
	}
	return t.PricePerMonth
}
