package domain

// PaymentFragment records how much of a single payment was applied to one
// obligation.
type PaymentFragment struct {
	PaymentID     string `json:"payment_id"`
	AmountApplied int64  `json:"amount_applied"`
}

// AllocationResult is the per-obligation output of the payment allocator.
// It is never persisted as its own entity; Paid and Status are written back
// onto the matching MonthlyObligation when they differ from stored state.
type AllocationResult struct {
	Paid             int64             `json:"paid"`
	Status           string            `json:"status"`
	AppliedFragments []PaymentFragment `json:"applied_fragments"`
}

// AllocationOutcome maps period IDs to their allocation results. Surplus is
// payment money left after every due is satisfied; it stays unallocated
// (no credit or refund modeling).
type AllocationOutcome struct {
	Results map[string]*AllocationResult `json:"results"`
	Surplus int64                        `json:"surplus"`
}

// ReconcileResult summarizes a reconcile run against stored obligations.
type ReconcileResult struct {
	StudentID string `json:"student_id"`
	Updated   int    `json:"updated"`
	Surplus   int64  `json:"surplus"`
}
