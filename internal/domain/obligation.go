package domain

import (
	"time"

	"github.com/google/uuid"
)

// Obligation status is always derived from the amounts, never read back
// from storage as truth.
const (
	ObligationStatusUnpaid  = "unpaid"
	ObligationStatusPartial = "partial"
	ObligationStatusPaid    = "paid"
)

// MonthlyObligation represents one month's tuition installment.
// PeriodID is "{year}-{month:02d}"; amounts are whole yen.
type MonthlyObligation struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	PeriodID   string    `json:"period_id" db:"period_id"`
	DueDate    time.Time `json:"due_date" db:"due_date"`
	DueAmount  int64     `json:"due_amount" db:"due_amount"`
	PaidAmount int64     `json:"paid_amount" db:"paid_amount"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// DeriveStatus computes the canonical status from paid and due amounts.
func DeriveStatus(paidAmount, dueAmount int64) string {
	if paidAmount >= dueAmount {
		return ObligationStatusPaid
	}
	if paidAmount <= 0 {
		return ObligationStatusUnpaid
	}
	return ObligationStatusPartial
}

// DerivedStatus returns the status implied by the obligation's amounts,
// ignoring whatever was stored.
func (o *MonthlyObligation) DerivedStatus() string {
	return DeriveStatus(o.PaidAmount, o.DueAmount)
}

// Remaining returns the unpaid balance of the obligation, floored at zero.
func (o *MonthlyObligation) Remaining() int64 {
	if r := o.DueAmount - o.PaidAmount; r > 0 {
		return r
	}
	return 0
}

type ScheduleResponse struct {
	StudentID string               `json:"student_id"`
	Year      int                  `json:"year"`
	Schedule  []*MonthlyObligation `json:"schedule"`
}
