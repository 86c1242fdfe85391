package domain

import "time"

// Payment is one recorded transfer. Payments are created by the receipt
// upload flow and are immutable here: the engine only reads amount and
// creation time to derive allocation fragments.
type Payment struct {
	ID               string    `json:"id" db:"id"`
	StudentID        string    `json:"student_id" db:"student_id"`
	Amount           int64     `json:"amount" db:"amount"`
	ReceiptReference string    `json:"receipt_reference,omitempty" db:"receipt_reference"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
