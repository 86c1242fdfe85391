package domain

import "time"

// Student carries the enrollment fields this engine reads. TuitionTotal and
// PaidAmount are legacy stored fallbacks (free-form text in the source data)
// used only when no schedule or course fee is available; they are normalized
// before use.
type Student struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CourseID     string    `json:"course_id" db:"course_id"`
	TuitionTotal string    `json:"tuition_total" db:"tuition_total"`
	PaidAmount   string    `json:"paid_amount" db:"paid_amount"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TuitionSummary is the canonical total/paid/remaining view shared by every
// display surface.
type TuitionSummary struct {
	StudentID      string  `json:"student_id"`
	Year           int     `json:"year"`
	BaseTotal      int64   `json:"base_total"`
	Discount       int64   `json:"discount"`
	EffectiveTotal int64   `json:"effective_total"`
	Paid           int64   `json:"paid"`
	Remaining      int64   `json:"remaining"`
	Percent        float64 `json:"percent"`
}
