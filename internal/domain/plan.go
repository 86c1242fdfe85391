package domain

// PlanChange is one month's create-or-update in a migration plan. Before is
// nil when no obligation existed for the month.
type PlanChange struct {
	PeriodMonth int    `json:"period_month"`
	Before      *int64 `json:"before"`
	After       int64  `json:"after"`
	Created     bool   `json:"created"`
}

// MigrationPlan is the ephemeral output of the migration planner. It is
// consumed by a plan applier and never persisted itself. When the plan is
// unsatisfiable, Migrated is false, Reason explains why and Preview (if set)
// shows what the destination year would look like with locked months
// preserved and adjustable months zeroed.
type MigrationPlan struct {
	Migrated     bool         `json:"migrated"`
	AddedAmount  int64        `json:"added_amount"`
	NewYearTotal int64        `json:"new_year_total"`
	Changes      []PlanChange `json:"changes"`
	Reason       string       `json:"reason,omitempty"`
	Preview      []PlanChange `json:"preview,omitempty"`
}

type MigrateRequest struct {
	FromYear int  `json:"from_year" validate:"required,gt=2000,lt=3000"`
	DryRun   bool `json:"dry_run"`
}

type MigrateResponse struct {
	Migrated     bool         `json:"migrated"`
	AddedAmount  int64        `json:"added_amount"`
	NewYearTotal int64        `json:"new_year_total"`
	Reason       string       `json:"reason,omitempty"`
	Changes      []PlanChange `json:"changes,omitempty"`
}
