package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/hokedu/tuition-engine/internal/config"
	"github.com/hokedu/tuition-engine/internal/domain"
	"github.com/hokedu/tuition-engine/internal/service"
	customError "github.com/hokedu/tuition-engine/pkg/errors"
	"github.com/hokedu/tuition-engine/pkg/response"
	"github.com/hokedu/tuition-engine/pkg/utils"
)

type TuitionHandler struct {
	service   *service.TuitionService
	config    *config.Config
	validator *validator.Validate
}

func NewTuitionHandler(svc *service.TuitionService, cfg *config.Config) *TuitionHandler {
	return &TuitionHandler{
		service:   svc,
		config:    cfg,
		validator: validator.New(),
	}
}

// GetSchedule returns a student's obligations for one billing year.
func (h *TuitionHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]
	year := h.yearParam(r)

	schedule, err := h.service.GetSchedule(r.Context(), studentID, year)
	if err != nil {
		response.InternalServerError(w, "Failed to load schedule", err)
		return
	}

	response.Success(w, domain.ScheduleResponse{
		StudentID: studentID,
		Year:      year,
		Schedule:  schedule,
	})
}

// GetSummary returns the canonical tuition totals view for one student year.
func (h *TuitionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]
	year := h.yearParam(r)

	summary, err := h.service.GetSummary(r.Context(), studentID, year)
	if err != nil {
		if errors.Is(err, customError.ErrStudentNotFound) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalServerError(w, "Failed to compute summary", err)
		return
	}

	// The aggregator leaves the percentage unclamped; clamp here so a
	// progress bar never renders outside 0..100.
	if summary.Percent < 0 {
		summary.Percent = 0
	} else if summary.Percent > 100 {
		summary.Percent = 100
	}

	response.Success(w, summary)
}

// Reconcile re-runs payment allocation against the student's schedule.
func (h *TuitionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	result, err := h.service.Reconcile(r.Context(), studentID)
	if err != nil {
		response.InternalServerError(w, "Failed to reconcile payments", err)
		return
	}

	response.Success(w, result)
}

// Migrate plans and (unless dry_run) applies the year-end balance carry-over.
func (h *TuitionHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]

	var req domain.MigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Invalid migration request", err)
		return
	}

	plan, err := h.service.MigrateYear(r.Context(), studentID, req.FromYear, req.DryRun)
	if err != nil {
		if errors.Is(err, customError.ErrStudentNotFound) {
			response.NotFound(w, "Student not found")
			return
		}
		response.InternalServerError(w, "Failed to migrate balance", err)
		return
	}

	response.Success(w, domain.MigrateResponse{
		Migrated:     plan.Migrated,
		AddedAmount:  plan.AddedAmount,
		NewYearTotal: plan.NewYearTotal,
		Reason:       plan.Reason,
		Changes:      plan.Changes,
	})
}

// yearParam reads ?year=YYYY, defaulting to the current fiscal year.
func (h *TuitionHandler) yearParam(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 2000 && year < 3000 {
			return year
		}
	}
	return utils.FiscalYear(time.Now(), h.config.Billing.FiscalStartMonth)
}
