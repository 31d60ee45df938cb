/*
handlers.go - HTTP API handlers for the duty roster engine

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the service layer.

ENDPOINTS:
  Months:
    GET    /api/months/{month}                    Full month view
    POST   /api/months/{month}/allocate           Full reallocation (?commit=true to write)
    POST   /api/months/{month}/fill               Assign only pending days
    GET    /api/months/{month}/quotas             Quota simulation
    POST   /api/months/{month}/reset              Clear the month

  Days:
    PUT    /api/months/{month}/days/{day}         Manual assignment (force flag in body)
    DELETE /api/months/{month}/days/{day}         Clear one day
    POST   /api/months/{month}/days/{day}/claim   Self-service claim
    GET    /api/months/{month}/days/{day}/suggestion  Engine's pick for the day

  Persons:
    GET    /api/persons                           Roster in seniority order
    GET    /api/persons/active                    Available persons (?date=YYYY-MM-DD)
    GET    /api/persons/{person}/stats            Full-year statistics

  Availability:
    GET    /api/availability                      All records with derived status
    PUT    /api/availability/{person}             Update one record

  Validation and reports:
    GET    /api/assignments/validate              Dry-run check (?month&day&person)
    GET    /api/reports/distribution              Fairness report (?month, ?active_only)
    GET    /api/reports/annual                    Year-wide coverage

  Audit:
    GET    /api/history                           Recent events (?limit)

  Meta:
    GET    /api/info                              Engine configuration
    GET    /api/health                            Liveness probe

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown person or month
  - 409: Availability conflict, occupied day
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - roster/service.go: The operations these delegate to
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/centinela/guardia-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *roster.Service
}

// NewHandler creates a new handler around the service.
func NewHandler(svc *roster.Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) (time.Month, bool) {
	raw := chi.URLParam(r, "month")
	month, ok := parseMonth(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid month: "+raw, nil)
	}
	return month, ok
}

func (h *Handler) day(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "day")
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 || day > 31 {
		writeError(w, http.StatusBadRequest, "Invalid day: "+raw, nil)
		return 0, false
	}
	return day, true
}

// writeServiceError maps engine errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case roster.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case roster.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// MONTH HANDLERS
// =============================================================================

// GetMonth returns the full month view.
func (h *Handler) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	view, err := h.Service.BuildMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthDTO(h.Service.Calendar().Year(), view))
}

// AllocateMonth runs a full reallocation. Preview by default; ?commit=true
// writes the plan.
func (h *Handler) AllocateMonth(w http.ResponseWriter, r *http.Request) {
	h.runAllocation(w, r, h.Service.AllocateMonth)
}

// FillPending assigns only the unassigned days of the month.
func (h *Handler) FillPending(w http.ResponseWriter, r *http.Request) {
	h.runAllocation(w, r, h.Service.FillPending)
}

func (h *Handler) runAllocation(w http.ResponseWriter, r *http.Request,
	run func(ctx context.Context, month time.Month, commit bool) (*roster.AllocationPlan, error)) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	commit := r.URL.Query().Get("commit") == "true"
	plan, err := run(r.Context(), month, commit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanDTO(plan, commit))
}

// GetQuotas returns the quota simulation for the month.
func (h *Handler) GetQuotas(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	preview, err := h.Service.Quotas(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuotaPreviewDTO(preview))
}

// ResetMonth clears every assignment in the month.
func (h *Handler) ResetMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	res, err := h.Service.ResetMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResetDTO{
		Month:   monthName(res.Month),
		Removed: res.Removed,
		Persons: res.Persons,
	})
}

// =============================================================================
// DAY HANDLERS
// =============================================================================

// AssignDay writes a person onto a day.
func (h *Handler) AssignDay(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	day, ok := h.day(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Person == "" {
		writeError(w, http.StatusBadRequest, "Missing person", nil)
		return
	}
	res, err := h.Service.Assign(r.Context(), month, day, req.Person, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(res))
}

// ClaimDay lets a person claim an open day for themselves.
func (h *Handler) ClaimDay(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	day, ok := h.day(w, r)
	if !ok {
		return
	}
	var req SelfAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Person == "" {
		writeError(w, http.StatusBadRequest, "Missing person", nil)
		return
	}
	res, err := h.Service.SelfAssign(r.Context(), month, day, req.Person)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(res))
}

// RemoveDay clears a day's assignment.
func (h *Handler) RemoveDay(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	day, ok := h.day(w, r)
	if !ok {
		return
	}
	res, err := h.Service.Remove(r.Context(), month, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RemoveDTO{
		Month:  monthName(res.Month),
		Day:    res.Day,
		Person: res.Person,
	})
}

// SuggestDay returns the engine's pick for a day. Query param "excluding"
// may be repeated to skip persons.
func (h *Handler) SuggestDay(w http.ResponseWriter, r *http.Request) {
	month, ok := h.month(w, r)
	if !ok {
		return
	}
	day, ok := h.day(w, r)
	if !ok {
		return
	}
	excluding := r.URL.Query()["excluding"]
	res, err := h.Service.Suggest(r.Context(), month, day, excluding)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestionDTO{
		Found:  res.Found,
		Person: res.Person,
		Date:   res.Date,
		Active: res.Active,
	})
}

// =============================================================================
// PERSON HANDLERS
// =============================================================================

// ListPersons returns the roster in seniority order.
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	members := h.Service.Roster()
	dtos := make([]PersonDTO, len(members))
	for i, p := range members {
		dtos[i] = PersonDTO{Name: p.Name, Rank: p.Rank, RegistryID: p.RegistryID}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListActivePersons returns persons available on ?date (general status
// when the date is omitted).
func (h *Handler) ListActivePersons(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	persons, err := h.Service.ActivePersons(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]PersonDTO, len(persons))
	for i, p := range persons {
		dtos[i] = PersonDTO{Name: p.Name, Rank: p.Rank, RegistryID: p.RegistryID}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPersonStats returns a person's full-year statistics.
func (h *Handler) GetPersonStats(w http.ResponseWriter, r *http.Request) {
	person := chi.URLParam(r, "person")
	stats, err := h.Service.PersonStats(r.Context(), person)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPersonStatsDTO(stats))
}

// =============================================================================
// AVAILABILITY HANDLERS
// =============================================================================

// ListAvailability returns every roster person's availability state.
func (h *Handler) ListAvailability(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.Service.AvailabilityAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityDTOs(statuses))
}

// SetAvailability replaces one person's availability record.
func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	person := chi.URLParam(r, "person")
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	for _, raw := range []string{req.From, req.To} {
		if raw == "" {
			continue
		}
		if _, err := time.Parse(roster.DateLayout, raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}
	rec := roster.AvailabilityRecord{
		Active: req.Active,
		Reason: req.Reason,
		From:   req.From,
		To:     req.To,
	}
	if err := h.Service.SetAvailability(r.Context(), person, rec); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityDTO{
		Person: person,
		Active: rec.Active,
		Reason: rec.Reason,
		From:   rec.From,
		To:     rec.To,
	})
}

// =============================================================================
// VALIDATION AND REPORT HANDLERS
// =============================================================================

// ValidateAssignment dry-runs an assignment check.
// GET /api/assignments/validate?month=Enero&day=10&person=TN+MACHUCA
func (h *Handler) ValidateAssignment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, ok := parseMonth(q.Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid month: "+q.Get("month"), nil)
		return
	}
	day, err := strconv.Atoi(q.Get("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day: "+q.Get("day"), err)
		return
	}
	person := q.Get("person")
	if person == "" {
		writeError(w, http.StatusBadRequest, "Missing person", nil)
		return
	}
	res, err := h.Service.ValidateAssignment(r.Context(), month, day, person)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidationDTO{
		Valid:  res.Valid,
		Person: res.Person,
		Date:   res.Date,
		Reason: res.Reason,
	})
}

// GetDistribution returns the fairness report. ?month narrows the output;
// ?active_only=false includes inactive persons.
func (h *Handler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var month *time.Month
	if raw := q.Get("month"); raw != "" {
		m, ok := parseMonth(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid month: "+raw, nil)
			return
		}
		month = &m
	}
	activeOnly := q.Get("active_only") != "false"
	report, err := h.Service.Distribution(r.Context(), month, activeOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDistributionDTOs(report, h.Service.Roster()))
}

// GetAnnualReport returns the year-wide coverage report.
func (h *Handler) GetAnnualReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Annual(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnnualReportDTO(h.Service.Calendar().Year(), report, h.Service.Roster()))
}

// =============================================================================
// AUDIT AND META HANDLERS
// =============================================================================

// GetHistory returns recent audit events, newest first.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "Invalid limit: "+raw, err)
			return
		}
		limit = n
	}
	events, err := h.Service.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTOs(events))
}

// GetInfo describes the configured engine.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	var info InfoDTO
	info.Year = h.Service.Calendar().Year()
	info.RosterSize = len(h.Service.Roster())
	info.Persons = h.Service.Roster().Names()
	if active, err := h.Service.ActivePersons(r.Context(), ""); err == nil {
		info.Active = len(active)
		info.Inactive = info.RosterSize - len(active)
	}
	info.Weights.Regular = roster.DayRegular.Weight().InexactFloat64()
	info.Weights.PreHoliday = roster.DayPreHoliday.Weight().InexactFloat64()
	info.Weights.Holiday = roster.DayHoliday.Weight().InexactFloat64()
	writeJSON(w, http.StatusOK, info)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
