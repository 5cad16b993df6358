package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/creditwatch/internal/api/dto"
	"github.com/pratik-mahalle/creditwatch/internal/domain/alert"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/utils"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/validator"
)

type AlertHandler struct {
	store     alert.Store
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAlertHandler(store alert.Store, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{store: store, logger: log, validator: val}
}

// List returns alerts with filtering and pagination
// @Summary List alerts
// @Description Get a paginated list of alerts with optional filtering, newest first
// @Tags Alerts
// @Produce json
// @Param type query string false "Comma-separated alert types"
// @Param severity query string false "Comma-separated severities"
// @Param status query string false "Comma-separated statuses"
// @Param entity_id query string false "Filter by entity ID"
// @Param from query string false "Only alerts created at or after this RFC 3339 time"
// @Param to query string false "Only alerts created at or before this RFC 3339 time"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.PaginatedResponse{data=[]dto.AlertDTO} "List of alerts"
// @Failure 400 {object} utils.ErrorResponse "Invalid filter"
// @Failure 500 {object} utils.ErrorResponse "Internal server error"
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseAlertFilter(r)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	alerts, qErr := h.store.Query(r.Context(), filter)
	if qErr != nil {
		utils.WriteAppError(w, qErr, "Failed to list alerts")
		return
	}

	params := utils.ParsePaginationParams(r)
	total := int64(len(alerts))
	start := (params.Page - 1) * params.PageSize
	if start > len(alerts) {
		start = len(alerts)
	}
	end := start + params.PageSize
	if end > len(alerts) {
		end = len(alerts)
	}

	dtos := make([]dto.AlertDTO, 0, end-start)
	for _, a := range alerts[start:end] {
		dtos = append(dtos, dto.NewAlertDTO(a))
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dtos, params.Page, params.PageSize, total))
}

// Get returns a single alert by ID and marks it read
// @Summary Get alert by ID
// @Description Get a specific alert; viewing an unread alert marks it read
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} dto.AlertDTO "Alert details"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.store.Get(r.Context(), id)
	if err != nil {
		utils.WriteAppError(w, err, "Failed to get alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewAlertDTO(a))
}

// MarkRead marks an alert as read
// @Summary Mark alert as read
// @Description Mark an unread alert as read; a no-op on alerts past unread
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Alert marked as read"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.MarkAsRead(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to mark alert as read")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert marked as read", nil)
}

// MarkAllRead marks every unread alert as read
// @Summary Mark all alerts as read
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse "All alerts marked as read"
// @Router /alerts/read-all [post]
func (h *AlertHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkAllAsRead(r.Context()); err != nil {
		utils.WriteAppError(w, err, "Failed to mark alerts as read")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "All alerts marked as read", nil)
}

// Dismiss moves an alert to the dismissed state
// @Summary Dismiss alert
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Alert dismissed"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Dismiss(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to dismiss alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert dismissed", nil)
}

// Resolve moves an alert to the resolved state
// @Summary Resolve alert
// @Description Resolve an alert with an optional resolution note
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param request body dto.ResolveAlertRequest false "Resolution note"
// @Success 200 {object} utils.SuccessResponse "Alert resolved"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ResolveAlertRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteError(w, errors.BadRequest("Invalid request body"))
			return
		}
		if errs := h.validator.Validate(req); len(errs) > 0 {
			utils.WriteError(w, errors.ValidationError("Validation failed", errs))
			return
		}
	}

	if err := h.store.Resolve(r.Context(), id, req.Resolution); err != nil {
		utils.WriteAppError(w, err, "Failed to resolve alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert resolved", nil)
}

// Delete permanently removes an alert
// @Summary Delete alert
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} utils.SuccessResponse "Alert deleted"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Router /alerts/{id} [delete]
func (h *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		utils.WriteAppError(w, err, "Failed to delete alert")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alert deleted", nil)
}

// ClearAll removes every alert
// @Summary Clear all alerts
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse "Alerts cleared"
// @Router /alerts [delete]
func (h *AlertHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context()); err != nil {
		utils.WriteAppError(w, err, "Failed to clear alerts")
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Alerts cleared", nil)
}

// Summary returns alert counts
// @Summary Alert summary
// @Description Counts of alerts by severity, type, and read state
// @Tags Alerts
// @Produce json
// @Success 200 {object} dto.AlertSummaryDTO "Alert summary"
// @Router /alerts/summary [get]
func (h *AlertHandler) Summary(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.store.Query(r.Context(), alert.Filter{})
	if err != nil {
		utils.WriteAppError(w, err, "Failed to summarize alerts")
		return
	}

	summary := dto.AlertSummaryDTO{
		Total:          len(alerts),
		Unread:         h.store.UnreadCount(r.Context()),
		CriticalUnread: h.store.CriticalUnreadCount(r.Context()),
		BySeverity:     make(map[string]int),
		ByType:         make(map[string]int),
	}
	for _, a := range alerts {
		summary.BySeverity[string(a.Severity)]++
		summary.ByType[string(a.Type)]++
	}

	utils.WriteSuccess(w, http.StatusOK, summary)
}

// parseAlertFilter builds an alert filter from query parameters.
func parseAlertFilter(r *http.Request) (alert.Filter, *errors.AppError) {
	q := r.URL.Query()
	var f alert.Filter

	for _, raw := range splitCSV(q.Get("type")) {
		t := alert.Type(raw)
		if !t.IsValid() {
			return f, errors.BadRequest("Unknown alert type: " + raw)
		}
		f.Types = append(f.Types, t)
	}
	for _, raw := range splitCSV(q.Get("severity")) {
		s := alert.Severity(raw)
		if s.Rank() == 0 {
			return f, errors.BadRequest("Unknown severity: " + raw)
		}
		f.Severities = append(f.Severities, s)
	}
	for _, raw := range splitCSV(q.Get("status")) {
		switch st := alert.Status(raw); st {
		case alert.StatusUnread, alert.StatusRead, alert.StatusDismissed, alert.StatusResolved:
			f.Statuses = append(f.Statuses, st)
		default:
			return f, errors.BadRequest("Unknown status: " + raw)
		}
	}

	f.EntityID = q.Get("entity_id")

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.BadRequest("Invalid 'from' timestamp")
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, errors.BadRequest("Invalid 'to' timestamp")
		}
		f.To = &t
	}

	return f, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
