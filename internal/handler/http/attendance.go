package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/handler/http/middleware"
	"github.com/HansOr04/testing-sub002/internal/handler/http/response"
)

type AttendanceHandler interface {
	ReconcileDay(w http.ResponseWriter, r *http.Request)
	ReconcileRange(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	CheckRecord(w http.ResponseWriter, r *http.Request)
	RepairRecords(w http.ResponseWriter, r *http.Request)
	ApproveRecord(w http.ResponseWriter, r *http.Request)
	RejectRecord(w http.ResponseWriter, r *http.Request)
	UpdateRecord(w http.ResponseWriter, r *http.Request)
	DeleteRecord(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	reconciliationService attendance.ReconciliationService
}

func NewAttendanceHandler(reconciliationService attendance.ReconciliationService) AttendanceHandler {
	return &AttendanceHandlerImpl{reconciliationService: reconciliationService}
}

// ReconcileDay implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ReconcileDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReconcileDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reconciliationService.ReconcileDay(r.Context(), req)
	if err != nil {
		slog.Error("Failed to reconcile day", "employee_id", req.EmployeeID, "date", req.Date, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ReconcileRange implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ReconcileRange(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReconcileRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reconciliationService.ReconcileRange(r.Context(), req)
	if err != nil {
		slog.Error("Failed to reconcile range", "from", req.From, "to", req.To, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.reconciliationService.GetRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// ListRecords implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	branchID := r.URL.Query().Get("branch_id")
	if branchID == "" {
		response.BadRequest(w, "branch_id is required", nil)
		return
	}
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "to must be YYYY-MM-DD", nil)
		return
	}
	limit := queryInt(r, "limit", 50)
	page := queryInt(r, "page", 1)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}

	records, total, err := h.reconciliationService.ListRecords(r.Context(), branchID, from, to, limit, (page-1)*limit)
	if err != nil {
		slog.Error("Failed to list records", "branch_id", branchID, "error", err)
		response.HandleError(w, err)
		return
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	response.SuccessWithMeta(w, records, &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// CheckRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	issues, err := h.reconciliationService.CheckRecord(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"record_id": id,
		"issues":    issues,
	})
}

// RepairRecords implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RepairRecords(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RecordIDs []string `json:"record_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if len(req.RecordIDs) == 0 {
		response.BadRequest(w, "record_ids is required", nil)
		return
	}

	outcomes, err := h.reconciliationService.RepairRecords(r.Context(), req.RecordIDs)
	if err != nil {
		slog.Error("Failed to repair records", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, outcomes)
}

// ApproveRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ApproveRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.reconciliationService.ApproveRecord(r.Context(), id, middleware.ActorID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record approved", record)
}

// RejectRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) RejectRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.RejectRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.reconciliationService.RejectRecord(r.Context(), req, middleware.ActorID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record rejected", record)
}

// UpdateRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.reconciliationService.UpdateRecord(r.Context(), req, middleware.ActorID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record updated", record)
}

// DeleteRecord implements AttendanceHandler.
func (h *AttendanceHandlerImpl) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.reconciliationService.DeleteRecord(r.Context(), id, middleware.ActorID(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Record deleted", nil)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
