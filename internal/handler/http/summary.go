package http

import (
	"log/slog"
	"net/http"

	"github.com/HansOr04/testing-sub002/internal/domain/summary"
	"github.com/HansOr04/testing-sub002/internal/handler/http/response"
)

type SummaryHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetTrend(w http.ResponseWriter, r *http.Request)
}

type SummaryHandlerImpl struct {
	summaryService summary.Service
}

func NewSummaryHandler(summaryService summary.Service) SummaryHandler {
	return &SummaryHandlerImpl{summaryService: summaryService}
}

// GetSummary implements SummaryHandler.
func (h *SummaryHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := summaryRequestFromQuery(r)

	report, err := h.summaryService.GetSummary(r.Context(), req)
	if err != nil {
		slog.Error("Failed to build summary", "group_by", req.GroupBy, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// GetTrend implements SummaryHandler.
func (h *SummaryHandlerImpl) GetTrend(w http.ResponseWriter, r *http.Request) {
	req := summary.TrendRequest{
		SummaryRequest: summaryRequestFromQuery(r),
		Window:         summary.Window(r.URL.Query().Get("window")),
	}

	report, err := h.summaryService.GetTrend(r.Context(), req)
	if err != nil {
		slog.Error("Failed to build trend", "group_by", req.GroupBy, "window", req.Window, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

func summaryRequestFromQuery(r *http.Request) summary.SummaryRequest {
	req := summary.SummaryRequest{
		GroupBy: summary.GroupBy(r.URL.Query().Get("group_by")),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
	}
	if branchID := r.URL.Query().Get("branch_id"); branchID != "" {
		req.BranchID = &branchID
	}
	return req
}
