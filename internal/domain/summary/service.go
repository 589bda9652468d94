package summary

import "context"

// Service folds committed attendance records into periodic summaries and
// trend series. It never touches raw punches; partial aggregates merge
// without reprocessing.
type Service interface {
	// GetSummary returns grouped totals for a date range.
	GetSummary(ctx context.Context, req SummaryRequest) (SummaryReport, error)

	// GetTrend returns the same fold per sub-window, ordered ascending.
	GetTrend(ctx context.Context, req TrendRequest) (TrendReport, error)
}
