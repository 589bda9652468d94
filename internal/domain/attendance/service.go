package attendance

import (
	"context"
	"time"
)

// ReconciliationService turns raw punch events into validated, classified
// daily attendance records and owns the manual review operations.
type ReconciliationService interface {
	// ReconcileDay folds one employee-day's unprocessed punches into a
	// record: match, classify, check, repair, persist, mark processed.
	// Idempotent per employee-day.
	ReconcileDay(ctx context.Context, req ReconcileDayRequest) (DayResult, error)

	// ReconcileRange runs ReconcileDay over every employee-day with
	// unprocessed punches in the range, in bounded chunks with per-item
	// outcomes. Cancellation is honored between chunks.
	ReconcileRange(ctx context.Context, req ReconcileRangeRequest) (RangeResult, error)

	// CheckRecord runs the consistency checker on a stored record without
	// mutating it.
	CheckRecord(ctx context.Context, id string) ([]Issue, error)

	// RepairRecords applies the deterministic repair transforms to each
	// record, reporting a per-item outcome list.
	RepairRecords(ctx context.Context, ids []string) ([]RepairOutcome, error)

	// GetRecord returns one record by id.
	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	// ListRecords returns a branch's records for a date range, paginated.
	ListRecords(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]RecordResponse, int64, error)

	// ApproveRecord moves a resolved record to COMPLETE.
	ApproveRecord(ctx context.Context, id string, approvedBy string) (RecordResponse, error)

	// RejectRecord sends a record to INCONSISTENT with a reason.
	RejectRecord(ctx context.Context, req RejectRecordRequest, rejectedBy string) (RecordResponse, error)

	// UpdateRecord applies a manual correction under an optimistic version
	// check and reclassifies the hours from the corrected punches.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest, modifiedBy string) (RecordResponse, error)

	// DeleteRecord soft-deletes a record.
	DeleteRecord(ctx context.Context, id string, deletedBy string) error
}
