package attendance

import (
	"context"
	"time"
)

// RecordRepository is the record-store collaborator. The engine owns a
// record only until it is committed here; afterwards it works on copies.
type RecordRepository interface {
	// Create stores a new record and returns it with id and timestamps set.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByID retrieves a record, including soft-deleted ones so repair can
	// stay idempotent.
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByEmployeeAndDate returns the live record for an employee-day, or
	// nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// ListByEmployeeRange returns live records for an employee between two
	// dates, both inclusive, ordered by date ascending.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)

	// ListByBranchRange returns live records for every employee of a branch
	// in the range, with offset pagination.
	ListByBranchRange(ctx context.Context, branchID string, from, to time.Time, limit, offset int) ([]Record, int64, error)

	// Update persists rec with an optimistic check against expectedVersion
	// and returns ErrVersionConflict when the stored version differs.
	Update(ctx context.Context, rec Record, expectedVersion int64) (Record, error)

	// ApplyPatch applies a typed partial update under the same optimistic
	// version check.
	ApplyPatch(ctx context.Context, id string, expectedVersion int64, patch Patch, modifiedBy string) (Record, error)

	// SoftDelete marks a record deleted. Records are never hard-deleted.
	SoftDelete(ctx context.Context, id string, deletedBy string) error

	// FindDuplicateCandidates returns all live records for the same
	// employee-day, ordered by creation time ascending, for duplicate-group
	// detection.
	FindDuplicateCandidates(ctx context.Context, employeeID string, date time.Time) ([]Record, error)
}
