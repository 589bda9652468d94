package punch

import (
	"context"
	"time"
)

// EventRepository is the punch-event store collaborator. The engine consumes
// this contract and never implements device transport itself.
type EventRepository interface {
	// Create stores a decoded punch event (device ingestion side).
	Create(ctx context.Context, event Event) (Event, error)

	// GetUnprocessed returns the full unprocessed event set for an
	// employee-day. Classification requires the day's complete set, so the
	// caller must not stream partial results.
	GetUnprocessed(ctx context.Context, employeeID string, date time.Time) ([]Event, error)

	// ListEmployeesWithUnprocessed returns the employee ids that have
	// unprocessed events on the given date, optionally scoped to a branch.
	ListEmployeesWithUnprocessed(ctx context.Context, date time.Time, branchID *string) ([]string, error)

	// MarkProcessed links a batch of events to the attendance record they
	// were folded into. Marking an already-processed event again is a no-op,
	// which keeps chunked commits idempotent.
	MarkProcessed(ctx context.Context, eventIDs []string, recordID string) error
}
