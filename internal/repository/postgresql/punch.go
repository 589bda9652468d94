package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/punch"
	"github.com/HansOr04/testing-sub002/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.EventRepository {
	return &punchRepository{db: db}
}

// Create implements punch.EventRepository.
func (p *punchRepository) Create(ctx context.Context, event punch.Event) (punch.Event, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		INSERT INTO punch_events (
			employee_id, device_id, timestamp, movement, confidence, processed
		) VALUES (
			$1, $2, $3, $4, $5, FALSE
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.EmployeeID,
		event.DeviceID,
		event.Timestamp,
		string(event.Movement),
		event.Confidence,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return punch.Event{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetUnprocessed implements punch.EventRepository. Returns the complete
// unprocessed set for the employee-day; classification must never run on a
// partial set.
func (p *punchRepository) GetUnprocessed(ctx context.Context, employeeID string, date time.Time) ([]punch.Event, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT id, employee_id, device_id, timestamp, movement, confidence, processed, record_id, created_at
		FROM punch_events
		WHERE employee_id = $1
		  AND timestamp >= $2
		  AND timestamp < $2 + INTERVAL '1 day'
		  AND processed = FALSE
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed punch events: %w", err)
	}
	defer rows.Close()

	var events []punch.Event
	for rows.Next() {
		var ev punch.Event
		var movement string
		err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.DeviceID, &ev.Timestamp, &movement, &ev.Confidence, &ev.Processed, &ev.RecordID, &ev.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch event: %w", err)
		}
		ev.Movement = punch.MovementType(movement)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read punch events: %w", err)
	}

	return events, nil
}

// ListEmployeesWithUnprocessed implements punch.EventRepository.
func (p *punchRepository) ListEmployeesWithUnprocessed(ctx context.Context, date time.Time, branchID *string) ([]string, error) {
	q := GetQuerier(ctx, p.db)

	query := `
		SELECT DISTINCT pe.employee_id
		FROM punch_events pe
		WHERE pe.timestamp >= $1
		  AND pe.timestamp < $1 + INTERVAL '1 day'
		  AND pe.processed = FALSE
	`
	args := []interface{}{date}
	if branchID != nil {
		query += `
		  AND pe.employee_id IN (SELECT id FROM employees WHERE branch_id = $2)`
		args = append(args, *branchID)
	}
	query += `
		ORDER BY pe.employee_id ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with unprocessed events: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee ids: %w", err)
	}

	return ids, nil
}

// MarkProcessed implements punch.EventRepository. Re-marking an already
// processed event is a no-op, which keeps chunked commits idempotent.
func (p *punchRepository) MarkProcessed(ctx context.Context, eventIDs []string, recordID string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	q := GetQuerier(ctx, p.db)

	query := `
		UPDATE punch_events SET
			processed = TRUE,
			record_id = $1
		WHERE id = ANY($2)
		  AND processed = FALSE
	`

	if _, err := q.Exec(ctx, query, recordID, eventIDs); err != nil {
		return fmt.Errorf("failed to mark punch events processed: %w", err)
	}
	return nil
}
