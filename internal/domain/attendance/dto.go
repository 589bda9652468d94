package attendance

import (
	"time"

	"github.com/HansOr04/testing-sub002/internal/pkg/validator"
)

// ReconcileDayRequest asks the engine to fold one employee-day's punches
// into a record.
type ReconcileDayRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *ReconcileDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReconcileRangeRequest runs reconciliation over a date range, optionally
// scoped to one branch. ChunkSize bounds memory on large ranges; zero means
// the service default.
type ReconcileRangeRequest struct {
	BranchID  *string `json:"branch_id,omitempty"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	ChunkSize int     `json:"chunk_size,omitempty"`
}

func (r *ReconcileRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.From)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be YYYY-MM-DD"})
	}
	to, okTo := validator.IsValidDate(r.To)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be YYYY-MM-DD"})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}
	if r.ChunkSize < 0 {
		errs = append(errs, validator.ValidationError{Field: "chunk_size", Message: "chunk_size must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRecordRequest is a manual correction by a reviewer. Times accept
// "15:04" (combined with the record date) or "2006-01-02 15:04:05".
type UpdateRecordRequest struct {
	ID           string  `json:"id"`
	Version      int64   `json:"version"`
	Entry        *string `json:"entry,omitempty"`
	Exit         *string `json:"exit,omitempty"`
	Entry2       *string `json:"entry2,omitempty"`
	Exit2        *string `json:"exit2,omitempty"`
	LunchMinutes *int    `json:"lunch_minutes,omitempty"`
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	ManualEntry  *bool   `json:"manual_entry,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if r.Version < 0 {
		errs = append(errs, validator.ValidationError{Field: "version", Message: "version must be non-negative"})
	}
	for field, v := range map[string]*string{"entry": r.Entry, "exit": r.Exit, "entry2": r.Entry2, "exit2": r.Exit2} {
		if v != nil && !validator.IsValidTimeOfDayOrDateTime(*v) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be HH:MM or YYYY-MM-DD HH:MM:SS"})
		}
	}
	if r.LunchMinutes != nil && *r.LunchMinutes < 0 {
		errs = append(errs, validator.ValidationError{Field: "lunch_minutes", Message: "lunch_minutes must be non-negative"})
	}
	if r.Status != nil {
		if _, err := ParseStatus(*r.Status); err != nil {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown status"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RejectRecordRequest sends a record back as inconsistent with a reason.
type RejectRecordRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (r *RejectRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DayResult is the outcome of reconciling one employee-day.
type DayResult struct {
	EmployeeID      string      `json:"employee_id"`
	Date            string      `json:"date"`
	RecordID        string      `json:"record_id,omitempty"`
	Status          Status      `json:"status,omitempty"`
	Hours           HourBuckets `json:"hours"`
	Issues          []Issue     `json:"issues,omitempty"`
	DuplicateEvents int         `json:"duplicate_events"`
	EventsForReview int         `json:"events_for_review"`
	EventsProcessed int         `json:"events_processed"`
}

// DayOutcome is one item of a batch run. Err carries the failure for that
// employee-day without aborting the rest of the batch.
type DayOutcome struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	RecordID   string  `json:"record_id,omitempty"`
	Status     Status  `json:"status,omitempty"`
	Issues     []Issue `json:"issues,omitempty"`
	Err        string  `json:"error,omitempty"`
}

// RangeResult summarizes a chunked batch reconciliation.
type RangeResult struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Outcomes  []DayOutcome `json:"outcomes"`
}

// RepairOutcome is one item of a bulk repair run.
type RepairOutcome struct {
	RecordID string  `json:"record_id"`
	Repaired bool    `json:"repaired"`
	Issues   []Issue `json:"issues,omitempty"`
	Err      string  `json:"error,omitempty"`
}

// RecordResponse is the transport shape of a record.
type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	Entry        *string `json:"entry"`
	Exit         *string `json:"exit"`
	Entry2       *string `json:"entry2,omitempty"`
	Exit2        *string `json:"exit2,omitempty"`
	LunchMinutes int     `json:"lunch_minutes"`

	Regular           float64 `json:"regular"`
	OvertimeTotal     float64 `json:"overtime_total"`
	Recargo25         float64 `json:"recargo25"`
	Suplementario50   float64 `json:"suplementario50"`
	Extraordinario100 float64 `json:"extraordinario100"`
	Nocturnas         float64 `json:"nocturnas"`

	Status      Status  `json:"status"`
	ManualEntry bool    `json:"manual_entry"`
	Notes       string  `json:"notes,omitempty"`
	ModifiedBy  *string `json:"modified_by,omitempty"`
	Version     int64   `json:"version"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ToResponse maps a record to its transport shape.
func ToResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.Format("2006-01-02"),
		Entry:             timePtrToString(rec.Entry),
		Exit:              timePtrToString(rec.Exit),
		Entry2:            timePtrToString(rec.Entry2),
		Exit2:             timePtrToString(rec.Exit2),
		LunchMinutes:      rec.LunchMinutes,
		Regular:           rec.Hours.Regular,
		OvertimeTotal:     rec.Hours.OvertimeTotal,
		Recargo25:         rec.Hours.Recargo25,
		Suplementario50:   rec.Hours.Suplementario50,
		Extraordinario100: rec.Hours.Extraordinario100,
		Nocturnas:         rec.Hours.Nocturnas,
		Status:            rec.Status,
		ManualEntry:       rec.ManualEntry,
		Notes:             rec.Notes,
		ModifiedBy:        rec.ModifiedBy,
		Version:           rec.Version,
		CreatedAt:         rec.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         rec.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}
