package attendance

import "errors"

// Attendance domain errors. These are contract or infrastructure faults;
// data-quality findings travel as Issue values instead (see issue.go).
var (
	ErrRecordNotFound        = errors.New("attendance record not found")
	ErrRecordDeleted         = errors.New("attendance record is deleted")
	ErrVersionConflict       = errors.New("attendance record was modified concurrently")
	ErrInvalidTransition     = errors.New("invalid attendance status transition")
	ErrMissingEmployee       = errors.New("attendance record has no employee reference")
	ErrIncompleteForApproval = errors.New("cannot approve a record with an unresolved entry/exit pair")
	ErrEmptyPatch            = errors.New("update contains no fields")
)
