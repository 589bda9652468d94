package response

import (
	"errors"
	"net/http"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/master"
	"github.com/HansOr04/testing-sub002/internal/domain/punch"
	"github.com/HansOr04/testing-sub002/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRecordDeleted):
		Conflict(w, "Attendance record is deleted")
	case errors.Is(err, attendance.ErrVersionConflict):
		Conflict(w, "Record was modified by someone else, reload and retry")
	case errors.Is(err, attendance.ErrInvalidTransition):
		Conflict(w, "Status transition not allowed")
	case errors.Is(err, attendance.ErrIncompleteForApproval):
		BadRequest(w, "Record has an entry without an exit and cannot be approved", nil)
	case errors.Is(err, attendance.ErrEmptyPatch):
		BadRequest(w, "Update contains no changes", nil)
	case errors.Is(err, attendance.ErrMissingEmployee):
		BadRequest(w, "Record has no employee reference", nil)

	// Punch domain errors
	case errors.Is(err, punch.ErrEventNotFound):
		NotFound(w, "Punch event not found")

	// Master data errors
	case errors.Is(err, master.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, master.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, master.ErrDeviceNotFound):
		NotFound(w, "Device not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
