package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
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
	// Token and role errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "Company membership required")
	case errors.Is(err, user.ErrUserIDRequired):
		Unauthorized(w, "User identity missing from token")

	// Date range errors
	case errors.Is(err, daterange.ErrUnknownPreset),
		errors.Is(err, daterange.ErrCustomBoundsRequired),
		errors.Is(err, daterange.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, attendance.ErrAttendanceAlreadyExists):
		Conflict(w, "Attendance already recorded for this employee and date")
	case errors.Is(err, attendance.ErrFutureDate):
		UnprocessableEntity(w, "Attendance cannot be recorded for a future date")
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		ValidationError(w, map[string]string{"check_out": err.Error()})
	case errors.Is(err, attendance.ErrRangeTooLarge):
		BadRequest(w, "Date range is too large", nil)

	// Report domain errors
	case errors.Is(err, report.ErrRangeTooLarge):
		BadRequest(w, "Date range is too large for export", nil)
	case errors.Is(err, report.ErrExportNotFound):
		NotFound(w, "Archived export not found")
	case errors.Is(err, report.ErrExportFailed):
		InternalServerError(w, "Failed to generate export")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
