package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceAlreadyExists = errors.New("attendance already recorded for this employee and date")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrFutureDate              = errors.New("attendance cannot be recorded for a future date")
	ErrCheckOutBeforeCheckIn   = errors.New("check_out must be after check_in")
	ErrRangeTooLarge           = errors.New("date range must not exceed 366 days")
)
