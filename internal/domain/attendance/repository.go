package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID parameter to prevent cross-company data access attacks.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, attendance Attendance) error

	// GetByID retrieves attendance by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no record on date
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// GetEmployeeShift returns ErrEmployeeNotFound for unknown or foreign employees
	GetEmployeeShift(ctx context.Context, employeeID string, companyID string) (Shift, error)

	// ListDailyRecords returns one record per employee per day in the query range,
	// with days lacking attendance left as absent placeholders.
	ListDailyRecords(ctx context.Context, companyID string, query DailyRecordQuery) ([]EmployeeAttendance, error)

	// ListCompanyIDs returns companies with at least one active employee
	ListCompanyIDs(ctx context.Context) ([]string, error)
}
