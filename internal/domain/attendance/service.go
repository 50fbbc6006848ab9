package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ListDaily returns per-employee daily records for the filtered range
	ListDaily(ctx context.Context, filter AttendanceFilter) (AttendanceListResponse, error)

	// GetStats aggregates the filtered records per employee, department, day and week
	GetStats(ctx context.Context, filter AttendanceFilter) (AttendanceStatsResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// CreateAttendance records attendance manually (manager/owner)
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	// UpdateAttendance updates an attendance record (manager/owner) - for fixing wrong data
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
}
