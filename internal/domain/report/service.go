package report

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Monthly Attendance Report
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)

	// ExportMonthlyAttendance builds the per-day status grid workbook for the filtered range
	ExportMonthlyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (ExportFile, error)

	// ExportAttendanceSummary builds the daily summary and monthly report workbook
	ExportAttendanceSummary(ctx context.Context, req MonthlyAttendanceReportRequest) (ExportFile, error)

	// ListArchivedExports lists workbooks archived for the caller's company
	ListArchivedExports(ctx context.Context) ([]ExportRecord, error)

	// DownloadArchivedExport reads an archived workbook back from storage
	DownloadArchivedExport(ctx context.Context, id string) (ExportFile, error)

	// ArchiveMonth stores both workbooks for a closed month. It runs outside a
	// request, so the company is passed explicitly. Already archived periods
	// are skipped.
	ArchiveMonth(ctx context.Context, companyID string, year, month int) error
}
