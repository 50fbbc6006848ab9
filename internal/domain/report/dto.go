package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", ErrInvalidMonth.Error())
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs.Add("year", fmt.Sprintf("year must be between 2000 and %d", currentYear+1))
	}

	return errs.Err()
}

// Period returns the first and last day of the requested month in loc.
func (r MonthlyAttendanceReportRequest) Period(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, -1)
}

type MonthlyAttendanceReport struct {
	PeriodMonth int    `json:"periodMonth"`
	PeriodYear  int    `json:"periodYear"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	GeneratedAt string `json:"generatedAt"`

	Totals    attendance.Stats            `json:"totals"`
	Employees []MonthlyAttendanceEmployee `json:"employees"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string           `json:"employeeId"`
	EmployeeName string           `json:"employeeName"`
	EmployeeCode string           `json:"employeeCode"`
	Department   string           `json:"department"`
	Shift        attendance.Shift `json:"attendanceShift"`

	Stats     attendance.Stats         `json:"stats"`
	DailyLogs []attendance.DailyRecord `json:"dailyLogs"`
}

// ========================================
// EXPORTS
// ========================================

// ExportKind names an exported workbook type.
type ExportKind string

const (
	ExportMonthlyAttendance ExportKind = "monthly_attendance"
	ExportAttendanceSummary ExportKind = "attendance_summary"
)

// ExportFile is a fully built workbook ready to be sent or archived.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportRecord tracks a workbook archived to file storage.
type ExportRecord struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"companyId"`
	Kind        ExportKind `json:"kind"`
	PeriodYear  int        `json:"periodYear"`
	PeriodMonth int        `json:"periodMonth"`
	Filename    string     `json:"filename"`
	StoragePath string     `json:"storagePath"`
	URL         string     `json:"url"`
	SizeBytes   int64      `json:"sizeBytes"`
	CreatedAt   time.Time  `json:"createdAt"`
}
