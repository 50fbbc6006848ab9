package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret = "test-secret-key-for-jwt"
	testCompanyID     = "0190a7c4-0000-7000-8000-0000000000c1"
)

const handlerTestHolidays = `
version: 1
holidays:
  - date: 2024-03-11
    name: Nyepi
  - date: 2023-04-05
    name: Founders Day
    recurring: true
`

var handlerTestNow = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

func testClock() clock.Clock {
	return clock.FixedClock(handlerTestNow)
}

func testHolidays(t *testing.T) *holiday.Calendar {
	t.Helper()
	c, err := holiday.Parse([]byte(handlerTestHolidays))
	require.NoError(t, err)
	return c
}

func testToken(t *testing.T, svc jwt.Service, role string) string {
	t.Helper()
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"user_id":    "0190a7c4-0000-7000-8000-000000000001",
		"company_id": testCompanyID,
		"role":       role,
		"type":       "access",
	})
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== FAKES =====

type fakeAttendanceService struct {
	lastFilter attendance.AttendanceFilter
	lastCreate attendance.CreateAttendanceRequest
	lastUpdate attendance.UpdateAttendanceRequest
	err        error
}

func (f *fakeAttendanceService) ListDaily(ctx context.Context, filter attendance.AttendanceFilter) (attendance.AttendanceListResponse, error) {
	f.lastFilter = filter
	if f.err != nil {
		return attendance.AttendanceListResponse{}, f.err
	}
	return attendance.AttendanceListResponse{
		DateRange: daterange.DateRange{StartDate: "2024-03-01", EndDate: "2024-03-13"},
		Employees: []attendance.EmployeeAttendance{{EmployeeID: "e1", EmployeeName: "Budi Santoso"}},
	}, nil
}

func (f *fakeAttendanceService) GetStats(ctx context.Context, filter attendance.AttendanceFilter) (attendance.AttendanceStatsResponse, error) {
	f.lastFilter = filter
	if f.err != nil {
		return attendance.AttendanceStatsResponse{}, f.err
	}
	return attendance.AttendanceStatsResponse{
		DateRange: daterange.DateRange{StartDate: "2024-03-10", EndDate: "2024-03-13"},
		Totals:    attendance.Stats{PresentDays: 3, AbsentDays: 1},
	}, nil
}

func (f *fakeAttendanceService) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if f.err != nil {
		return attendance.AttendanceResponse{}, f.err
	}
	return attendance.AttendanceResponse{ID: id, Status: attendance.StatusPresent}, nil
}

func (f *fakeAttendanceService) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	f.lastCreate = req
	if f.err != nil {
		return attendance.AttendanceResponse{}, f.err
	}
	return attendance.AttendanceResponse{ID: "a1", EmployeeID: req.EmployeeID, Date: req.Date, Status: req.Status}, nil
}

func (f *fakeAttendanceService) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	f.lastUpdate = req
	if f.err != nil {
		return attendance.AttendanceResponse{}, f.err
	}
	return attendance.AttendanceResponse{ID: req.ID, Date: req.Date, Status: req.Status}, nil
}

type fakeReportService struct {
	lastFilter attendance.AttendanceFilter
	lastPeriod report.MonthlyAttendanceReportRequest
	lastID     string
	err        error
}

func (f *fakeReportService) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	f.lastPeriod = req
	if f.err != nil {
		return report.MonthlyAttendanceReport{}, f.err
	}
	return report.MonthlyAttendanceReport{PeriodMonth: req.Month, PeriodYear: req.Year}, nil
}

func (f *fakeReportService) ExportMonthlyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (report.ExportFile, error) {
	f.lastFilter = filter
	if f.err != nil {
		return report.ExportFile{}, f.err
	}
	return report.ExportFile{Filename: "Attendance_2024-03-13.xlsx", ContentType: report.XLSXContentType, Data: []byte("grid")}, nil
}

func (f *fakeReportService) ExportAttendanceSummary(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.ExportFile, error) {
	f.lastPeriod = req
	if f.err != nil {
		return report.ExportFile{}, f.err
	}
	return report.ExportFile{Filename: "attendance-report-2024-03-13.xlsx", ContentType: report.XLSXContentType, Data: []byte("summary")}, nil
}

func (f *fakeReportService) ListArchivedExports(ctx context.Context) ([]report.ExportRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []report.ExportRecord{{ID: "x1", Kind: report.ExportMonthlyAttendance, Filename: "Attendance_2024-02-29.xlsx"}}, nil
}

func (f *fakeReportService) DownloadArchivedExport(ctx context.Context, id string) (report.ExportFile, error) {
	f.lastID = id
	if f.err != nil {
		return report.ExportFile{}, f.err
	}
	return report.ExportFile{Filename: "Attendance_2024-02-29.xlsx", ContentType: report.XLSXContentType, Data: []byte("archived")}, nil
}

func (f *fakeReportService) ArchiveMonth(ctx context.Context, companyID string, year, month int) error {
	return f.err
}
