package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/export"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxExportDays bounds the per-day grid to one leap year of columns.
const maxExportDays = 366

// AttendanceSource loads classified attendance records. The attendance
// service implements it.
type AttendanceSource interface {
	ResolveFilter(filter attendance.AttendanceFilter) (attendance.DailyRecordQuery, daterange.DateRange, daterange.Bounds, error)
	LoadEmployees(ctx context.Context, companyID string, query attendance.DailyRecordQuery) ([]attendance.EmployeeAttendance, error)
	WorkHours() attendance.WorkHours
	Now() time.Time
}

type ReportServiceImpl struct {
	attendance AttendanceSource
	reportRepo report.ReportRepository
	archiver   *export.Archiver
}

func NewReportService(source AttendanceSource, reportRepo report.ReportRepository, archiver *export.Archiver) report.ReportService {
	return &ReportServiceImpl{
		attendance: source,
		reportRepo: reportRepo,
		archiver:   archiver,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *ReportServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", user.ErrCompanyIDRequired
	}

	return companyID, nil
}

// GenerateMonthlyAttendanceReport generates the monthly attendance report
func (s *ReportServiceImpl) GenerateMonthlyAttendanceReport(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	// Get company ID from context
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	rep, _, err := s.monthlyReport(ctx, companyID, req)
	return rep, err
}

// monthlyReport aggregates one calendar month for companyID. The loaded
// employees are returned for callers that also need per-day rollups.
func (s *ReportServiceImpl) monthlyReport(ctx context.Context, companyID string, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, []attendance.EmployeeAttendance, error) {
	now := s.attendance.Now()
	periodStart, periodEnd := req.Period(now.Location())

	employees, err := s.attendance.LoadEmployees(ctx, companyID, attendance.DailyRecordQuery{Start: periodStart, End: periodEnd})
	if err != nil {
		return report.MonthlyAttendanceReport{}, nil, fmt.Errorf("failed to get attendance data: %w", err)
	}

	stats := attendance.AggregateEmployees(employees, s.attendance.WorkHours(), now)
	rows := make([]report.MonthlyAttendanceEmployee, 0, len(employees))
	for i, e := range employees {
		rows = append(rows, report.MonthlyAttendanceEmployee{
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			EmployeeCode: e.EmployeeCode,
			Department:   e.Department,
			Shift:        e.Shift,
			Stats:        stats[i].Stats,
			DailyLogs:    e.DailyStats,
		})
	}

	return report.MonthlyAttendanceReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format(daterange.DateLayout),
		PeriodEnd:   periodEnd.Format(daterange.DateLayout),
		GeneratedAt: now.Format(time.RFC3339),
		Totals:      attendance.Totals(stats),
		Employees:   rows,
	}, employees, nil
}

// ExportMonthlyAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportMonthlyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (report.ExportFile, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.ExportFile{}, err
	}

	query, _, bounds, err := s.attendance.ResolveFilter(filter)
	if err != nil {
		return report.ExportFile{}, err
	}
	if bounds.DayCount() > maxExportDays {
		return report.ExportFile{}, report.ErrRangeTooLarge
	}

	return s.monthlyAttendanceFile(ctx, companyID, query, bounds)
}

func (s *ReportServiceImpl) monthlyAttendanceFile(ctx context.Context, companyID string, query attendance.DailyRecordQuery, bounds daterange.Bounds) (report.ExportFile, error) {
	employees, err := s.attendance.LoadEmployees(ctx, companyID, query)
	if err != nil {
		return report.ExportFile{}, err
	}

	now := s.attendance.Now()
	var buf bytes.Buffer
	if err := export.ExportMonthlyAttendance(&buf, employees, bounds, s.attendance.WorkHours(), now); err != nil {
		return report.ExportFile{}, err
	}

	return report.ExportFile{
		Filename:    export.MonthlyAttendanceFilename(now),
		ContentType: report.XLSXContentType,
		Data:        buf.Bytes(),
	}, nil
}

// ExportAttendanceSummary implements report.ReportService.
func (s *ReportServiceImpl) ExportAttendanceSummary(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.ExportFile{}, err
	}

	return s.summaryFile(ctx, companyID, req)
}

func (s *ReportServiceImpl) summaryFile(ctx context.Context, companyID string, req report.MonthlyAttendanceReportRequest) (report.ExportFile, error) {
	rep, employees, err := s.monthlyReport(ctx, companyID, req)
	if err != nil {
		return report.ExportFile{}, err
	}

	now := s.attendance.Now()
	start, end := req.Period(now.Location())
	daily := attendance.SummarizeByDay(employees, daterange.Bounds{Start: start, End: end}, s.attendance.WorkHours(), now)

	var buf bytes.Buffer
	if err := export.ExportAttendanceSummary(&buf, daily, rep, req.Month, req.Year, now); err != nil {
		return report.ExportFile{}, err
	}

	return report.ExportFile{
		Filename:    export.AttendanceSummaryFilename(now),
		ContentType: report.XLSXContentType,
		Data:        buf.Bytes(),
	}, nil
}

// ListArchivedExports implements report.ReportService.
func (s *ReportServiceImpl) ListArchivedExports(ctx context.Context) ([]report.ExportRecord, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.reportRepo.ListExportRecords(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived exports: %w", err)
	}
	return records, nil
}

// DownloadArchivedExport implements report.ReportService.
func (s *ReportServiceImpl) DownloadArchivedExport(ctx context.Context, id string) (report.ExportFile, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return report.ExportFile{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return report.ExportFile{}, report.ErrExportNotFound
	}

	record, err := s.reportRepo.GetExportRecordByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, report.ErrExportNotFound) {
			return report.ExportFile{}, report.ErrExportNotFound
		}
		return report.ExportFile{}, fmt.Errorf("failed to get export record: %w", err)
	}

	data, err := s.archiver.Open(ctx, record.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return report.ExportFile{}, report.ErrExportNotFound
		}
		return report.ExportFile{}, err
	}

	return report.ExportFile{
		Filename:    record.Filename,
		ContentType: report.XLSXContentType,
		Data:        data,
	}, nil
}

// ArchiveMonth implements report.ReportService.
func (s *ReportServiceImpl) ArchiveMonth(ctx context.Context, companyID string, year, month int) error {
	req := report.MonthlyAttendanceReportRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return err
	}

	type pending struct {
		kind  report.ExportKind
		build func(ctx context.Context) (report.ExportFile, error)
		file  report.ExportFile
	}
	builders := []*pending{
		{kind: report.ExportMonthlyAttendance, build: func(ctx context.Context) (report.ExportFile, error) {
			start, end := req.Period(s.attendance.Now().Location())
			query := attendance.DailyRecordQuery{Start: start, End: end}
			return s.monthlyAttendanceFile(ctx, companyID, query, daterange.Bounds{Start: start, End: end})
		}},
		{kind: report.ExportAttendanceSummary, build: func(ctx context.Context) (report.ExportFile, error) {
			return s.summaryFile(ctx, companyID, req)
		}},
	}

	var missing []*pending
	for _, b := range builders {
		existing, err := s.reportRepo.GetExportRecord(ctx, companyID, b.kind, year, month)
		if err != nil {
			return fmt.Errorf("failed to check archived export: %w", err)
		}
		if existing == nil {
			missing = append(missing, b)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	// The workbooks are independent, so they are built concurrently.
	g, gCtx := errgroup.WithContext(ctx)
	for _, p := range missing {
		p := p
		g.Go(func() error {
			file, err := p.build(gCtx)
			if err != nil {
				return fmt.Errorf("failed to build %s export: %w", p.kind, err)
			}
			p.file = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, p := range missing {
		key := uuid.NewString()
		path, url, err := s.archiver.Archive(ctx, companyID, key, p.file)
		if err != nil {
			return err
		}

		_, err = s.reportRepo.CreateExportRecord(ctx, report.ExportRecord{
			ID:          key,
			CompanyID:   companyID,
			Kind:        p.kind,
			PeriodYear:  year,
			PeriodMonth: month,
			Filename:    p.file.Filename,
			StoragePath: path,
			URL:         url,
			SizeBytes:   int64(len(p.file.Data)),
		})
		if err != nil {
			if rmErr := s.archiver.Remove(ctx, path); rmErr != nil {
				slog.Warn("Failed to remove unrecorded export", "path", path, "error", rmErr)
			}
			if errors.Is(err, report.ErrExportRecordExists) {
				continue
			}
			return fmt.Errorf("failed to record archived export: %w", err)
		}

		slog.Info("Export archived",
			"company_id", companyID,
			"kind", p.kind,
			"period", fmt.Sprintf("%04d-%02d", year, month),
			"path", path,
		)
	}
	return nil
}
