package http

import (
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Monthly Attendance Report
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)

	// Workbook downloads
	ExportMonthlyAttendance(w http.ResponseWriter, r *http.Request)
	ExportAttendanceSummary(w http.ResponseWriter, r *http.Request)

	// Archived workbooks
	ListArchivedExports(w http.ResponseWriter, r *http.Request)
	DownloadArchivedExport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parsePeriod(w http.ResponseWriter, r *http.Request) (report.MonthlyAttendanceReportRequest, bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return report.MonthlyAttendanceReportRequest{}, false
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return report.MonthlyAttendanceReportRequest{}, false
	}

	return report.MonthlyAttendanceReportRequest{Month: month, Year: year}, true
}

// GetMonthlyAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyAttendance handles GET /reports/attendance/export
func (h *reportHandlerImpl) ExportMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportMonthlyAttendance(r.Context(), parseFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// ExportAttendanceSummary handles GET /reports/attendance/summary/export
func (h *reportHandlerImpl) ExportAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.ExportAttendanceSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}

// ListArchivedExports handles GET /reports/exports
func (h *reportHandlerImpl) ListArchivedExports(w http.ResponseWriter, r *http.Request) {
	records, err := h.reportService.ListArchivedExports(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: len(records)})
}

// DownloadArchivedExport handles GET /reports/exports/{id}/download
func (h *reportHandlerImpl) DownloadArchivedExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Export ID is required", nil)
		return
	}

	file, err := h.reportService.DownloadArchivedExport(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Data)
}
