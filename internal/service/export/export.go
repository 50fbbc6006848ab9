// Package export renders attendance data into .xlsx workbooks.
//
// Workbooks are built entirely in memory and only written to the destination
// once complete, so a failed export never leaves a partial download behind.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	attendanceSheet = "Attendance"
	dailySheet      = "Daily Summary"
	monthlySheet    = "Monthly Report"
)

func MonthlyAttendanceFilename(generatedAt time.Time) string {
	return "Attendance_" + generatedAt.Format(daterange.DateLayout) + ".xlsx"
}

func AttendanceSummaryFilename(generatedAt time.Time) string {
	return "attendance-report-" + generatedAt.Format(daterange.DateLayout) + ".xlsx"
}

var fixedColumns = []string{"No", "Employee Code", "Employee Name", "Department", "Shift"}

var gridTotalColumns = []string{"Present", "Grace", "Late", "Absent", "Leave", "Total Hours", "Overtime", "Attendance %"}

// ExportMonthlyAttendance writes a grid with one row per employee and one
// column per calendar day of bounds. Days without a record stay blank.
func ExportMonthlyAttendance(w io.Writer, employees []attendance.EmployeeAttendance, bounds daterange.Bounds, hours attendance.WorkHours, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildAttendanceGrid(f, employees, bounds.Normalize(), hours, generatedAt); err != nil {
		return fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	return flush(f, w)
}

func buildAttendanceGrid(f *excelize.File, employees []attendance.EmployeeAttendance, bounds daterange.Bounds, hours attendance.WorkHours, generatedAt time.Time) error {
	if err := f.SetSheetName(f.GetSheetName(0), attendanceSheet); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	days := bounds.Days()
	firstDayCol := len(fixedColumns) + 1
	firstTotalCol := firstDayCol + len(days)
	lastCol := firstTotalCol + len(gridTotalColumns) - 1

	sheet := newSheetWriter(f, attendanceSheet)
	sheet.set(1, 1, "Attendance Report")
	sheet.set(1, 2, fmt.Sprintf("Period: %s - %s", bounds.Start.Format("02 Jan 2006"), bounds.End.Format("02 Jan 2006")))
	sheet.set(1, 3, "Generated: "+generatedAt.Format("02 Jan 2006 15:04"))
	sheet.style(1, 1, 1, 1, st.title)

	const headerRow, weekdayRow = 5, 6
	for i, h := range fixedColumns {
		sheet.set(i+1, headerRow, h)
		sheet.merge(i+1, headerRow, i+1, weekdayRow)
	}
	for i, d := range days {
		sheet.set(firstDayCol+i, headerRow, d.Day())
		sheet.set(firstDayCol+i, weekdayRow, d.Format("Mon"))
	}
	for i, h := range gridTotalColumns {
		sheet.set(firstTotalCol+i, headerRow, h)
		sheet.merge(firstTotalCol+i, headerRow, firstTotalCol+i, weekdayRow)
	}
	sheet.style(1, headerRow, lastCol, weekdayRow, st.header)

	row := weekdayRow + 1
	for n, e := range employees {
		sheet.set(1, row, n+1)
		sheet.set(2, row, e.EmployeeCode)
		sheet.set(3, row, e.EmployeeName)
		sheet.set(4, row, e.Department)
		sheet.set(5, row, string(e.Shift))

		byDay := make(map[string]attendance.DailyRecord, len(e.DailyStats))
		for _, r := range e.DailyStats {
			byDay[r.Date.Format(daterange.DateLayout)] = r
		}
		for i, d := range days {
			r, ok := byDay[d.Format(daterange.DateLayout)]
			if !ok {
				continue
			}
			status := r.ResolvedStatus()
			sheet.set(firstDayCol+i, row, status.StatusCode())
			if id, ok := st.status[status]; ok {
				sheet.style(firstDayCol+i, row, firstDayCol+i, row, id)
			}
		}

		s := attendance.Aggregate(e.DailyStats, hours, generatedAt)
		totals := []interface{}{
			s.PresentDays, s.GraceDays, s.LateDays, s.AbsentDays, s.LeaveDays,
			round2(s.TotalHours), round2(s.OvertimeHours), s.AttendanceRate(),
		}
		for i, v := range totals {
			sheet.set(firstTotalCol+i, row, v)
		}
		sheet.style(firstTotalCol, row, lastCol, row, st.total)
		row++
	}

	legendRow := row + 1
	sheet.set(1, legendRow, "Legend")
	col := 2
	for _, status := range legendOrder {
		sheet.set(col, legendRow, status.StatusCode())
		sheet.style(col, legendRow, col, legendRow, st.status[status])
		sheet.set(col+1, legendRow, string(status))
		col += 2
	}

	sheet.width(1, 1, 5)
	sheet.width(2, 2, 14)
	sheet.width(3, 3, 28)
	sheet.width(4, 5, 16)
	if len(days) > 0 {
		sheet.width(firstDayCol, firstTotalCol-1, 5)
	}
	sheet.width(firstTotalCol, lastCol, 12)
	sheet.freeze(firstDayCol, weekdayRow+1)
	return sheet.err
}

var legendOrder = []attendance.DayStatus{
	attendance.DayPresent, attendance.DayGraced, attendance.DayLate, attendance.DayAbsent,
	attendance.DayLeave, attendance.DayWeekend, attendance.DayHoliday,
}

var statsColumns = []string{"Present", "Grace", "Late", "Absent", "Leave", "Weekend", "Holiday", "Work Days", "Total Hours", "Regular Hours", "Overtime Hours", "Attendance %"}

func statsValues(s attendance.Stats) []interface{} {
	return []interface{}{
		s.PresentDays, s.GraceDays, s.LateDays, s.AbsentDays, s.LeaveDays, s.WeekendDays, s.HolidayDays,
		s.TotalWorkDays(), round2(s.TotalHours), round2(s.RegularHours), round2(s.OvertimeHours), s.AttendanceRate(),
	}
}

// ExportAttendanceSummary writes a "Daily Summary" sheet with one row per
// calendar day of the month and a "Monthly Report" sheet with one row per
// employee.
func ExportAttendanceSummary(w io.Writer, daily []attendance.PeriodSummary, monthly report.MonthlyAttendanceReport, month, year int, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildSummary(f, daily, monthly, month, year, generatedAt); err != nil {
		return fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	return flush(f, w)
}

func buildSummary(f *excelize.File, daily []attendance.PeriodSummary, monthly report.MonthlyAttendanceReport, month, year int, generatedAt time.Time) error {
	if err := f.SetSheetName(f.GetSheetName(0), dailySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return err
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}

	byDate := make(map[string]attendance.Stats, len(daily))
	for _, d := range daily {
		byDate[d.PeriodStart] = d.Stats
	}

	title := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	lastCol := 2 + len(statsColumns)

	ds := newSheetWriter(f, dailySheet)
	ds.set(1, 1, "Daily Attendance Summary - "+title)
	ds.set(1, 2, "Generated: "+generatedAt.Format("02 Jan 2006 15:04"))
	ds.style(1, 1, 1, 1, st.title)
	ds.row(1, 4, append([]interface{}{"Date", "Day"}, toInterfaces(statsColumns)...))
	ds.style(1, 4, lastCol, 4, st.header)

	row := 5
	for _, d := range calendar.MonthDays(year, month, time.UTC) {
		key := d.Format(daterange.DateLayout)
		ds.set(1, row, key)
		ds.set(2, row, d.Format("Monday"))
		if s, ok := byDate[key]; ok && s != (attendance.Stats{}) {
			ds.row(3, row, statsValues(s))
		}
		row++
	}
	ds.width(1, 2, 14)
	ds.width(3, lastCol, 12)
	ds.freeze(3, 5)

	employeeCols := append([]string{}, fixedColumns...)
	employeeCols = append(employeeCols, statsColumns...)
	lastEmpCol := len(employeeCols)

	ms := newSheetWriter(f, monthlySheet)
	ms.set(1, 1, "Monthly Attendance Report - "+title)
	ms.set(1, 2, fmt.Sprintf("Period: %s - %s", monthly.PeriodStart, monthly.PeriodEnd))
	ms.style(1, 1, 1, 1, st.title)
	ms.row(1, 4, toInterfaces(employeeCols))
	ms.style(1, 4, lastEmpCol, 4, st.header)

	row = 5
	for n, e := range monthly.Employees {
		ms.row(1, row, []interface{}{n + 1, e.EmployeeCode, e.EmployeeName, e.Department, string(e.Shift)})
		ms.row(len(fixedColumns)+1, row, statsValues(e.Stats))
		row++
	}
	ms.set(3, row, "Total")
	ms.row(len(fixedColumns)+1, row, statsValues(monthly.Totals))
	ms.style(1, row, lastEmpCol, row, st.total)

	ms.width(1, 1, 5)
	ms.width(2, 2, 14)
	ms.width(3, 3, 28)
	ms.width(4, 5, 16)
	ms.width(len(fixedColumns)+1, lastEmpCol, 12)
	ms.freeze(4, 5)

	if ds.err != nil {
		return ds.err
	}
	return ms.err
}

func flush(f *excelize.File, w io.Writer) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
