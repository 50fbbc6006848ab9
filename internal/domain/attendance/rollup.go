package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
)

type EmployeeStats struct {
	EmployeeID   string  `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	EmployeeCode string  `json:"employeeCode"`
	DepartmentID *string `json:"departmentId,omitempty"`
	Department   string  `json:"department"`
	Shift        Shift   `json:"attendanceShift"`
	Stats        Stats   `json:"stats"`
}

type DepartmentStats struct {
	DepartmentID  *string `json:"departmentId,omitempty"`
	Department    string  `json:"department"`
	EmployeeCount int     `json:"employeeCount"`
	Stats         Stats   `json:"stats"`
}

// PeriodSummary aggregates every employee's records over one day or week.
type PeriodSummary struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Label       string `json:"label"`
	Stats       Stats  `json:"stats"`
}

func AggregateEmployees(employees []EmployeeAttendance, hours WorkHours, today time.Time) []EmployeeStats {
	out := make([]EmployeeStats, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeStats{
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			EmployeeCode: e.EmployeeCode,
			DepartmentID: e.DepartmentID,
			Department:   e.Department,
			Shift:        e.Shift,
			Stats:        Aggregate(e.DailyStats, hours, today),
		})
	}
	return out
}

// RollupByDepartment sums employee stats per department, ordered by name.
func RollupByDepartment(employees []EmployeeStats) []DepartmentStats {
	index := map[string]int{}
	var out []DepartmentStats

	for _, e := range employees {
		key := e.Department
		if e.DepartmentID != nil {
			key = *e.DepartmentID
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DepartmentStats{DepartmentID: e.DepartmentID, Department: e.Department})
		}
		out[i].EmployeeCount++
		out[i].Stats = out[i].Stats.Add(e.Stats)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

// Totals sums every employee's stats.
func Totals(employees []EmployeeStats) Stats {
	var s Stats
	for _, e := range employees {
		s = s.Add(e.Stats)
	}
	return s
}

// SummarizeByDay returns one summary per calendar day in bounds, including
// days without any records.
func SummarizeByDay(employees []EmployeeAttendance, bounds daterange.Bounds, hours WorkHours, today time.Time) []PeriodSummary {
	byDay := recordsByDay(employees)

	var out []PeriodSummary
	for _, d := range bounds.Days() {
		key := d.Format(daterange.DateLayout)
		out = append(out, PeriodSummary{
			PeriodStart: key,
			PeriodEnd:   key,
			Label:       d.Format("Mon, 02 Jan 2006"),
			Stats:       Aggregate(byDay[dayKey(d)], hours, today),
		})
	}
	return out
}

// SummarizeByWeek returns one summary per Sunday-Saturday week overlapping
// bounds. Weeks are clipped to bounds.
func SummarizeByWeek(employees []EmployeeAttendance, bounds daterange.Bounds, hours WorkHours, today time.Time) []PeriodSummary {
	byDay := recordsByDay(employees)
	bounds = bounds.Normalize()
	start, end := daterange.Day(bounds.Start), daterange.Day(bounds.End)

	var out []PeriodSummary
	for ws := daterange.WeekStart(start); !ws.After(end); ws = ws.AddDate(0, 0, 7) {
		from, to := ws, ws.AddDate(0, 0, 6)
		if from.Before(start) {
			from = start
		}
		if to.After(end) {
			to = end
		}

		var records []DailyRecord
		for _, d := range (daterange.Bounds{Start: from, End: to}).Days() {
			records = append(records, byDay[dayKey(d)]...)
		}
		out = append(out, PeriodSummary{
			PeriodStart: from.Format(daterange.DateLayout),
			PeriodEnd:   to.Format(daterange.DateLayout),
			Label:       "Week of " + ws.Format("02 Jan 2006"),
			Stats:       Aggregate(records, hours, today),
		})
	}
	return out
}

func recordsByDay(employees []EmployeeAttendance) map[int][]DailyRecord {
	byDay := map[int][]DailyRecord{}
	for _, e := range employees {
		for _, r := range e.DailyStats {
			byDay[dayKey(r.Date)] = append(byDay[dayKey(r.Date)], r)
		}
	}
	return byDay
}
