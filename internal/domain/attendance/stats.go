package attendance

import (
	"encoding/json"
	"math"
	"time"
)

const DefaultWorkHoursPerDay = 8.0

// WorkHours holds the regular-hours threshold per shift.
type WorkHours struct {
	Day   float64
	Night float64
}

func DefaultWorkHours() WorkHours {
	return WorkHours{Day: DefaultWorkHoursPerDay, Night: DefaultWorkHoursPerDay}
}

// For returns the threshold for shift. An unset threshold falls back to the
// default.
func (w WorkHours) For(shift Shift) float64 {
	h := w.Day
	if shift == ShiftNight {
		h = w.Night
	}
	if h <= 0 {
		return DefaultWorkHoursPerDay
	}
	return h
}

// Stats is the aggregate of a set of daily records. It is a value; every
// aggregation returns a fresh one.
type Stats struct {
	PresentDays   int     `json:"presentDays"`
	GraceDays     int     `json:"graceDays"`
	LateDays      int     `json:"lateDays"`
	LeaveDays     int     `json:"leaveDays"`
	AbsentDays    int     `json:"absentDays"`
	WeekendDays   int     `json:"weekendDays"`
	HolidayDays   int     `json:"holidayDays"`
	TotalHours    float64 `json:"totalHours"`
	RegularHours  float64 `json:"regularHours"`
	OvertimeHours float64 `json:"overtimeHours"`
}

// TotalWorkDays excludes weekend and holiday days even when they were worked.
func (s Stats) TotalWorkDays() int {
	return s.PresentDays + s.GraceDays + s.LateDays + s.LeaveDays + s.AbsentDays
}

// AttendanceRate is (present + grace) / total work days as a rounded
// percentage, or 0 when there are no work days.
func (s Stats) AttendanceRate() int {
	total := s.TotalWorkDays()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.PresentDays+s.GraceDays) / float64(total) * 100))
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		PresentDays:   s.PresentDays + o.PresentDays,
		GraceDays:     s.GraceDays + o.GraceDays,
		LateDays:      s.LateDays + o.LateDays,
		LeaveDays:     s.LeaveDays + o.LeaveDays,
		AbsentDays:    s.AbsentDays + o.AbsentDays,
		WeekendDays:   s.WeekendDays + o.WeekendDays,
		HolidayDays:   s.HolidayDays + o.HolidayDays,
		TotalHours:    s.TotalHours + o.TotalHours,
		RegularHours:  s.RegularHours + o.RegularHours,
		OvertimeHours: s.OvertimeHours + o.OvertimeHours,
	}
}

func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	return json.Marshal(struct {
		alias
		TotalWorkDays  int `json:"totalWorkDays"`
		AttendanceRate int `json:"attendanceRate"`
	}{
		alias:          alias(s),
		TotalWorkDays:  s.TotalWorkDays(),
		AttendanceRate: s.AttendanceRate(),
	})
}

func (s *Stats) accrue(worked, threshold float64) {
	if worked <= 0 {
		return
	}
	s.RegularHours += math.Min(worked, threshold)
	s.OvertimeHours += math.Max(0, worked-threshold)
	s.TotalHours += worked
}

// Aggregate classifies and sums records in a single pass. Records dated after
// today are skipped. Weekend and holiday work accrues hours without counting
// as a work day; leave days never accrue hours.
//
// Every per-employee, per-department and per-period rollup goes through this
// function.
func Aggregate(records []DailyRecord, hours WorkHours, today time.Time) Stats {
	var s Stats
	todayKey := dayKey(today)

	for _, r := range records {
		if dayKey(r.Date) > todayKey {
			continue
		}
		threshold := hours.For(r.Shift)

		switch status := r.ResolvedStatus(); status {
		case DayWeekend:
			s.WeekendDays++
			s.accrue(r.WorkedHours, threshold)
		case DayHoliday:
			s.HolidayDays++
			s.accrue(r.WorkedHours, threshold)
		case DayLeave:
			s.LeaveDays++
		default:
			s.accrue(r.WorkedHours, threshold)
			switch status {
			case DayGraced:
				s.GraceDays++
			case DayLate:
				s.LateDays++
			case DayPresent:
				s.PresentDays++
			default:
				s.AbsentDays++
			}
		}
	}
	return s
}

// dayKey orders calendar days independent of location.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
