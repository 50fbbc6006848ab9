package attendance

import (
	"encoding/json"
	"time"
)

type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

func (s Shift) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// Stored attendance statuses
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusGrace   = "grace"
	StatusAbsent  = "absent"
	StatusOnLeave = "on_leave"
	StatusHoliday = "holiday"
)

var ValidStatuses = []string{StatusPresent, StatusLate, StatusGrace, StatusAbsent, StatusOnLeave, StatusHoliday}

// Attendance is a persisted attendance row.
type Attendance struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Date               time.Time
	ClockIn            *time.Time
	ClockOut           *time.Time
	WorkHoursInMinutes *int
	Status             string
	EmployeeShift      Shift
	LateReason         *string
	Remarks            *string
	Latitude           *float64
	Longitude          *float64
	UpdatedBy          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
}

// DailyRecord is one employee's attendance on one calendar day, the unit
// the aggregator consumes.
type DailyRecord struct {
	Date         time.Time  `json:"-"`
	AttendanceID *string    `json:"attendanceId,omitempty"`
	CheckIn      *time.Time `json:"checkIn,omitempty"`
	CheckOut     *time.Time `json:"checkOut,omitempty"`
	WorkedHours  float64    `json:"workedHours"`
	IsWeekend    bool       `json:"isWeekend"`
	IsHoliday    bool       `json:"isHoliday"`
	IsLeaveDay   bool       `json:"isLeaveDay"`
	IsGraced     bool       `json:"isGraced"`
	IsLate       bool       `json:"isLate"`
	Shift        Shift      `json:"attendanceShift"`
	Status       DayStatus  `json:"status"`
	LateReason   *string    `json:"lateReason,omitempty"`
	Remarks      *string    `json:"remarks,omitempty"`
}

func (r DailyRecord) MarshalJSON() ([]byte, error) {
	type alias DailyRecord
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{
		Date:  r.Date.Format("2006-01-02"),
		alias: alias(r),
	})
}

// EmployeeAttendance groups one employee's daily records over a range.
type EmployeeAttendance struct {
	EmployeeID   string        `json:"employeeId"`
	EmployeeName string        `json:"employeeName"`
	EmployeeCode string        `json:"employeeCode"`
	DepartmentID *string       `json:"departmentId,omitempty"`
	Department   string        `json:"department"`
	Shift        Shift         `json:"attendanceShift"`
	DailyStats   []DailyRecord `json:"dailyStats"`
}
