package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// ========================================
// QUERY DTOs
// ========================================

// MaxRangeDays caps how many calendar days one query may span.
const MaxRangeDays = 366

type AttendanceFilter struct {
	EmployeeIDs   []string `json:"employeeIds"`
	DepartmentIDs []string `json:"departmentIds"`
	Preset        string   `json:"preset"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	for _, id := range f.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("employee_ids", "employee_ids must contain valid UUIDs")
			break
		}
	}
	for _, id := range f.DepartmentIDs {
		if !validator.IsValidUUID(id) {
			errs.Add("department_ids", "department_ids must contain valid UUIDs")
			break
		}
	}

	if f.Preset != "" && !daterange.Preset(f.Preset).Valid() {
		errs.Add("preset", "preset must be one of today, yesterday, week, month, lastMonth, last3Months, last6Months, year, lastYear, custom")
	}

	if f.Preset == "" || f.Preset == string(daterange.PresetCustom) {
		if validator.IsEmpty(f.StartDate) {
			errs.Add("start_date", "start_date is required")
		} else if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
		if validator.IsEmpty(f.EndDate) {
			errs.Add("end_date", "end_date is required")
		} else if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// Resolve turns the filter's preset or explicit dates into concrete bounds.
func (f *AttendanceFilter) Resolve(now time.Time, allowFuture bool) (daterange.DateRange, error) {
	preset := daterange.Preset(f.Preset)
	if preset == "" {
		preset = daterange.PresetCustom
	}

	var custom *daterange.Bounds
	if preset == daterange.PresetCustom {
		b, err := daterange.DateRange{StartDate: f.StartDate, EndDate: f.EndDate}.Bounds(now.Location())
		if err != nil {
			return daterange.DateRange{}, err
		}
		custom = &b
	}
	return daterange.Resolve(preset, custom, now, allowFuture)
}

// DailyRecordQuery is the resolved filter handed to the repository.
type DailyRecordQuery struct {
	EmployeeIDs   []string
	DepartmentIDs []string
	Start         time.Time
	End           time.Time
}

type AttendanceListResponse struct {
	DateRange      daterange.DateRange  `json:"dateRange"`
	Employees      []EmployeeAttendance `json:"employees"`
	DailySummaries []PeriodSummary      `json:"dailySummaries"`
}

type AttendanceStatsResponse struct {
	DateRange   daterange.DateRange `json:"dateRange"`
	Totals      Stats               `json:"totals"`
	Employees   []EmployeeStats     `json:"employees"`
	Departments []DepartmentStats   `json:"departments"`
	Daily       []PeriodSummary     `json:"daily"`
	Weekly      []PeriodSummary     `json:"weekly"`
}

// ========================================
// MUTATION DTOs
// ========================================

// CheckIn and CheckOut accept either a wall clock ("08:30") on Date or a full
// RFC3339 timestamp. For the Night shift a clock check-out earlier than the
// check-in falls on the next day.
type CreateAttendanceRequest struct {
	EmployeeID    string   `json:"employeeId"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"checkIn"`
	CheckOut      *string  `json:"checkOut"`
	Status        string   `json:"status"`
	EmployeeShift string   `json:"employeeShift"`
	LateReason    *string  `json:"lateReason"`
	Remarks       *string  `json:"remarks"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (r *CreateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	errs = append(errs, validateEntry(r.entry())...)
	return errs.Err()
}

// Times resolves check-in and check-out into timestamps in loc.
func (r *CreateAttendanceRequest) Times(loc *time.Location) (in, out *time.Time, err error) {
	return r.entry().times(loc)
}

func (r *CreateAttendanceRequest) entry() entry {
	return entry{r.Date, r.CheckIn, r.CheckOut, r.Status, r.EmployeeShift, r.LateReason, r.Latitude, r.Longitude}
}

type UpdateAttendanceRequest struct {
	ID            string   `json:"-"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"checkIn"`
	CheckOut      *string  `json:"checkOut"`
	Status        string   `json:"status"`
	EmployeeShift string   `json:"employeeShift"`
	LateReason    *string  `json:"lateReason"`
	Remarks       *string  `json:"remarks"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	errs = append(errs, validateEntry(r.entry())...)
	return errs.Err()
}

func (r *UpdateAttendanceRequest) Times(loc *time.Location) (in, out *time.Time, err error) {
	return r.entry().times(loc)
}

func (r *UpdateAttendanceRequest) entry() entry {
	return entry{r.Date, r.CheckIn, r.CheckOut, r.Status, r.EmployeeShift, r.LateReason, r.Latitude, r.Longitude}
}

// entry holds the fields shared by create and update.
type entry struct {
	date       string
	checkIn    *string
	checkOut   *string
	status     string
	shift      string
	lateReason *string
	latitude   *float64
	longitude  *float64
}

func validateEntry(e entry) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if validator.IsEmpty(e.date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(e.date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(e.status) {
		errs.Add("status", "status is required")
	} else if !validator.IsInSlice(e.status, ValidStatuses) {
		errs.Add("status", "status must be one of "+strings.Join(ValidStatuses, ", "))
	}

	if e.shift != "" && !Shift(e.shift).Valid() {
		errs.Add("employee_shift", "employee_shift must be Day or Night")
	}

	if e.status == StatusLate && (e.lateReason == nil || validator.IsEmpty(*e.lateReason)) {
		errs.Add("late_reason", "late_reason is required when status is late")
	}

	hasIn := e.checkIn != nil && !validator.IsEmpty(*e.checkIn)
	hasOut := e.checkOut != nil && !validator.IsEmpty(*e.checkOut)
	switch e.status {
	case StatusPresent, StatusLate, StatusGrace:
		if !hasIn {
			errs.Add("check_in", "check_in is required for status "+e.status)
		}
	case StatusAbsent, StatusOnLeave, StatusHoliday:
		if hasIn || hasOut {
			errs.Add("check_in", "check_in and check_out must be empty for status "+e.status)
		}
	}
	if hasOut && !hasIn {
		errs.Add("check_out", "check_out requires check_in")
	}

	if hasIn && !isTimeValue(*e.checkIn) {
		errs.Add("check_in", "check_in must be HH:MM or an RFC3339 timestamp")
	}
	if hasOut && !isTimeValue(*e.checkOut) {
		errs.Add("check_out", "check_out must be HH:MM or an RFC3339 timestamp")
	}

	// Without an explicit shift the ordering check waits for the employee's
	// stored shift, applied by Times.
	if len(errs) == 0 && hasIn && hasOut && e.shift != "" {
		if _, _, err := e.times(time.UTC); err != nil {
			errs.Add("check_out", err.Error())
		}
	}

	if e.latitude != nil && !validator.IsValidLatitude(*e.latitude) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if e.longitude != nil && !validator.IsValidLongitude(*e.longitude) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if (e.latitude == nil) != (e.longitude == nil) {
		errs.Add("latitude", "latitude and longitude must be provided together")
	}

	return errs
}

func isTimeValue(s string) bool {
	if _, ok := validator.IsValidDateTime(s); ok {
		return true
	}
	_, ok := validator.IsValidClock(s)
	return ok
}

// times assumes validateEntry already accepted the input.
func (e entry) times(loc *time.Location) (in, out *time.Time, err error) {
	day, err := time.ParseInLocation("2006-01-02", e.date, loc)
	if err != nil {
		return nil, nil, err
	}

	in = resolveTime(day, e.checkIn, loc)
	out = resolveTime(day, e.checkOut, loc)
	if in == nil || out == nil {
		return in, out, nil
	}

	if !out.After(*in) && Shift(e.shift) == ShiftNight && isClock(*e.checkOut) {
		next := out.AddDate(0, 0, 1)
		out = &next
	}
	if !out.After(*in) {
		return nil, nil, ErrCheckOutBeforeCheckIn
	}
	return in, out, nil
}

func resolveTime(day time.Time, v *string, loc *time.Location) *time.Time {
	if v == nil || validator.IsEmpty(*v) {
		return nil
	}
	if t, ok := validator.IsValidDateTime(*v); ok {
		t = t.In(loc)
		return &t
	}
	c, ok := validator.IsValidClock(*v)
	if !ok {
		return nil
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc)
	return &t
}

func isClock(v string) bool {
	_, ok := validator.IsValidClock(v)
	return ok
}

// WorkedMinutes returns the whole minutes between in and out, or nil when the
// session is still open.
func WorkedMinutes(in, out *time.Time) *int {
	if in == nil || out == nil {
		return nil
	}
	m := int(out.Sub(*in).Minutes())
	return &m
}

// ========================================
// RESPONSE DTOs
// ========================================

type AttendanceResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employeeId"`
	EmployeeName  string   `json:"employeeName"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"checkIn,omitempty"`
	CheckOut      *string  `json:"checkOut,omitempty"`
	WorkedHours   float64  `json:"workedHours"`
	Status        string   `json:"status"`
	EmployeeShift Shift    `json:"employeeShift"`
	LateReason    *string  `json:"lateReason,omitempty"`
	Remarks       *string  `json:"remarks,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	UpdatedBy     *string  `json:"updatedBy,omitempty"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format("2006-01-02"),
		Status:        a.Status,
		EmployeeShift: a.EmployeeShift,
		LateReason:    a.LateReason,
		Remarks:       a.Remarks,
		Latitude:      a.Latitude,
		Longitude:     a.Longitude,
		UpdatedBy:     a.UpdatedBy,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     a.UpdatedAt.Format(time.RFC3339),
	}
	if a.EmployeeName != nil {
		resp.EmployeeName = *a.EmployeeName
	}
	if a.ClockIn != nil {
		s := a.ClockIn.Format(time.RFC3339)
		resp.CheckIn = &s
	}
	if a.ClockOut != nil {
		s := a.ClockOut.Format(time.RFC3339)
		resp.CheckOut = &s
	}
	if a.WorkHoursInMinutes != nil {
		resp.WorkedHours = float64(*a.WorkHoursInMinutes) / 60.0
	}
	return resp
}
