package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/daterange"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/holiday"
	"github.com/go-chi/jwtauth/v5"
)

// TxRunner runs fn in one database transaction. Repositories called with
// the ctx handed to fn take part in it.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Options carries the attendance settings from config.
type Options struct {
	WorkHours        attendance.WorkHours
	AllowFutureDates bool

	// Tx wraps the duplicate check and write of manual entries. Nil runs
	// them without a transaction.
	Tx TxRunner
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	holidays *holiday.Calendar
	clock    clock.Clock
	opts     Options
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	holidays *holiday.Calendar,
	clk clock.Clock,
	opts Options,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		holidays:             holidays,
		clock:                clk,
		opts:                 opts,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func getCompanyIDFromContext(ctx context.Context) (string, error) {
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

func getUserIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", user.ErrUserIDRequired
	}
	return userID, nil
}

// WorkHours returns the configured regular-hours thresholds.
func (a *AttendanceServiceImpl) WorkHours() attendance.WorkHours {
	return a.opts.WorkHours
}

// Now returns the service clock's current time.
func (a *AttendanceServiceImpl) Now() time.Time {
	return a.clock.Now()
}

// LoadEmployees fetches daily records for an explicit company and range and
// classifies them. Records are classified here and nowhere else.
func (a *AttendanceServiceImpl) LoadEmployees(ctx context.Context, companyID string, query attendance.DailyRecordQuery) ([]attendance.EmployeeAttendance, error) {
	employees, err := a.AttendanceRepository.ListDailyRecords(ctx, companyID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily records: %w", err)
	}

	conflicts := 0
	for i := range employees {
		for j := range employees[i].DailyStats {
			r := &employees[i].DailyStats[j]
			if a.holidays.IsHoliday(r.Date) {
				r.IsHoliday = true
			}
			if r.Shift == "" {
				r.Shift = employees[i].Shift
			}
		}
		conflicts += attendance.AssignStatuses(employees[i].DailyStats)
	}
	if conflicts > 0 {
		slog.Warn("Attendance records with conflicting day flags",
			"company_id", companyID,
			"conflicts", conflicts,
			"start", query.Start.Format(daterange.DateLayout),
			"end", query.End.Format(daterange.DateLayout),
		)
	}
	return employees, nil
}

// ResolveFilter validates filter and turns it into a repository query.
func (a *AttendanceServiceImpl) ResolveFilter(filter attendance.AttendanceFilter) (attendance.DailyRecordQuery, daterange.DateRange, daterange.Bounds, error) {
	if err := filter.Validate(); err != nil {
		return attendance.DailyRecordQuery{}, daterange.DateRange{}, daterange.Bounds{}, err
	}

	now := a.clock.Now()
	dr, err := filter.Resolve(now, a.opts.AllowFutureDates)
	if err != nil {
		return attendance.DailyRecordQuery{}, daterange.DateRange{}, daterange.Bounds{}, err
	}
	bounds, err := dr.Bounds(now.Location())
	if err != nil {
		return attendance.DailyRecordQuery{}, daterange.DateRange{}, daterange.Bounds{}, err
	}
	if bounds.DayCount() > attendance.MaxRangeDays {
		return attendance.DailyRecordQuery{}, daterange.DateRange{}, daterange.Bounds{}, attendance.ErrRangeTooLarge
	}

	return attendance.DailyRecordQuery{
		EmployeeIDs:   filter.EmployeeIDs,
		DepartmentIDs: filter.DepartmentIDs,
		Start:         bounds.Start,
		End:           bounds.End,
	}, dr, bounds, nil
}

// QueryEmployees resolves filter for the caller's company and loads the
// classified records.
func (a *AttendanceServiceImpl) QueryEmployees(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.EmployeeAttendance, daterange.DateRange, daterange.Bounds, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, daterange.DateRange{}, daterange.Bounds{}, err
	}

	query, dr, bounds, err := a.ResolveFilter(filter)
	if err != nil {
		return nil, daterange.DateRange{}, daterange.Bounds{}, err
	}

	employees, err := a.LoadEmployees(ctx, companyID, query)
	if err != nil {
		return nil, daterange.DateRange{}, daterange.Bounds{}, err
	}
	return employees, dr, bounds, nil
}

// ListDaily implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListDaily(ctx context.Context, filter attendance.AttendanceFilter) (attendance.AttendanceListResponse, error) {
	employees, dr, bounds, err := a.QueryEmployees(ctx, filter)
	if err != nil {
		return attendance.AttendanceListResponse{}, err
	}

	return attendance.AttendanceListResponse{
		DateRange:      dr,
		Employees:      employees,
		DailySummaries: attendance.SummarizeByDay(employees, bounds, a.opts.WorkHours, a.clock.Now()),
	}, nil
}

// GetStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStats(ctx context.Context, filter attendance.AttendanceFilter) (attendance.AttendanceStatsResponse, error) {
	employees, dr, bounds, err := a.QueryEmployees(ctx, filter)
	if err != nil {
		return attendance.AttendanceStatsResponse{}, err
	}

	today := a.clock.Now()
	perEmployee := attendance.AggregateEmployees(employees, a.opts.WorkHours, today)

	return attendance.AttendanceStatsResponse{
		DateRange:   dr,
		Totals:      attendance.Totals(perEmployee),
		Employees:   perEmployee,
		Departments: attendance.RollupByDepartment(perEmployee),
		Daily:       attendance.SummarizeByDay(employees, bounds, a.opts.WorkHours, today),
		Weekly:      attendance.SummarizeByWeek(employees, bounds, a.opts.WorkHours, today),
	}, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := a.AttendanceRepository.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return attendance.NewAttendanceResponse(att), nil
}

// CreateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	loc := a.clock.Now().Location()
	date, err := a.checkDate(req.Date, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shift, err := a.AttendanceRepository.GetEmployeeShift(ctx, req.EmployeeID, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get employee shift: %w", err)
	}
	if req.EmployeeShift == "" {
		req.EmployeeShift = string(shift)
	}

	in, out, err := req.Times(loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att := attendance.Attendance{
		EmployeeID:         req.EmployeeID,
		CompanyID:          companyID,
		Date:               date,
		ClockIn:            in,
		ClockOut:           out,
		WorkHoursInMinutes: attendance.WorkedMinutes(in, out),
		Status:             req.Status,
		EmployeeShift:      attendance.Shift(req.EmployeeShift),
		LateReason:         req.LateReason,
		Remarks:            req.Remarks,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		UpdatedBy:          &userID,
	}

	var created attendance.Attendance
	err = a.inTx(ctx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date, companyID)
		if err != nil {
			return fmt.Errorf("failed to check existing attendance: %w", err)
		}
		if existing != nil {
			return attendance.ErrAttendanceAlreadyExists
		}

		created, err = a.AttendanceRepository.Create(ctx, att)
		if err != nil {
			if errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
				return err
			}
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance recorded manually",
		"attendance_id", created.ID,
		"employee_id", created.EmployeeID,
		"date", req.Date,
		"updated_by", userID,
	)
	return attendance.NewAttendanceResponse(created), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Get existing attendance
	att, err := a.AttendanceRepository.GetByID(ctx, req.ID, companyID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	loc := a.clock.Now().Location()
	date, err := a.checkDate(req.Date, loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.EmployeeShift == "" {
		req.EmployeeShift = string(att.EmployeeShift)
	}
	in, out, err := req.Times(loc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	moved := !sameDay(date, att.Date)
	att.Date = date
	att.ClockIn = in
	att.ClockOut = out
	att.WorkHoursInMinutes = attendance.WorkedMinutes(in, out)
	att.Status = req.Status
	att.EmployeeShift = attendance.Shift(req.EmployeeShift)
	att.LateReason = req.LateReason
	att.Remarks = req.Remarks
	att.Latitude = req.Latitude
	att.Longitude = req.Longitude
	att.UpdatedBy = &userID

	err = a.inTx(ctx, func(ctx context.Context) error {
		// Moving a record onto another day must not collide with that day's record
		if moved {
			existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, att.EmployeeID, date, companyID)
			if err != nil {
				return fmt.Errorf("failed to check existing attendance: %w", err)
			}
			if existing != nil && existing.ID != att.ID {
				return attendance.ErrAttendanceAlreadyExists
			}
		}

		if err := a.AttendanceRepository.Update(ctx, att); err != nil {
			if errors.Is(err, attendance.ErrAttendanceNotFound) || errors.Is(err, attendance.ErrAttendanceAlreadyExists) {
				return err
			}
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Fetch updated record
	updated, err := a.AttendanceRepository.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get updated attendance: %w", err)
	}
	return attendance.NewAttendanceResponse(updated), nil
}

func (a *AttendanceServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.opts.Tx == nil {
		return fn(ctx)
	}
	return a.opts.Tx(ctx, fn)
}

// checkDate parses a validated yyyy-MM-dd date and rejects future days
// unless they are allowed.
func (a *AttendanceServiceImpl) checkDate(value string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(daterange.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", daterange.ErrInvalidDate, value)
	}
	if !a.opts.AllowFutureDates && date.After(daterange.Day(a.clock.Now())) {
		return time.Time{}, attendance.ErrFutureDate
	}
	return date, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
