package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.clock_in, a.clock_out, a.work_hours_in_minutes,
	a.status, a.employee_shift, a.late_reason, a.remarks,
	a.latitude, a.longitude, a.updated_by,
	a.created_at, a.updated_at, e.full_name`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.ClockIn, &att.ClockOut, &att.WorkHoursInMinutes,
		&att.Status, &att.EmployeeShift, &att.LateReason, &att.Remarks,
		&att.Latitude, &att.Longitude, &att.UpdatedBy,
		&att.CreatedAt, &att.UpdatedAt, &att.EmployeeName,
	)
	return att, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, company_id, date, clock_in, clock_out, work_hours_in_minutes,
			status, employee_shift, late_reason, remarks, latitude, longitude, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.CompanyID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.ClockOut,
		newAttendance.WorkHoursInMinutes,
		newAttendance.Status,
		newAttendance.EmployeeShift,
		newAttendance.LateReason,
		newAttendance.Remarks,
		newAttendance.Latitude,
		newAttendance.Longitude,
		newAttendance.UpdatedBy,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceAlreadyExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Update replaces every editable column. Times cleared on the record are
// cleared in the row.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			date = $1, clock_in = $2, clock_out = $3, work_hours_in_minutes = $4,
			status = $5, employee_shift = $6, late_reason = $7, remarks = $8,
			latitude = $9, longitude = $10, updated_by = $11, updated_at = $12
		WHERE id = $13 AND company_id = $14
	`

	tag, err := q.Exec(ctx, query,
		att.Date, att.ClockIn, att.ClockOut, att.WorkHoursInMinutes,
		att.Status, att.EmployeeShift, att.LateReason, att.Remarks,
		att.Latitude, att.Longitude, att.UpdatedBy, time.Now(),
		att.ID, att.CompanyID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.ErrAttendanceAlreadyExists
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2::date AND a.company_id = $3
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02"), companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetEmployeeShift implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetEmployeeShift(ctx context.Context, employeeID string, companyID string) (attendance.Shift, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT attendance_shift
		FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	var shift attendance.Shift
	if err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&shift); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", attendance.ErrEmployeeNotFound
		}
		return "", fmt.Errorf("failed to get employee shift: %w", err)
	}

	return shift, nil
}

// ListDailyRecords implements attendance.AttendanceRepository.
//
// Every active employee in scope gets one row per day of the range. Weekends
// come from ISODOW, leave from approved leave requests; holidays are applied
// by the caller from the holiday calendar.
func (a *attendanceRepository) ListDailyRecords(ctx context.Context, companyID string, query attendance.DailyRecordQuery) ([]attendance.EmployeeAttendance, error) {
	q := GetQuerier(ctx, a.db)

	whereClauses := []string{
		"e.company_id = $1",
		"e.deleted_at IS NULL",
		"e.employment_status = 'active'",
	}
	args := []interface{}{companyID, query.Start.Format("2006-01-02"), query.End.Format("2006-01-02")}
	argIdx := 4

	if len(query.EmployeeIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("e.id = ANY($%d::uuid[])", argIdx))
		args = append(args, query.EmployeeIDs)
		argIdx++
	}
	if len(query.DepartmentIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("e.department_id = ANY($%d::uuid[])", argIdx))
		args = append(args, query.DepartmentIDs)
		argIdx++
	}

	sql := `
		WITH days AS (
			SELECT d::date AS day
			FROM generate_series($2::date, $3::date, INTERVAL '1 day') AS d
		),
		scoped AS (
			SELECT
				e.id, e.full_name, COALESCE(e.employee_code, '') AS employee_code,
				e.department_id, COALESCE(dp.name, '') AS department_name,
				e.attendance_shift
			FROM employees e
			LEFT JOIN departments dp ON dp.id = e.department_id
			WHERE ` + strings.Join(whereClauses, " AND ") + `
		)
		SELECT
			s.id, s.full_name, s.employee_code, s.department_id, s.department_name, s.attendance_shift,
			days.day,
			EXTRACT(ISODOW FROM days.day) IN (6, 7) AS is_weekend,
			EXISTS (
				SELECT 1 FROM leave_requests lr
				WHERE lr.employee_id = s.id
					AND lr.status = 'approved'
					AND days.day BETWEEN lr.start_date AND lr.end_date
			) AS on_leave,
			a.id, a.clock_in, a.clock_out, a.work_hours_in_minutes,
			a.status, a.employee_shift, a.late_reason, a.remarks
		FROM scoped s
		CROSS JOIN days
		LEFT JOIN attendances a ON a.employee_id = s.id AND a.date = days.day
		ORDER BY s.full_name ASC, s.id, days.day ASC
	`

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily records: %w", err)
	}
	defer rows.Close()

	var result []attendance.EmployeeAttendance
	index := make(map[string]int)

	for rows.Next() {
		var (
			emp         attendance.EmployeeAttendance
			rec         attendance.DailyRecord
			onLeave     bool
			minutes     *int
			status      *string
			recordShift *string
		)

		err := rows.Scan(
			&emp.EmployeeID, &emp.EmployeeName, &emp.EmployeeCode, &emp.DepartmentID, &emp.Department, &emp.Shift,
			&rec.Date,
			&rec.IsWeekend,
			&onLeave,
			&rec.AttendanceID, &rec.CheckIn, &rec.CheckOut, &minutes,
			&status, &recordShift, &rec.LateReason, &rec.Remarks,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily record: %w", err)
		}

		rec.Shift = emp.Shift
		if recordShift != nil && *recordShift != "" {
			rec.Shift = attendance.Shift(*recordShift)
		}
		if minutes != nil {
			rec.WorkedHours = float64(*minutes) / 60.0
		}
		rec.IsLeaveDay = onLeave
		if status != nil {
			switch *status {
			case attendance.StatusOnLeave:
				rec.IsLeaveDay = true
			case attendance.StatusHoliday:
				rec.IsHoliday = true
			case attendance.StatusGrace:
				rec.IsGraced = true
			case attendance.StatusLate:
				rec.IsLate = true
			}
		}

		i, ok := index[emp.EmployeeID]
		if !ok {
			i = len(result)
			index[emp.EmployeeID] = i
			emp.DailyStats = []attendance.DailyRecord{}
			result = append(result, emp)
		}
		result[i].DailyStats = append(result[i].DailyStats, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// ListCompanyIDs implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT DISTINCT company_id
		FROM employees
		WHERE deleted_at IS NULL AND employment_status = 'active'
		ORDER BY company_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
