package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newAttendance(companyID, employeeID, day, status string) attendance.Attendance {
	return attendance.Attendance{
		EmployeeID:    employeeID,
		CompanyID:     companyID,
		Date:          date(day),
		Status:        status,
		EmployeeShift: attendance.ShiftDay,
	}
}

// ===== ATTENDANCE REPOSITORY TESTS =====

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	employeeID := setup.createEmployee(t, companyID, nil, "Ayu Lestari", "Day")

	in := date("2024-03-01").Add(8 * time.Hour)
	out := date("2024-03-01").Add(17 * time.Hour)
	minutes := 540
	att := newAttendance(companyID, employeeID, "2024-03-01", attendance.StatusPresent)
	att.ClockIn, att.ClockOut, att.WorkHoursInMinutes = &in, &out, &minutes

	created, err := repo.Create(ctx, att)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Status)
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Ayu Lestari", *got.EmployeeName)
	assert.Equal(t, 540, *got.WorkHoursInMinutes)

	byDate, err := repo.GetByEmployeeAndDate(ctx, employeeID, date("2024-03-01"), companyID)
	require.NoError(t, err)
	require.NotNil(t, byDate)
	assert.Equal(t, created.ID, byDate.ID)

	missing, err := repo.GetByEmployeeAndDate(ctx, employeeID, date("2024-03-02"), companyID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	// other companies never see the row
	_, err = repo.GetByID(ctx, created.ID, uuid.NewString())
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_Create_Duplicate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	employeeID := setup.createEmployee(t, companyID, nil, "Ayu Lestari", "Day")

	_, err := repo.Create(ctx, newAttendance(companyID, employeeID, "2024-03-01", attendance.StatusAbsent))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAttendance(companyID, employeeID, "2024-03-01", attendance.StatusAbsent))
	assert.ErrorIs(t, err, attendance.ErrAttendanceAlreadyExists)
}

func TestAttendanceRepository_Update(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	employeeID := setup.createEmployee(t, companyID, nil, "Ayu Lestari", "Day")

	created, err := repo.Create(ctx, newAttendance(companyID, employeeID, "2024-03-01", attendance.StatusAbsent))
	require.NoError(t, err)

	reason := "flat tyre"
	created.Status = attendance.StatusLate
	created.LateReason = &reason
	require.NoError(t, repo.Update(ctx, created))

	got, err := repo.GetByID(ctx, created.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, got.Status)
	assert.Equal(t, reason, *got.LateReason)

	created.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Update(ctx, created), attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_GetEmployeeShift(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	employeeID := setup.createEmployee(t, companyID, nil, "Night Worker", "Night")

	shift, err := repo.GetEmployeeShift(ctx, employeeID, companyID)
	require.NoError(t, err)
	assert.Equal(t, attendance.ShiftNight, shift)

	_, err = repo.GetEmployeeShift(ctx, employeeID, uuid.NewString())
	assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
}

func TestAttendanceRepository_ListDailyRecords(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	deptID := setup.createDepartment(t, companyID, "Engineering")
	ayu := setup.createEmployee(t, companyID, &deptID, "Ayu Lestari", "Day")
	budi := setup.createEmployee(t, companyID, nil, "Budi Santoso", "Day")

	reason := "traffic"
	late := newAttendance(companyID, ayu, "2024-03-01", attendance.StatusLate)
	late.LateReason = &reason
	_, err := repo.Create(ctx, late)
	require.NoError(t, err)
	setup.createApprovedLeave(t, companyID, ayu, "2024-03-04", "2024-03-04")

	// Friday through Monday
	employees, err := repo.ListDailyRecords(ctx, companyID, attendance.DailyRecordQuery{
		Start: date("2024-03-01"),
		End:   date("2024-03-04"),
	})
	require.NoError(t, err)
	require.Len(t, employees, 2)

	first := employees[0]
	assert.Equal(t, "Ayu Lestari", first.EmployeeName)
	assert.Equal(t, "Engineering", first.Department)
	require.Len(t, first.DailyStats, 4)
	assert.True(t, first.DailyStats[0].IsLate)
	assert.NotNil(t, first.DailyStats[0].AttendanceID)
	assert.True(t, first.DailyStats[1].IsWeekend)
	assert.True(t, first.DailyStats[2].IsWeekend)
	assert.True(t, first.DailyStats[3].IsLeaveDay)
	assert.Nil(t, first.DailyStats[3].AttendanceID)

	// filters narrow the employee set
	filtered, err := repo.ListDailyRecords(ctx, companyID, attendance.DailyRecordQuery{
		EmployeeIDs: []string{budi},
		Start:       date("2024-03-01"),
		End:         date("2024-03-01"),
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Budi Santoso", filtered[0].EmployeeName)
	assert.Len(t, filtered[0].DailyStats, 1)

	byDept, err := repo.ListDailyRecords(ctx, companyID, attendance.DailyRecordQuery{
		DepartmentIDs: []string{deptID},
		Start:         date("2024-03-01"),
		End:           date("2024-03-01"),
	})
	require.NoError(t, err)
	require.Len(t, byDept, 1)
	assert.Equal(t, "Ayu Lestari", byDept[0].EmployeeName)

	ids, err := repo.ListCompanyIDs(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, companyID)
}

// ===== TRANSACTION TESTS =====

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	companyID := uuid.NewString()
	employeeID := setup.createEmployee(t, companyID, nil, "Ayu Lestari", "Day")

	boom := errors.New("boom")
	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newAttendance(companyID, employeeID, "2024-03-01", attendance.StatusAbsent)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByEmployeeAndDate(ctx, employeeID, date("2024-03-01"), companyID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
