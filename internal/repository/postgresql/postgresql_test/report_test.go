package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== REPORT REPOSITORY TESTS =====

func TestReportRepository_ExportRecords(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewReportRepository(setup.DB)

	companyID := uuid.NewString()
	record := report.ExportRecord{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Kind:        report.ExportAttendanceSummary,
		PeriodYear:  2024,
		PeriodMonth: 2,
		Filename:    "attendance-report-2024-03-01.xlsx",
		StoragePath: "exports/" + companyID + "/attendance-report-2024-03-01.xlsx",
		URL:         "http://localhost:8080/files/exports/attendance-report-2024-03-01.xlsx",
		SizeBytes:   2048,
	}

	created, err := repo.CreateExportRecord(ctx, record)
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetExportRecord(ctx, companyID, report.ExportAttendanceSummary, 2024, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)

	byID, err := repo.GetExportRecordByID(ctx, record.ID, companyID)
	require.NoError(t, err)
	assert.Equal(t, record.Filename, byID.Filename)

	_, err = repo.GetExportRecordByID(ctx, record.ID, uuid.NewString())
	assert.ErrorIs(t, err, report.ErrExportNotFound)

	none, err := repo.GetExportRecord(ctx, companyID, report.ExportMonthlyAttendance, 2024, 2)
	require.NoError(t, err)
	assert.Nil(t, none)

	record.ID = uuid.NewString()
	_, err = repo.CreateExportRecord(ctx, record)
	assert.ErrorIs(t, err, report.ErrExportRecordExists)

	list, err := repo.ListExportRecords(ctx, companyID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
