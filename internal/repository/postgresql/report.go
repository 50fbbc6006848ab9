package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

const exportRecordColumns = `
	id, company_id, kind, period_year, period_month,
	filename, storage_path, url, size_bytes, created_at`

func scanExportRecord(row pgx.Row) (report.ExportRecord, error) {
	var r report.ExportRecord
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Kind, &r.PeriodYear, &r.PeriodMonth,
		&r.Filename, &r.StoragePath, &r.URL, &r.SizeBytes, &r.CreatedAt,
	)
	return r, err
}

// CreateExportRecord implements report.ReportRepository.
func (r *reportRepositoryImpl) CreateExportRecord(ctx context.Context, record report.ExportRecord) (report.ExportRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO export_records (
			id, company_id, kind, period_year, period_month,
			filename, storage_path, url, size_bytes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING` + exportRecordColumns

	created, err := scanExportRecord(q.QueryRow(ctx, query,
		record.ID, record.CompanyID, record.Kind, record.PeriodYear, record.PeriodMonth,
		record.Filename, record.StoragePath, record.URL, record.SizeBytes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return report.ExportRecord{}, report.ErrExportRecordExists
		}
		return report.ExportRecord{}, fmt.Errorf("failed to create export record: %w", err)
	}

	return created, nil
}

// GetExportRecord implements report.ReportRepository.
func (r *reportRepositoryImpl) GetExportRecord(ctx context.Context, companyID string, kind report.ExportKind, year, month int) (*report.ExportRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + exportRecordColumns + `
		FROM export_records
		WHERE company_id = $1 AND kind = $2 AND period_year = $3 AND period_month = $4
	`

	record, err := scanExportRecord(q.QueryRow(ctx, query, companyID, kind, year, month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get export record: %w", err)
	}

	return &record, nil
}

// GetExportRecordByID implements report.ReportRepository.
func (r *reportRepositoryImpl) GetExportRecordByID(ctx context.Context, id string, companyID string) (report.ExportRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + exportRecordColumns + `
		FROM export_records
		WHERE id = $1 AND company_id = $2
	`

	record, err := scanExportRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return report.ExportRecord{}, report.ErrExportNotFound
		}
		return report.ExportRecord{}, fmt.Errorf("failed to get export record by id: %w", err)
	}

	return record, nil
}

// ListExportRecords implements report.ReportRepository.
func (r *reportRepositoryImpl) ListExportRecords(ctx context.Context, companyID string) ([]report.ExportRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + exportRecordColumns + `
		FROM export_records
		WHERE company_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export records: %w", err)
	}
	defer rows.Close()

	records := []report.ExportRecord{}
	for rows.Next() {
		record, err := scanExportRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}
