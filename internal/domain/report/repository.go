package report

import "context"

// ReportRepository persists the index of archived exports.
type ReportRepository interface {
	// CreateExportRecord returns ErrExportRecordExists when the company already
	// archived the same kind for the period.
	CreateExportRecord(ctx context.Context, record ExportRecord) (ExportRecord, error)

	// GetExportRecord returns nil when nothing was archived for the period
	GetExportRecord(ctx context.Context, companyID string, kind ExportKind, year, month int) (*ExportRecord, error)

	// GetExportRecordByID returns ErrExportNotFound for unknown or foreign records
	GetExportRecordByID(ctx context.Context, id string, companyID string) (ExportRecord, error)

	// ListExportRecords returns the newest records first
	ListExportRecords(ctx context.Context, companyID string) ([]ExportRecord, error)
}
