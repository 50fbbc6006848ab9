package report

import "errors"

var (
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
	ErrRangeTooLarge      = errors.New("export range must not exceed 366 days")
	ErrExportFailed       = errors.New("failed to generate export")
	ErrExportRecordExists = errors.New("export already archived for this period")
	ErrExportNotFound     = errors.New("archived export not found")
)
