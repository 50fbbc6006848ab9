package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// CompanyLister lists the companies whose exports should be archived.
type CompanyLister interface {
	ListCompanyIDs(ctx context.Context) ([]string, error)
}

// MonthArchiver stores the workbooks of one closed month for one company.
type MonthArchiver interface {
	ArchiveMonth(ctx context.Context, companyID string, year, month int) error
}

type ExportJobs struct {
	companies CompanyLister
	archiver  MonthArchiver
	clock     clock.Clock
	interval  time.Duration
}

func NewExportJobs(companies CompanyLister, archiver MonthArchiver, clk clock.Clock, interval time.Duration) *ExportJobs {
	return &ExportJobs{
		companies: companies,
		archiver:  archiver,
		clock:     clk,
		interval:  interval,
	}
}

func (j *ExportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_monthly_exports", j.interval, j.ArchivePreviousMonth)
}

// ArchivePreviousMonth archives last month's workbooks for every company. A
// failing company does not stop the others.
func (j *ExportJobs) ArchivePreviousMonth(ctx context.Context) error {
	now := j.clock.Now()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	var errs []error
	archived := 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.archiver.ArchiveMonth(ctx, companyID, year, month); err != nil {
			slog.Error("Cron: failed to archive exports", "company_id", companyID, "year", year, "month", month, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		archived++
	}

	slog.Info("Cron: monthly export archive finished", "year", year, "month", month, "companies", len(companyIDs), "succeeded", archived)
	return errors.Join(errs...)
}
