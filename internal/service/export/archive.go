package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
)

// Archiver stores generated workbooks in file storage.
type Archiver struct {
	storage storage.FileStorage
}

func NewArchiver(fs storage.FileStorage) *Archiver {
	return &Archiver{storage: fs}
}

// ArchivePath is exports/<companyID>/<key>/<filename>. The key keeps files
// generated on the same day apart.
func ArchivePath(companyID, key, filename string) string {
	return path.Join("exports", companyID, key, filename)
}

// Archive uploads file and returns its storage path and public URL.
func (a *Archiver) Archive(ctx context.Context, companyID, key string, file report.ExportFile) (string, string, error) {
	p, err := a.storage.Upload(ctx, bytes.NewReader(file.Data), ArchivePath(companyID, key, file.Filename), file.ContentType)
	if err != nil {
		return "", "", fmt.Errorf("failed to archive export: %w", err)
	}

	url, err := a.storage.GetURL(ctx, p, 24*time.Hour)
	if err != nil {
		if rmErr := a.storage.Delete(ctx, p); rmErr != nil {
			slog.Warn("Failed to remove export without url", "path", p, "error", rmErr)
		}
		return "", "", fmt.Errorf("failed to get export url: %w", err)
	}
	return p, url, nil
}

// Open reads an archived workbook back.
func (a *Archiver) Open(ctx context.Context, p string) ([]byte, error) {
	rc, err := a.storage.Download(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived export: %w", err)
	}
	return data, nil
}

// Remove deletes an archived workbook.
func (a *Archiver) Remove(ctx context.Context, p string) error {
	return a.storage.Delete(ctx, p)
}
