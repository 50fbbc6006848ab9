package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/files/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("workbook"), "exports/c1/k1/report.xlsx", "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "exports/c1/k1/report.xlsx", key)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "workbook", string(data))

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/exports/c1/k1/report.xlsx", url)

	require.NoError(t, s.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(dir, "exports", "c1", "k1", "report.xlsx"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.Delete(ctx, key), "deleting twice is fine")

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/files")
	require.NoError(t, err)

	// leading ".." segments are clamped to the storage root
	key, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
