package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeOldFile(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
}

func TestCleanupOrphanedPosters(t *testing.T) {
	db := testDB(t)
	uploadDir := t.TempDir()
	ctx := context.Background()

	_, err := store.New(db).CreateItem(ctx, store.CreateItemParams{
		Title:     "Dune",
		Image:     "/uploads/123_dune.jpg",
		Category:  "Sci-Fi",
		Type:      model.TypeMovie,
		DateAdded: "2024-01-15",
	})
	require.NoError(t, err)

	writeOldFile(t, uploadDir, "123_dune.jpg")
	writeOldFile(t, uploadDir, "456_orphan.jpg")

	// A fresh file must survive even when unreferenced.
	require.NoError(t, os.WriteFile(filepath.Join(uploadDir, "789_fresh.jpg"), []byte("x"), 0644))

	s := New(db, uploadDir, testLogger())
	removed, err := s.CleanupOrphanedPosters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(uploadDir, "123_dune.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(uploadDir, "789_fresh.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(uploadDir, "456_orphan.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupMissingUploadDir(t *testing.T) {
	db := testDB(t)
	s := New(db, filepath.Join(t.TempDir(), "does-not-exist"), testLogger())

	removed, err := s.CleanupOrphanedPosters(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOptimizeDatabase(t *testing.T) {
	db := testDB(t)
	s := New(db, t.TempDir(), testLogger())

	assert.NoError(t, s.OptimizeDatabase(context.Background()))
}
