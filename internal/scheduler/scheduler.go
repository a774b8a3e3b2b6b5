// Package scheduler runs periodic maintenance jobs: orphaned poster
// cleanup and database optimization.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"cinelog/internal/store"
)

// Scheduler owns the cron instance and its jobs.
type Scheduler struct {
	cron      *cron.Cron
	db        *sql.DB
	queries   *store.Queries
	uploadDir string
	log       *slog.Logger
}

// New creates a Scheduler. Call Start to begin running jobs.
func New(db *sql.DB, uploadDir string, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		db:        db,
		queries:   store.New(db),
		uploadDir: uploadDir,
		log:       log,
	}
}

// Start registers and starts the maintenance jobs.
func (s *Scheduler) Start() {
	// Daily at 03:10: remove poster files no catalog item references.
	_, _ = s.cron.AddFunc("10 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		removed, err := s.CleanupOrphanedPosters(ctx)
		if err != nil {
			s.log.Error("orphaned poster cleanup failed", "error", err)
			return
		}
		if removed > 0 {
			s.log.Info("removed orphaned posters", "count", removed)
		}
	})

	// Daily at 03:30: let SQLite re-analyze its query planner stats.
	_, _ = s.cron.AddFunc("30 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.OptimizeDatabase(ctx); err != nil {
			s.log.Error("database optimization failed", "error", err)
		}
	})

	s.cron.Start()
	s.log.Debug("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// CleanupOrphanedPosters deletes files in the upload directory that no
// item references. Files younger than an hour are kept, so an upload
// racing an item insert is never swept.
func (s *Scheduler) CleanupOrphanedPosters(ctx context.Context) (int, error) {
	references, err := s.queries.ListItemImages(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]bool, len(references))
	for _, ref := range references {
		referenced[filepath.Base(strings.TrimPrefix(ref, "/uploads/"))] = true
	}

	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || referenced[entry.Name()] {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(s.uploadDir, entry.Name())); err != nil {
			s.log.Warn("failed to remove orphaned poster", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	return removed, nil
}

// OptimizeDatabase runs SQLite's incremental optimize pragma.
func (s *Scheduler) OptimizeDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "PRAGMA optimize")
	return err
}
