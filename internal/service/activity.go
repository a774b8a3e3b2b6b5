package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

// ActivityService records user actions into the audit trail.
type ActivityService struct {
	queries *store.Queries
	log     *slog.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(db *sql.DB, log *slog.Logger) *ActivityService {
	return &ActivityService{
		queries: store.New(db),
		log:     log,
	}
}

// Record appends an audit entry. An empty username is recorded as the
// guest placeholder. Audit failures are logged but never fail the
// request that triggered them.
func (s *ActivityService) Record(ctx context.Context, username, action string) {
	if username == "" {
		username = model.GuestUser
	}

	_, err := s.queries.CreateLog(ctx, store.CreateLogParams{
		Username:  username,
		Action:    action,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.Error("failed to record activity", "user", username, "action", action, "error", err)
	}
}

// Recent returns the newest audit entries, up to limit.
func (s *ActivityService) Recent(ctx context.Context, limit int64) ([]model.LogEntry, error) {
	return s.queries.ListRecentLogs(ctx, limit)
}
