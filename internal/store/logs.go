package store

import (
	"context"
	"time"

	"cinelog/internal/model"
)

const createLog = `
INSERT INTO logs (username, action, created_at)
VALUES (?, ?, ?)
RETURNING id, username, action, created_at
`

// CreateLogParams holds the fields for a new audit log entry.
type CreateLogParams struct {
	Username  string
	Action    string
	CreatedAt time.Time
}

// CreateLog appends an entry to the audit trail.
func (q *Queries) CreateLog(ctx context.Context, arg CreateLogParams) (model.LogEntry, error) {
	row := q.db.QueryRowContext(ctx, createLog, arg.Username, arg.Action, arg.CreatedAt)
	var e model.LogEntry
	err := row.Scan(&e.ID, &e.Username, &e.Action, &e.CreatedAt)
	return e, err
}

const listRecentLogs = `
SELECT id, username, action, created_at FROM logs ORDER BY id DESC LIMIT ?
`

// ListRecentLogs returns the most recent audit entries, newest first.
func (q *Queries) ListRecentLogs(ctx context.Context, limit int64) ([]model.LogEntry, error) {
	rows, err := q.db.QueryContext(ctx, listRecentLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

const listLogsByTimeRange = `
SELECT id, username, action, created_at
FROM logs WHERE created_at BETWEEN ? AND ?
ORDER BY id
`

// ListLogsByTimeRangeParams is an inclusive timestamp range.
type ListLogsByTimeRangeParams struct {
	Start time.Time
	End   time.Time
}

// ListLogsByTimeRange returns audit entries recorded within [Start, End].
func (q *Queries) ListLogsByTimeRange(ctx context.Context, arg ListLogsByTimeRangeParams) ([]model.LogEntry, error) {
	rows, err := q.db.QueryContext(ctx, listLogsByTimeRange, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func collectLogs(rows interface {
	rowScanner
	Next() bool
	Err() error
}) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
