package store

import (
	"context"

	"cinelog/internal/model"
)

const suggestionColumns = `id, username, title, year, type, category, summary, status`

const createSuggestion = `
INSERT INTO suggestions (username, title, year, type, category, summary, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + suggestionColumns

// CreateSuggestionParams holds the fields for a new suggestion.
type CreateSuggestionParams struct {
	Username string
	Title    string
	Year     int64
	Type     string
	Category string
	Summary  string
	Status   string
}

// CreateSuggestion inserts a new suggestion.
func (q *Queries) CreateSuggestion(ctx context.Context, arg CreateSuggestionParams) (model.Suggestion, error) {
	row := q.db.QueryRowContext(ctx, createSuggestion,
		arg.Username, arg.Title, arg.Year, arg.Type, arg.Category, arg.Summary, arg.Status)
	return scanSuggestion(row)
}

const getSuggestionByID = `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = ?`

// GetSuggestionByID fetches a suggestion by primary key.
func (q *Queries) GetSuggestionByID(ctx context.Context, id int64) (model.Suggestion, error) {
	return scanSuggestion(q.db.QueryRowContext(ctx, getSuggestionByID, id))
}

const listSuggestions = `SELECT ` + suggestionColumns + ` FROM suggestions ORDER BY id DESC`

// ListSuggestions returns all suggestions, newest first.
func (q *Queries) ListSuggestions(ctx context.Context) ([]model.Suggestion, error) {
	rows, err := q.db.QueryContext(ctx, listSuggestions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []model.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

const countPendingSuggestions = `SELECT COUNT(*) FROM suggestions WHERE status = 'pending'`

// CountPendingSuggestions returns the number of suggestions awaiting approval.
func (q *Queries) CountPendingSuggestions(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPendingSuggestions).Scan(&count)
	return count, err
}

const markSuggestionApproved = `
UPDATE suggestions SET status = 'approved' WHERE id = ? AND status = 'pending'
`

// MarkSuggestionApproved transitions a suggestion from pending to approved.
// Returns the number of rows updated: 0 means the suggestion was missing or
// already approved, which makes approval idempotent under concurrent requests.
func (q *Queries) MarkSuggestionApproved(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, markSuggestionApproved, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSuggestion(row rowScanner) (model.Suggestion, error) {
	var s model.Suggestion
	err := row.Scan(&s.ID, &s.Username, &s.Title, &s.Year, &s.Type,
		&s.Category, &s.Summary, &s.Status)
	return s, err
}
