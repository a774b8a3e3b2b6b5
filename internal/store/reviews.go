package store

import (
	"context"
	"time"

	"cinelog/internal/model"
)

const createReview = `
INSERT INTO reviews (item_id, username, content, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, item_id, username, content, created_at
`

// CreateReviewParams holds the fields for a new review.
type CreateReviewParams struct {
	ItemID    int64
	Username  string
	Content   string
	CreatedAt time.Time
}

// CreateReview appends a review to an item.
func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (model.Review, error) {
	row := q.db.QueryRowContext(ctx, createReview,
		arg.ItemID, arg.Username, arg.Content, arg.CreatedAt)
	var r model.Review
	err := row.Scan(&r.ID, &r.ItemID, &r.Username, &r.Content, &r.CreatedAt)
	return r, err
}

const listReviewsByItem = `
SELECT id, item_id, username, content, created_at
FROM reviews WHERE item_id = ? ORDER BY id DESC
`

// ListReviewsByItem returns an item's reviews in insertion-descending order.
func (q *Queries) ListReviewsByItem(ctx context.Context, itemID int64) ([]model.Review, error) {
	rows, err := q.db.QueryContext(ctx, listReviewsByItem, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.ItemID, &r.Username, &r.Content, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
