package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

// ErrEmptyContent is returned when submitted text is empty after
// trimming and sanitization.
var ErrEmptyContent = errors.New("content is empty")

// ReviewService handles review submission and listing.
type ReviewService struct {
	queries   *store.Queries
	sanitizer *bluemonday.Policy
}

// NewReviewService creates a ReviewService.
func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{
		queries: store.New(db),
		// Reviews are stored as plain text, so strip all markup.
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Add stores a review for an item. The content is sanitized to plain
// text before it is persisted.
func (s *ReviewService) Add(ctx context.Context, itemID int64, username, content string) (model.Review, error) {
	clean := strings.TrimSpace(s.sanitizer.Sanitize(content))
	if clean == "" {
		return model.Review{}, ErrEmptyContent
	}

	// The item must still exist; reviews on deleted items are rejected.
	if _, err := s.queries.GetItemByID(ctx, itemID); err != nil {
		return model.Review{}, err
	}

	return s.queries.CreateReview(ctx, store.CreateReviewParams{
		ItemID:    itemID,
		Username:  username,
		Content:   clean,
		CreatedAt: time.Now(),
	})
}

// ListForItem returns an item's reviews, newest first.
func (s *ReviewService) ListForItem(ctx context.Context, itemID int64) ([]model.Review, error) {
	return s.queries.ListReviewsByItem(ctx, itemID)
}
