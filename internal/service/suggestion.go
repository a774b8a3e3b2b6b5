package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

// ErrAlreadyApproved is returned when approving a suggestion that is no
// longer pending.
var ErrAlreadyApproved = errors.New("suggestion already approved")

// SubmitSuggestionParams holds a user's proposed catalog entry.
type SubmitSuggestionParams struct {
	Username string
	Title    string
	Year     int64
	Type     string
	Category string
	Summary  string
}

// SuggestionService handles the suggestion workflow: submission by
// users and approval by admins.
type SuggestionService struct {
	db        *sql.DB
	queries   *store.Queries
	sanitizer *bluemonday.Policy
}

// NewSuggestionService creates a SuggestionService.
func NewSuggestionService(db *sql.DB) *SuggestionService {
	return &SuggestionService{
		db:        db,
		queries:   store.New(db),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submit creates a pending suggestion. Text fields are sanitized to
// plain text before storage.
func (s *SuggestionService) Submit(ctx context.Context, arg SubmitSuggestionParams) (model.Suggestion, error) {
	title := strings.TrimSpace(s.sanitizer.Sanitize(arg.Title))
	if title == "" {
		return model.Suggestion{}, ErrEmptyContent
	}
	if arg.Type != model.TypeMovie && arg.Type != model.TypeSeries {
		return model.Suggestion{}, fmt.Errorf("invalid type %q", arg.Type)
	}

	return s.queries.CreateSuggestion(ctx, store.CreateSuggestionParams{
		Username: arg.Username,
		Title:    title,
		Year:     arg.Year,
		Type:     arg.Type,
		Category: strings.TrimSpace(s.sanitizer.Sanitize(arg.Category)),
		Summary:  strings.TrimSpace(s.sanitizer.Sanitize(arg.Summary)),
		Status:   model.SuggestionPending,
	})
}

// List returns all suggestions, newest first.
func (s *SuggestionService) List(ctx context.Context) ([]model.Suggestion, error) {
	return s.queries.ListSuggestions(ctx)
}

// Approve converts a pending suggestion into a catalog item. The status
// flip and the item insert run in one transaction, and the flip is a
// conditional update, so two concurrent approvals of the same
// suggestion produce exactly one item: the loser sees zero affected
// rows and gets ErrAlreadyApproved.
func (s *SuggestionService) Approve(ctx context.Context, id int64) (model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Item{}, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	sug, err := qtx.GetSuggestionByID(ctx, id)
	if err != nil {
		return model.Item{}, err
	}

	affected, err := qtx.MarkSuggestionApproved(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	if affected == 0 {
		return model.Item{}, ErrAlreadyApproved
	}

	item, err := qtx.CreateItem(ctx, store.CreateItemParams{
		Title:       sug.Title,
		Image:       model.PlaceholderImage,
		Category:    sug.Category,
		Type:        sug.Type,
		Description: sug.Summary,
		Year:        sug.Year,
		DateAdded:   time.Now().Format(model.ItemDateFormat),
	})
	if err != nil {
		return model.Item{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Item{}, fmt.Errorf("commit approve tx: %w", err)
	}

	return item, nil
}
