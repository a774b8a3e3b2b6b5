// Package service provides business logic on top of the store layer:
// catalog filtering, suggestion workflow, audit logging, poster
// handling, and report generation.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"cinelog/internal/cache"
	"cinelog/internal/model"
	"cinelog/internal/store"
)

// Cache keys used by the catalog service.
const (
	cacheKeyCategories      = "catalog:categories"
	cacheKeyDashboardCounts = "catalog:dashboard_counts"
)

// CatalogFilter narrows the catalog listing. Zero values mean "no
// constraint": empty Search matches every title, empty or "all" Type
// matches both types, and an empty Categories set matches every
// category.
type CatalogFilter struct {
	Search     string
	Type       string
	Categories []string
}

// DashboardCounts summarizes the catalog for the admin dashboard.
type DashboardCounts struct {
	Movies             int64 `json:"movies"`
	Series             int64 `json:"series"`
	Users              int64 `json:"users"`
	PendingSuggestions int64 `json:"pending_suggestions"`
}

// CatalogService answers catalog queries, caching derived data that is
// recomputed on every page load otherwise.
type CatalogService struct {
	queries *store.Queries
	cache   cache.Cache
	log     *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(db *sql.DB, c cache.Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		queries: store.New(db),
		cache:   c,
		log:     log,
	}
}

// Filter returns catalog items matching all of the filter's criteria.
// Title and type narrowing happen in SQL; the category set is applied
// here because it is a case-insensitive membership test over a
// user-chosen list.
func (s *CatalogService) Filter(ctx context.Context, f CatalogFilter) ([]model.Item, error) {
	itemType := f.Type
	if itemType == "" {
		itemType = "all"
	}

	items, err := s.queries.FilterItems(ctx, store.FilterItemsParams{
		Search: strings.TrimSpace(f.Search),
		Type:   itemType,
	})
	if err != nil {
		return nil, err
	}

	if len(f.Categories) == 0 {
		return items, nil
	}

	wanted := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		wanted[strings.ToLower(strings.TrimSpace(c))] = true
	}

	filtered := items[:0]
	for _, item := range items {
		if wanted[strings.ToLower(item.Category)] {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Categories returns the distinct catalog categories, cached briefly
// since the list only changes when an admin adds an item.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	if data, err := s.cache.Get(ctx, cacheKeyCategories); err == nil {
		var categories []string
		if json.Unmarshal(data, &categories) == nil {
			return categories, nil
		}
	}

	categories, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, cacheKeyCategories, data, 0); err != nil {
			s.log.Warn("failed to cache categories", "error", err)
		}
	}

	return categories, nil
}

// Counts returns the dashboard counters, cached with a short TTL so the
// dashboard stays cheap under refresh.
func (s *CatalogService) Counts(ctx context.Context) (DashboardCounts, error) {
	if data, err := s.cache.Get(ctx, cacheKeyDashboardCounts); err == nil {
		var counts DashboardCounts
		if json.Unmarshal(data, &counts) == nil {
			return counts, nil
		}
	}

	var counts DashboardCounts
	var err error

	if counts.Movies, err = s.queries.CountItemsByType(ctx, model.TypeMovie); err != nil {
		return counts, err
	}
	if counts.Series, err = s.queries.CountItemsByType(ctx, model.TypeSeries); err != nil {
		return counts, err
	}
	if counts.Users, err = s.queries.CountUsers(ctx); err != nil {
		return counts, err
	}
	if counts.PendingSuggestions, err = s.queries.CountPendingSuggestions(ctx); err != nil {
		return counts, err
	}

	if data, err := json.Marshal(counts); err == nil {
		if err := s.cache.Set(ctx, cacheKeyDashboardCounts, data, time.Minute); err != nil {
			s.log.Warn("failed to cache dashboard counts", "error", err)
		}
	}

	return counts, nil
}

// InvalidateCatalog drops cached catalog data after a write.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, cacheKeyCategories); err != nil {
		s.log.Warn("failed to invalidate category cache", "error", err)
	}
	if err := s.cache.Delete(ctx, cacheKeyDashboardCounts); err != nil {
		s.log.Warn("failed to invalidate dashboard cache", "error", err)
	}
}
