// Package handler provides the HTTP handlers for the application.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/middleware"
	"cinelog/internal/model"
	"cinelog/internal/render"
	"cinelog/internal/service"
	"cinelog/internal/store"
)

const recentActivityLimit = 10

// FrontendHandler serves the public catalog pages.
type FrontendHandler struct {
	queries     *store.Queries
	renderer    *render.Renderer
	catalog     *service.CatalogService
	reviews     *service.ReviewService
	suggestions *service.SuggestionService
	activity    *service.ActivityService
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, catalog *service.CatalogService,
	reviews *service.ReviewService, suggestions *service.SuggestionService, activity *service.ActivityService) *FrontendHandler {
	return &FrontendHandler{
		queries:     store.New(db),
		renderer:    renderer,
		catalog:     catalog,
		reviews:     reviews,
		suggestions: suggestions,
		activity:    activity,
	}
}

// IndexData is the catalog page payload.
type IndexData struct {
	Items          []model.Item
	Categories     []string
	RecentActivity []model.LogEntry
	Search         string
	TypeFilter     string
	SelectedCats   map[string]bool
}

// Index renders the catalog with title, type, and category filters.
func (h *FrontendHandler) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := query.Get("search")
	typeFilter := query.Get("type")
	if typeFilter == "" {
		typeFilter = "all"
	}
	selectedCats := query["category"]

	items, err := h.catalog.Filter(r.Context(), service.CatalogFilter{
		Search:     search,
		Type:       typeFilter,
		Categories: selectedCats,
	})
	if err != nil {
		logAndInternalError(w, "failed to filter catalog", "error", err)
		return
	}

	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load categories", "error", err)
		return
	}

	recent, err := h.activity.Recent(r.Context(), recentActivityLimit)
	if err != nil {
		logAndInternalError(w, "failed to load recent activity", "error", err)
		return
	}

	selected := make(map[string]bool, len(selectedCats))
	for _, c := range selectedCats {
		selected[c] = true
	}

	err = h.renderer.Render(w, r, "frontend/index", render.TemplateData{
		Title: "Catalog",
		User:  middleware.GetUser(r),
		Data: IndexData{
			Items:          items,
			Categories:     categories,
			RecentActivity: recent,
			Search:         search,
			TypeFilter:     typeFilter,
			SelectedCats:   selected,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render catalog", "error", err)
	}
}

// DetailData is the item detail page payload.
type DetailData struct {
	Item    model.Item
	Reviews []model.Review
}

// Detail renders an item with its reviews, newest first.
func (h *FrontendHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := h.queries.GetItemByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load item", "error", err, "item_id", id)
		return
	}

	reviews, err := h.reviews.ListForItem(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "failed to load reviews", "error", err, "item_id", id)
		return
	}

	err = h.renderer.Render(w, r, "frontend/detail", render.TemplateData{
		Title: item.Title,
		User:  middleware.GetUser(r),
		Data: DetailData{
			Item:    item,
			Reviews: reviews,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render detail", "error", err)
	}
}

// AddReview stores a review and returns to the item page. The route is
// wrapped in the auth middleware, so the user is always present here.
func (h *FrontendHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	detailURL := "/movie/" + strconv.FormatInt(id, 10)

	if !parseFormOrRedirect(w, r, h.renderer, detailURL) {
		return
	}

	username := middleware.GetUserName(r)
	_, err = h.reviews.Add(r.Context(), id, username, r.FormValue("comment"))
	switch {
	case errors.Is(err, service.ErrEmptyContent):
		// Empty text is dropped without a message, back to the item.
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
	case errors.Is(err, sql.ErrNoRows):
		http.NotFound(w, r)
	case err != nil:
		logAndInternalError(w, "failed to add review", "error", err, "item_id", id)
	default:
		h.activity.Record(r.Context(), username, "Reviewed item "+strconv.FormatInt(id, 10))
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
	}
}

// SuggestForm renders the suggestion form.
func (h *FrontendHandler) SuggestForm(w http.ResponseWriter, r *http.Request) {
	err := h.renderer.Render(w, r, "frontend/suggest", render.TemplateData{
		Title: "Suggest a Title",
		User:  middleware.GetUser(r),
	})
	if err != nil {
		logAndInternalError(w, "failed to render suggest form", "error", err)
	}
}

// SuggestSubmit creates a pending suggestion from the form.
func (h *FrontendHandler) SuggestSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteSuggest) {
		return
	}

	year, _ := strconv.ParseInt(r.FormValue("year"), 10, 64)
	username := middleware.GetUserName(r)

	sug, err := h.suggestions.Submit(r.Context(), service.SubmitSuggestionParams{
		Username: username,
		Title:    r.FormValue("title"),
		Year:     year,
		Type:     r.FormValue("type"),
		Category: r.FormValue("category"),
		Summary:  r.FormValue("summary"),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyContent) {
			flashError(w, r, h.renderer, RouteSuggest, "Title is required")
			return
		}
		flashError(w, r, h.renderer, RouteSuggest, "Invalid suggestion")
		return
	}

	h.activity.Record(r.Context(), username, "Suggested: "+sug.Title)
	flashSuccess(w, r, h.renderer, redirectIndex, "Suggestion submitted!")
}
