package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"cinelog/internal/middleware"
	"cinelog/internal/model"
	"cinelog/internal/render"
	"cinelog/internal/service"
	"cinelog/internal/store"
)

// AdminHandler serves the admin area: dashboard, catalog management,
// members, suggestions, and reports.
type AdminHandler struct {
	queries     *store.Queries
	renderer    *render.Renderer
	catalog     *service.CatalogService
	suggestions *service.SuggestionService
	posters     *service.PosterService
	reports     *service.ReportService
	activity    *service.ActivityService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, catalog *service.CatalogService,
	suggestions *service.SuggestionService, posters *service.PosterService,
	reports *service.ReportService, activity *service.ActivityService) *AdminHandler {
	return &AdminHandler{
		queries:     store.New(db),
		renderer:    renderer,
		catalog:     catalog,
		suggestions: suggestions,
		posters:     posters,
		reports:     reports,
		activity:    activity,
	}
}

// DashboardData is the admin landing page payload.
type DashboardData struct {
	Counts         service.DashboardCounts
	RecentActivity []model.LogEntry
}

// Dashboard renders the admin landing page with catalog counts and the
// latest audit entries.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalog.Counts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load dashboard counts", "error", err)
		return
	}
	recent, err := h.activity.Recent(r.Context(), recentActivityLimit)
	if err != nil {
		logAndInternalError(w, "failed to load recent activity", "error", err)
		return
	}

	h.renderAdmin(w, r, "admin/dashboard", "Dashboard", DashboardData{
		Counts:         counts,
		RecentActivity: recent,
	})
}

// Manage lists all catalog items, newest first.
func (h *AdminHandler) Manage(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListItems(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list items", "error", err)
		return
	}

	h.renderAdmin(w, r, "admin/manage", "Manage Catalog", items)
}

// AddMovieForm renders the item creation form.
func (h *AdminHandler) AddMovieForm(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, "admin/add_movie", "Add Movie / Series", nil)
}

// AddMovie creates a catalog item from a multipart form with an
// optional poster upload.
func (h *AdminHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(service.MaxPosterUploadSize + 1<<20); err != nil {
		flashError(w, r, h.renderer, redirectAdminAddMovie, "Invalid form data")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		flashError(w, r, h.renderer, redirectAdminAddMovie, "Title is required")
		return
	}
	itemType := r.FormValue("type")
	if itemType != model.TypeMovie && itemType != model.TypeSeries {
		flashError(w, r, h.renderer, redirectAdminAddMovie, "Invalid type")
		return
	}
	year, _ := strconv.ParseInt(r.FormValue("year"), 10, 64)

	imagePath := model.PlaceholderImage
	if file, header, err := r.FormFile("poster"); err == nil {
		defer func() { _ = file.Close() }()
		imagePath, err = h.posters.Store(file, header.Filename)
		if err != nil {
			if errors.Is(err, service.ErrPosterTooLarge) {
				flashError(w, r, h.renderer, redirectAdminAddMovie, "Poster file is too large")
				return
			}
			flashError(w, r, h.renderer, redirectAdminAddMovie, "Could not process poster image")
			return
		}
	}

	item, err := h.queries.CreateItem(r.Context(), store.CreateItemParams{
		Title:       title,
		Image:       imagePath,
		Category:    r.FormValue("category"),
		Type:        itemType,
		Description: r.FormValue("description"),
		Year:        year,
		DateAdded:   time.Now().Format(model.ItemDateFormat),
	})
	if err != nil {
		logAndInternalError(w, "failed to create item", "error", err)
		return
	}

	h.catalog.InvalidateCatalog(r.Context())
	h.activity.Record(r.Context(), middleware.GetUserName(r), "Added item: "+item.Title)
	flashSuccess(w, r, h.renderer, redirectAdminManage, "Movie/series added!")
}

// Members lists all registered users.
func (h *AdminHandler) Members(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list users", "error", err)
		return
	}

	h.renderAdmin(w, r, "admin/members", "Members", users)
}

// UpdateRole changes a member's role.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminMembers) {
		return
	}

	newRole := r.FormValue("new_role")
	if !model.IsValidRole(newRole) {
		flashError(w, r, h.renderer, redirectAdminMembers, "Invalid role")
		return
	}

	if err := h.queries.UpdateUserRole(r.Context(), store.UpdateUserRoleParams{
		Role: newRole,
		Name: username,
	}); err != nil {
		logAndInternalError(w, "failed to update role", "error", err, "user", username)
		return
	}

	h.activity.Record(r.Context(), middleware.GetUserName(r),
		fmt.Sprintf("Changed role of %s to %s", username, newRole))
	flashSuccess(w, r, h.renderer, redirectAdminMembers, "Role updated")
}

// Suggestions lists user suggestions, newest first.
func (h *AdminHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.suggestions.List(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list suggestions", "error", err)
		return
	}

	h.renderAdmin(w, r, "admin/suggestions", "Suggestions", suggestions)
}

// Approve converts a pending suggestion into a catalog item.
// Re-approving is a no-op with a notice, never a duplicate item.
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := h.suggestions.Approve(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrAlreadyApproved):
		flashAndRedirect(w, r, h.renderer, redirectAdminSuggestions, "Suggestion was already approved", "info")
	case errors.Is(err, sql.ErrNoRows):
		flashError(w, r, h.renderer, redirectAdminSuggestions, "Suggestion not found")
	case err != nil:
		logAndInternalError(w, "failed to approve suggestion", "error", err, "suggestion_id", id)
	default:
		h.catalog.InvalidateCatalog(r.Context())
		h.activity.Record(r.Context(), middleware.GetUserName(r), "Approved suggestion: "+item.Title)
		flashSuccess(w, r, h.renderer, redirectAdminSuggestions, "Suggestion approved")
	}
}

// ReportForm renders the report selection form.
func (h *AdminHandler) ReportForm(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, "admin/report", "Reports", nil)
}

// ExportPDF generates the selected report and returns it as a download.
func (h *AdminHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminReport) {
		return
	}

	report, err := h.reports.Generate(r.Context(),
		r.FormValue("report_type"), r.FormValue("start_date"), r.FormValue("end_date"))
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminReport, "Invalid report parameters")
		return
	}

	h.activity.Record(r.Context(), middleware.GetUserName(r), "Exported "+report.Filename)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	_, _ = w.Write(report.Content)
}

func (h *AdminHandler) renderAdmin(w http.ResponseWriter, r *http.Request, template, title string, data any) {
	err := h.renderer.Render(w, r, template, render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "failed to render admin page", "template", template, "error", err)
	}
}
