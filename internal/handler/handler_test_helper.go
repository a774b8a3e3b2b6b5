package handler

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"cinelog/internal/auth"
	"cinelog/internal/cache"
	"cinelog/internal/imaging"
	"cinelog/internal/middleware"
	"cinelog/internal/model"
	"cinelog/internal/render"
	"cinelog/internal/service"
	"cinelog/internal/store"
	"cinelog/web"
)

// testDB creates a temporary database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp wires the handlers into a router the way the server does,
// minus CSRF protection so form posts stay simple.
func testApp(t *testing.T, db *sql.DB) http.Handler {
	t.Helper()

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	require.NoError(t, err)

	logger := testLogger()
	appCache := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = appCache.Close() })

	catalogSvc := service.NewCatalogService(db, appCache, logger)
	reviewSvc := service.NewReviewService(db)
	suggestionSvc := service.NewSuggestionService(db)
	activitySvc := service.NewActivityService(db, logger)
	posterSvc := service.NewPosterService(imaging.NewProcessor(t.TempDir()))
	reportSvc := service.NewReportService(db)
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	frontendHandler := NewFrontendHandler(db, renderer, catalogSvc, reviewSvc, suggestionSvc, activitySvc)
	authHandler := NewAuthHandler(db, renderer, sm, activitySvc, lp)
	adminHandler := NewAdminHandler(db, renderer, catalogSvc, suggestionSvc, posterSvc, reportSvc, activitySvc)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, db))
		r.Get(RouteRoot, frontendHandler.Index)
		r.Get(RouteMovieDetail, frontendHandler.Detail)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Use(middleware.LoadUser(sm, db))
		r.Post(RouteAddReview, frontendHandler.AddReview)
		r.Get(RouteSuggest, frontendHandler.SuggestForm)
		r.Post(RouteSuggest, frontendHandler.SuggestSubmit)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, db))
		r.Get(RouteSignup, authHandler.SignupForm)
		r.Post(RouteSignup, authHandler.Signup)
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
		r.Get(RouteLogout, authHandler.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(sm))
		r.Use(middleware.LoadUser(sm, db))
		r.Use(middleware.RequireAdmin)
		r.Get(RouteAdminDashboard, adminHandler.Dashboard)
		r.Get(RouteAdminManage, adminHandler.Manage)
		r.Get(RouteAdminAddMovie, adminHandler.AddMovieForm)
		r.Post(RouteAdminAddMovie, adminHandler.AddMovie)
		r.Get(RouteAdminMembers, adminHandler.Members)
		r.Post(RouteAdminUpdateRole, adminHandler.UpdateRole)
		r.Get(RouteAdminSuggestions, adminHandler.Suggestions)
		r.Get(RouteAdminApprove, adminHandler.Approve)
		r.Post(RouteAdminApprove, adminHandler.Approve)
		r.Get(RouteAdminReport, adminHandler.ReportForm)
		r.Post(RouteAdminExportPDF, adminHandler.ExportPDF)
	})

	return r
}

// testClient is an HTTP client with a cookie jar that does not follow
// redirects, so tests can assert on Location headers.
func testClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func testServer(t *testing.T, db *sql.DB) (*httptest.Server, *http.Client) {
	t.Helper()

	srv := httptest.NewServer(testApp(t, db))
	t.Cleanup(srv.Close)
	return srv, testClient(t)
}

// createUser inserts a user with a hashed password.
func createUser(t *testing.T, db *sql.DB, name, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Name:         name,
		PasswordHash: hash,
		Email:        name + "@example.com",
		Role:         role,
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return user
}

// login posts credentials and expects a redirect to the catalog.
func login(t *testing.T, srv *httptest.Server, client *http.Client, name, password string) {
	t.Helper()

	resp, err := client.PostForm(srv.URL+RouteLogin, url.Values{
		"username": {name},
		"password": {password},
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "login should redirect")
	require.Equal(t, redirectIndex, resp.Header.Get("Location"))
}

// multipartForm encodes fields as a multipart body for upload endpoints.
func multipartForm(t *testing.T, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func addItem(t *testing.T, db *sql.DB, title, itemType, category string) model.Item {
	t.Helper()

	item, err := store.New(db).CreateItem(context.Background(), store.CreateItemParams{
		Title:     title,
		Image:     model.PlaceholderImage,
		Category:  category,
		Type:      itemType,
		Year:      2024,
		DateAdded: time.Now().Format(model.ItemDateFormat),
	})
	require.NoError(t, err)
	return item
}
