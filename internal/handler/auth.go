package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"cinelog/internal/auth"
	"cinelog/internal/middleware"
	"cinelog/internal/model"
	"cinelog/internal/render"
	"cinelog/internal/service"
	"cinelog/internal/store"
)

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	activity        *service.ActivityService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager,
	activity *service.ActivityService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		activity:        activity,
		loginProtection: lp,
	}
}

// LoginData is the login page payload. Error is set when a submission
// failed, so the page re-renders in place instead of redirecting.
type LoginData struct {
	Error    string
	Username string
}

// SignupForm renders the registration page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	if err := h.renderer.Render(w, r, "auth/signup", render.TemplateData{Title: "Sign Up"}); err != nil {
		logAndInternalError(w, "failed to render signup", "error", err)
	}
}

// Signup registers a new viewer account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignup) {
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if username == "" || password == "" {
		flashError(w, r, h.renderer, redirectSignup, "Username and password are required")
		return
	}
	if password != confirm {
		flashError(w, r, h.renderer, redirectSignup, "Passwords do not match!")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logAndInternalError(w, "failed to hash password", "error", err)
		return
	}

	// The UNIQUE constraint on users.name is the source of truth for
	// duplicates; no check-then-insert race.
	_, err = h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Name:         username,
		PasswordHash: hash,
		Email:        fmt.Sprintf("%s@example.com", username),
		Role:         model.RoleViewer,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			flashError(w, r, h.renderer, redirectSignup, "That username is already taken!")
			return
		}
		logAndInternalError(w, "failed to create user", "error", err)
		return
	}

	h.activity.Record(r.Context(), username, "Signed up")
	flashSuccess(w, r, h.renderer, redirectLogin, "Account created! Please log in.")
}

// LoginForm renders the login page. Signed-in users go back to the
// catalog.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfAuthenticated(w, r) {
		return
	}
	h.renderLogin(w, r, LoginData{})
}

// Login verifies credentials and establishes the session. A failed
// attempt re-renders the login page with an inline error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, LoginData{Error: "Invalid form data"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		h.renderLogin(w, r, LoginData{Error: "Username and password are required", Username: username})
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			h.renderLogin(w, r, LoginData{
				Error:    fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)),
				Username: username,
			})
			return
		}
	}

	user, err := h.queries.GetUserByName(r.Context(), username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Record the attempt for unknown users too, so the lockout
		// cannot be used to probe which names exist.
		h.recordFailure(username)
		h.renderLogin(w, r, LoginData{Error: "Invalid username or password", Username: username})
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !valid {
		h.recordFailure(username)
		h.renderLogin(w, r, LoginData{Error: "Invalid username or password", Username: username})
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Transparently upgrade hashes created with older parameters.
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	// New session ID on privilege change prevents session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.activity.Record(r.Context(), user.Name, "Logged in")
	http.Redirect(w, r, redirectIndex, http.StatusSeeOther)
}

// Logout records the event, destroys the session, and returns to the
// catalog. The audit entry is written first so it still carries the
// username.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.activity.Record(r.Context(), middleware.GetUserName(r), "Logged out")

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, redirectIndex, http.StatusSeeOther)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data LoginData) {
	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Log In",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render login", "error", err)
	}
}

func (h *AuthHandler) recordFailure(username string) {
	if h.loginProtection != nil {
		h.loginProtection.RecordFailedAttempt(username)
	}
}

// redirectIfAuthenticated sends signed-in users back to the catalog.
func (h *AuthHandler) redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	if h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID) > 0 {
		http.Redirect(w, r, redirectIndex, http.StatusSeeOther)
		return true
	}
	return false
}
