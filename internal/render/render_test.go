package render

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"unicode/utf8"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}<html><body>` +
				`{{with .Flash}}<div class="flash {{$.FlashType}}">{{.}}</div>{{end}}` +
				`{{template "content" .}}</body></html>{{end}}`)},
		"layouts/admin.html": {Data: []byte(
			`{{define "content"}}<nav>admin</nav>{{template "admin-content" .}}{{end}}`)},
		"partials/flash.html": {Data: []byte(``)},
		"frontend/index.html": {Data: []byte(
			`{{define "content"}}<h1>{{.Title}}</h1>{{markdown .Data}}{{end}}`)},
		"admin/dashboard.html": {Data: []byte(
			`{{define "admin-content"}}<p>{{.Title}}</p>{{end}}`)},
	}
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testTemplatesFS(), SessionManager: sm, IsDev: true})
	require.NoError(t, err)
	return r
}

func TestRenderFrontendPage(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(rec, req, "frontend/index", TemplateData{Title: "Catalog", Data: "plain text"})
	require.NoError(t, err)

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>Catalog</h1>")
}

func TestRenderAdminUsesAdminLayout(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	err := r.Render(rec, req, "admin/dashboard", TemplateData{Title: "Dashboard"})
	require.NoError(t, err)

	assert.Contains(t, rec.Body.String(), "<nav>admin</nav>")
	assert.Contains(t, rec.Body.String(), "<p>Dashboard</p>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(rec, req, "frontend/missing", TemplateData{})
	assert.Error(t, err)
	assert.Empty(t, rec.Body.String())
}

func TestMarkdownSanitizesScript(t *testing.T) {
	r := newTestRenderer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := r.Render(rec, req, "frontend/index",
		TemplateData{Title: "x", Data: "**bold** <script>alert(1)</script>"})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "<strong>bold</strong>")
	assert.NotContains(t, body, "<script>")
}

func TestFlashPoppedFromSession(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, "Movie added!", "success")
		err := r.Render(w, req, "frontend/index", TemplateData{Title: "Catalog", Data: ""})
		require.NoError(t, err)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), `<div class="flash success">Movie added!</div>`)

	// A second render must not repeat the flash.
	handler2 := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		err := r.Render(w, req, "frontend/index", TemplateData{Title: "Catalog", Data: ""})
		require.NoError(t, err)
	}))
	rec2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	handler2.ServeHTTP(rec2, req2)
	assert.NotContains(t, rec2.Body.String(), "Movie added!")
}

func TestFormatItemDateFunc(t *testing.T) {
	r := newTestRenderer(t, nil)
	fn := r.templateFuncs()["formatItemDate"].(func(string) string)

	assert.Equal(t, "Mar 1, 2024", fn("2024-03-01"))
	// Unparseable input passes through untouched.
	assert.Equal(t, "soon", fn("soon"))
}

func TestTruncateCountsRunes(t *testing.T) {
	r := newTestRenderer(t, nil)
	fn := r.templateFuncs()["truncate"].(func(string, int) string)

	assert.Equal(t, "héllo", fn("héllo", 10))
	assert.Equal(t, "hél...", fn("héllo wörld", 3))
	// Cutting inside a multibyte sequence must never produce invalid UTF-8.
	assert.Equal(t, "日本...", fn("日本語テキスト", 2))
	assert.True(t, utf8.ValidString(fn("crème brûlée", 5)))
}
