package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"cinelog/internal/model"
)

// testDB creates an in-memory SQLite database with the application schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'viewer',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			image TEXT NOT NULL,
			category TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			date_added TEXT NOT NULL
		);
		CREATE TABLE suggestions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			type TEXT NOT NULL,
			category TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending'
		);
		CREATE TABLE reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			action TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	return db
}

func createTestItem(t *testing.T, q *Queries, title, itemType, category, dateAdded string) model.Item {
	t.Helper()
	item, err := q.CreateItem(context.Background(), CreateItemParams{
		Title:     title,
		Image:     model.PlaceholderImage,
		Category:  category,
		Type:      itemType,
		Year:      2024,
		DateAdded: dateAdded,
	})
	if err != nil {
		t.Fatalf("CreateItem(%q) error: %v", title, err)
	}
	return item
}

func TestCreateUser_UniqueName(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	_, err := q.CreateUser(ctx, CreateUserParams{
		Name: "alice", PasswordHash: "x", Email: "alice@example.com",
		Role: model.RoleViewer, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	_, err = q.CreateUser(ctx, CreateUserParams{
		Name: "alice", PasswordHash: "y", Email: "other@example.com",
		Role: model.RoleViewer, CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("duplicate username should violate the UNIQUE constraint")
	}
	if !strings.Contains(err.Error(), "UNIQUE") {
		t.Errorf("expected UNIQUE constraint error, got: %v", err)
	}
}

func TestGetUserByName(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	created, err := q.CreateUser(ctx, CreateUserParams{
		Name: "bob", PasswordHash: "h", Email: "bob@example.com",
		Role: model.RoleAdmin, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	got, err := q.GetUserByName(ctx, "bob")
	if err != nil {
		t.Fatalf("GetUserByName error: %v", err)
	}
	if got.ID != created.ID || got.Role != model.RoleAdmin {
		t.Errorf("GetUserByName = %+v; want id %d role admin", got, created.ID)
	}

	if _, err := q.GetUserByName(ctx, "nobody"); err != sql.ErrNoRows {
		t.Errorf("missing user should return sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	_, err := q.CreateUser(ctx, CreateUserParams{
		Name: "carol", PasswordHash: "h", Email: "carol@example.com",
		Role: model.RoleViewer, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	if err := q.UpdateUserRole(ctx, UpdateUserRoleParams{Role: model.RoleAdmin, Name: "carol"}); err != nil {
		t.Fatalf("UpdateUserRole error: %v", err)
	}

	got, err := q.GetUserByName(ctx, "carol")
	if err != nil {
		t.Fatalf("GetUserByName error: %v", err)
	}
	if got.Role != model.RoleAdmin {
		t.Errorf("role = %q; want admin", got.Role)
	}
}

func TestFilterItems(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	createTestItem(t, q, "Dune", "movie", "Sci-Fi", "2024-01-15")
	createTestItem(t, q, "Dune 2", "movie", "Sci-Fi", "2024-03-01")
	createTestItem(t, q, "Severance", "series", "Drama", "2024-02-10")

	tests := []struct {
		name   string
		arg    FilterItemsParams
		titles []string
	}{
		{"no filters", FilterItemsParams{Search: "", Type: "all"}, []string{"Severance", "Dune 2", "Dune"}},
		{"search case-insensitive", FilterItemsParams{Search: "dune", Type: "all"}, []string{"Dune 2", "Dune"}},
		{"search mixed case", FilterItemsParams{Search: "DuNe", Type: "all"}, []string{"Dune 2", "Dune"}},
		{"type filter", FilterItemsParams{Search: "", Type: "series"}, []string{"Severance"}},
		{"search and type", FilterItemsParams{Search: "dune", Type: "series"}, nil},
		{"no match", FilterItemsParams{Search: "matrix", Type: "all"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := q.FilterItems(ctx, tt.arg)
			if err != nil {
				t.Fatalf("FilterItems error: %v", err)
			}
			var titles []string
			for _, it := range items {
				titles = append(titles, it.Title)
			}
			if len(titles) != len(tt.titles) {
				t.Fatalf("got titles %v; want %v", titles, tt.titles)
			}
			for i := range titles {
				if titles[i] != tt.titles[i] {
					t.Errorf("got titles %v; want %v", titles, tt.titles)
					break
				}
			}
		})
	}
}

func TestListItemsByDateRange(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	createTestItem(t, q, "January Pick", "movie", "Drama", "2024-01-15")
	createTestItem(t, q, "February Pick", "movie", "Drama", "2024-02-15")

	items, err := q.ListItemsByDateRange(ctx, ListItemsByDateRangeParams{
		Start: "2024-01-01", End: "2024-01-31",
	})
	if err != nil {
		t.Fatalf("ListItemsByDateRange error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "January Pick" {
		t.Errorf("got %d items; want exactly January Pick", len(items))
	}

	// Boundary dates are inclusive.
	items, err = q.ListItemsByDateRange(ctx, ListItemsByDateRangeParams{
		Start: "2024-01-15", End: "2024-02-15",
	})
	if err != nil {
		t.Fatalf("ListItemsByDateRange error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("inclusive range should return both items, got %d", len(items))
	}
}

func TestListCategories(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	createTestItem(t, q, "Dune", "movie", "Sci-Fi", "2024-01-01")
	createTestItem(t, q, "Dune 2", "movie", "Sci-Fi", "2024-01-02")
	createTestItem(t, q, "Severance", "series", "Drama", "2024-01-03")

	categories, err := q.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories; want 2 (distinct)", len(categories))
	}
	if categories[0] != "Drama" || categories[1] != "Sci-Fi" {
		t.Errorf("categories = %v; want [Drama Sci-Fi]", categories)
	}
}

func TestMarkSuggestionApproved_Idempotent(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	s, err := q.CreateSuggestion(ctx, CreateSuggestionParams{
		Username: "alice", Title: "Arrival", Year: 2016, Type: "movie",
		Category: "Sci-Fi", Summary: "First contact.", Status: model.SuggestionPending,
	})
	if err != nil {
		t.Fatalf("CreateSuggestion error: %v", err)
	}

	rows, err := q.MarkSuggestionApproved(ctx, s.ID)
	if err != nil {
		t.Fatalf("MarkSuggestionApproved error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first approval should update 1 row, got %d", rows)
	}

	rows, err = q.MarkSuggestionApproved(ctx, s.ID)
	if err != nil {
		t.Fatalf("MarkSuggestionApproved error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second approval should update 0 rows, got %d", rows)
	}

	got, err := q.GetSuggestionByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSuggestionByID error: %v", err)
	}
	if got.Status != model.SuggestionApproved {
		t.Errorf("status = %q; want approved", got.Status)
	}
}

func TestListReviewsByItem_NewestFirst(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	item := createTestItem(t, q, "Dune", "movie", "Sci-Fi", "2024-01-01")

	for _, content := range []string{"first", "second", "third"} {
		if _, err := q.CreateReview(ctx, CreateReviewParams{
			ItemID: item.ID, Username: "alice", Content: content, CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateReview error: %v", err)
		}
	}

	reviews, err := q.ListReviewsByItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("ListReviewsByItem error: %v", err)
	}
	if len(reviews) != 3 {
		t.Fatalf("got %d reviews; want 3", len(reviews))
	}
	if reviews[0].Content != "third" || reviews[2].Content != "first" {
		t.Errorf("reviews should be newest first, got %q..%q", reviews[0].Content, reviews[2].Content)
	}
}

func TestListLogsByTimeRange(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	entries := []struct {
		action string
		at     time.Time
	}{
		{"in range", base},
		{"before range", base.AddDate(0, -1, 0)},
		{"after range", base.AddDate(0, 1, 0)},
	}
	for _, e := range entries {
		if _, err := q.CreateLog(ctx, CreateLogParams{
			Username: "alice", Action: e.action, CreatedAt: e.at,
		}); err != nil {
			t.Fatalf("CreateLog error: %v", err)
		}
	}

	got, err := q.ListLogsByTimeRange(ctx, ListLogsByTimeRangeParams{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("ListLogsByTimeRange error: %v", err)
	}
	if len(got) != 1 || got[0].Action != "in range" {
		t.Errorf("got %d entries; want exactly the in-range entry", len(got))
	}
}

func TestListRecentLogs(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if _, err := q.CreateLog(ctx, CreateLogParams{
			Username: model.GuestUser, Action: "visit", CreatedAt: time.Now(),
		}); err != nil {
			t.Fatalf("CreateLog error: %v", err)
		}
	}

	got, err := q.ListRecentLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentLogs error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("got %d entries; want 10", len(got))
	}
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, true); err != nil {
		t.Fatalf("Seed error: %v", err)
	}

	user, err := New(db).GetUserByName(ctx, DefaultAdminName)
	if err != nil {
		t.Fatalf("seeded admin not found: %v", err)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("seeded role = %q; want admin", user.Role)
	}

	// Second run is a no-op.
	if err := Seed(ctx, db, true); err != nil {
		t.Fatalf("repeat Seed error: %v", err)
	}
	count, err := New(db).CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers error: %v", err)
	}
	if count != 1 {
		t.Errorf("user count = %d; want 1", count)
	}
}

func TestSeed_Disabled(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := Seed(ctx, db, false); err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	count, err := New(db).CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers error: %v", err)
	}
	if count != 0 {
		t.Errorf("disabled seed should create no users, got %d", count)
	}
}
