package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"

	"cinelog/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "cinelog-logging-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	})

	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestAuditLogHandler_ErrorLevel(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewAuditLogHandler(discardHandler{}, db))
	logger.Error("poster save failed", "path", "/uploads/x.jpg")

	entries, err := store.New(db).ListRecentLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d log entries; want 1", len(entries))
	}
	if entries[0].Username != SystemUser {
		t.Errorf("username = %q; want %q", entries[0].Username, SystemUser)
	}
	want := "poster save failed (path=/uploads/x.jpg)"
	if entries[0].Action != want {
		t.Errorf("action = %q; want %q", entries[0].Action, want)
	}
}

func TestAuditLogHandler_InfoNotForwarded(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewAuditLogHandler(discardHandler{}, db))
	logger.Info("server started", "addr", "localhost:8080")

	entries, err := store.New(db).ListRecentLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("info records should not reach the audit log, got %d entries", len(entries))
	}
}

func TestAuditLogHandler_NoAttrs(t *testing.T) {
	db := testDB(t)

	logger := slog.New(NewAuditLogHandler(discardHandler{}, db))
	logger.Warn("cache unavailable")

	entries, err := store.New(db).ListRecentLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentLogs: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d log entries; want 1", len(entries))
	}
	if entries[0].Action != "cache unavailable" {
		t.Errorf("action = %q; want bare message", entries[0].Action)
	}
}
