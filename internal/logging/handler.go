// Package logging provides a custom slog handler that integrates with the
// audit log. It forwards records at WARN level and above to the
// database-backed logs table so operational faults show up in the admin
// activity views alongside user actions.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"cinelog/internal/store"
)

// SystemUser is the username recorded for application-generated log entries.
const SystemUser = "system"

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the audit log.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to the audit log
}

// NewAuditLogHandler creates a new AuditLogHandler that wraps the given
// handler. Records at WARN level and above are written to both the wrapped
// handler and the audit log.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

// writeToAuditLog writes a log record to the logs table.
// A background context is used so the entry is recorded even if the
// request context has been cancelled.
func (h *AuditLogHandler) writeToAuditLog(r slog.Record) {
	_, _ = h.queries.CreateLog(context.Background(), store.CreateLogParams{
		Username:  SystemUser,
		Action:    formatAction(r),
		CreatedAt: r.Time,
	})
}

// formatAction renders the record message and its attributes as a single
// audit action string, e.g. `template render failed (name=detail err=EOF)`.
func formatAction(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return r.Message
	}

	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(" (")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if !first {
			sb.WriteString(" ")
		}
		first = false
		sb.WriteString(a.Key)
		sb.WriteString("=")
		sb.WriteString(a.Value.String())
		return true
	})
	sb.WriteString(")")
	return sb.String()
}
