package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

func TestItemReportExactLines(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	addItem(t, db, "Dune", model.TypeMovie, "Sci-Fi", "2024-01-15")
	addItem(t, db, "Severance", model.TypeSeries, "Sci-Fi", "2024-02-10")

	_, title, lines, err := svc.reportContent(ctx, ReportItems, "2024-01-01", "2024-01-31",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Movie & Series Report (2024-01-01 to 2024-01-31)", title)
	// Exactly the January item, in the expected format.
	require.Len(t, lines, 1)
	assert.Equal(t, "- Dune | Type: movie | Added: 2024-01-15", lines[0])
}

func TestLogReportWidensToFullDays(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	queries := store.New(db)
	late := time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC)
	outside := time.Date(2024, 2, 1, 0, 30, 0, 0, time.UTC)

	_, err := queries.CreateLog(ctx, store.CreateLogParams{Username: "alice", Action: "logged in", CreatedAt: late})
	require.NoError(t, err)
	_, err = queries.CreateLog(ctx, store.CreateLogParams{Username: "bob", Action: "logged in", CreatedAt: outside})
	require.NoError(t, err)

	reportType, title, lines, err := svc.reportContent(ctx, "anything-else", "2024-01-01", "2024-01-31",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, ReportLogs, reportType)
	assert.Equal(t, "System Usage Logs (2024-01-01 to 2024-01-31)", title)
	// The 23:30 entry on the end date is included, the Feb 1 one is not.
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "alice: logged in")
	assert.True(t, strings.HasPrefix(lines[0], "[2024-01-31 23:30:00]"), lines[0])
}

func TestGenerateEmptyRangeStillValidPDF(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)

	report, err := svc.Generate(context.Background(), ReportItems, "2030-01-01", "2030-01-31")
	require.NoError(t, err)

	assert.Equal(t, "report_items.pdf", report.Filename)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF-")), "not a PDF header")
	assert.Equal(t, 1, bytes.Count(report.Content, []byte("/Type /Page\n")))
}

func TestGeneratePaginatesLongReports(t *testing.T) {
	// The first page holds 36 lines (y from 750 down to 50 in steps of
	// 20); the rest spill onto a second page.
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "- Filler | Type: movie | Added: 2024-01-01")
	}

	content, err := renderPDF("Movie & Series Report (2024-01-01 to 2024-01-31)", lines)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
	assert.Equal(t, 2, bytes.Count(content, []byte("/Type /Page\n")))
}

func TestGenerateRejectsBadDates(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)
	ctx := context.Background()

	_, err := svc.Generate(ctx, ReportItems, "not-a-date", "2024-01-31")
	assert.Error(t, err)

	_, err = svc.Generate(ctx, ReportItems, "2024-02-01", "2024-01-01")
	assert.Error(t, err)
}

func TestGenerateLogFilename(t *testing.T) {
	db := testDB(t)
	svc := NewReportService(db)

	report, err := svc.Generate(context.Background(), "logs", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "report_logs.pdf", report.Filename)
}
