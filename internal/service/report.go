package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"cinelog/internal/model"
	"cinelog/internal/store"
)

// Report types accepted by Generate. Anything other than "items" falls
// back to the log report.
const (
	ReportItems = "items"
	ReportLogs  = "logs"
)

// PDF layout in points, measured from the bottom of an A4 page.
const (
	pageHeightPt  = 841.89
	titleX        = 100.0
	titleY        = 800.0
	bodyX         = 50.0
	bodyStartY    = 750.0
	bodyTopY      = 800.0 // cursor position after a page break
	bodyBottomY   = 50.0
	lineSpacingPt = 20.0
	titleFontSize = 16.0
	bodyFontSize  = 10.0
)

// Report is a generated document ready to send as an attachment.
type Report struct {
	Filename string
	Content  []byte
}

// ReportService renders catalog and activity reports as PDF documents.
type ReportService struct {
	queries *store.Queries
}

// NewReportService creates a ReportService.
func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{
		queries: store.New(db),
	}
}

// Generate builds a PDF report for the inclusive [start, end] date
// range. Dates are calendar days in YYYY-MM-DD form; the log report
// widens them to full days. A range with no matching rows still yields
// a well-formed document with the title line only.
func (s *ReportService) Generate(ctx context.Context, reportType, startDate, endDate string) (*Report, error) {
	start, err := time.Parse(model.ItemDateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	end, err := time.Parse(model.ItemDateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	reportType, title, lines, err := s.reportContent(ctx, reportType, startDate, endDate, start, end)
	if err != nil {
		return nil, err
	}

	content, err := renderPDF(title, lines)
	if err != nil {
		return nil, err
	}

	return &Report{
		Filename: fmt.Sprintf("report_%s.pdf", reportType),
		Content:  content,
	}, nil
}

// reportContent selects the rows for the requested report and formats
// one body line per row.
func (s *ReportService) reportContent(ctx context.Context, reportType, startDate, endDate string, start, end time.Time) (string, string, []string, error) {
	var title string
	var lines []string

	if reportType == ReportItems {
		title = fmt.Sprintf("Movie & Series Report (%s to %s)", startDate, endDate)
		items, err := s.queries.ListItemsByDateRange(ctx, store.ListItemsByDateRangeParams{
			Start: startDate,
			End:   endDate,
		})
		if err != nil {
			return "", "", nil, err
		}
		for _, item := range items {
			lines = append(lines, fmt.Sprintf("- %s | Type: %s | Added: %s",
				item.Title, item.Type, item.DateAdded))
		}
	} else {
		reportType = ReportLogs
		title = fmt.Sprintf("System Usage Logs (%s to %s)", startDate, endDate)
		logs, err := s.queries.ListLogsByTimeRange(ctx, store.ListLogsByTimeRangeParams{
			Start: start,
			End:   end.Add(24*time.Hour - time.Second),
		})
		if err != nil {
			return "", "", nil, err
		}
		for _, entry := range logs {
			lines = append(lines, fmt.Sprintf("[%s] %s: %s",
				entry.CreatedAt.Format(model.LogTimeFormat), entry.Username, entry.Action))
		}
	}

	return reportType, title, lines, nil
}

// renderPDF lays out the title and body lines on A4 pages. Coordinates
// are kept in bottom-origin form and flipped for fpdf's top-origin
// Text calls.
func renderPDF(title string, lines []string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.Text(titleX, pageHeightPt-titleY, title)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	y := bodyStartY
	for _, line := range lines {
		if y < bodyBottomY {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", bodyFontSize)
			y = bodyTopY
		}
		pdf.Text(bodyX, pageHeightPt-y, line)
		y -= lineSpacingPt
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
