package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"floor-backend/internal/analytics"
	"floor-backend/internal/models"
	"floor-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"go.uber.org/zap"
)

// Archiver keeps a copy of every rendered report
type Archiver interface {
	PutReport(ctx context.Context, period string, at time.Time, pdf []byte) (string, error)
}

// ReportService renders dashboards as PDF
type ReportService struct {
	Dashboards *DashboardService
	Archive    Archiver
	log        *zap.Logger
}

func NewReportService(dashboards *DashboardService, archive Archiver, log *zap.Logger) *ReportService {
	return &ReportService{Dashboards: dashboards, Archive: archive, log: log.Named("reports")}
}

// DashboardPDF renders the dashboard of req. When an archive is set the
// PDF is uploaded too; upload failures are logged and do not fail the
// request.
func (s *ReportService) DashboardPDF(ctx context.Context, req DashboardRequest) ([]byte, *Dashboard, error) {
	d, err := s.Dashboards.Dashboard(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	data, err := RenderDashboardPDF(d)
	if err != nil {
		return nil, nil, err
	}

	if s.Archive != nil {
		if _, err := s.Archive.PutReport(ctx, d.Period, d.GeneratedAt, data); err != nil {
			s.log.Warn("failed to archive report", zap.String("period", d.Period), zap.Error(err))
		}
	}
	return data, d, nil
}

const dateLayout = "02-Jan-2006 03:04 PM"

// RenderDashboardPDF lays out a dashboard on A4 pages
func RenderDashboardPDF(d *Dashboard) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	loc := timeutil.Location()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Production Floor Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("%s to %s", d.Window.Start.In(loc).Format(dateLayout), d.Window.End.In(loc).Format(dateLayout)), "", 1, "C", false, 0, "")
	line := "All lines"
	if d.LineID != "" {
		line = "Line " + d.LineID
	}
	pdf.CellFormat(190, 6, fmt.Sprintf("%s | Period: %s | Generated: %s", line, d.Period, d.GeneratedAt.In(loc).Format(dateLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	sectionTitle(pdf, "Overview")
	pdf.SetFont("Arial", "", 11)
	o := d.Overview
	pdf.CellFormat(63, 8, fmt.Sprintf("Downtime: %s h", o.TotalDowntimeHours), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Availability: %.1f%%", o.Availability), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Trend: %s", trendLabel(o.DowntimeTrend)), "1", 1, "C", false, 0, "")
	for _, c := range o.ByCategory {
		pdf.CellFormat(95, 7, categoryLabel(c.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, fmt.Sprintf("%s h", analytics.MinutesToHours(c.Value)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	reasonTable(pdf, "Machine Downtime", d.Machine.TopReasons)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 7, fmt.Sprintf("Avg repair: %.1f min", d.Machine.Repair.Average), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Avg response: %.1f min", d.Machine.Response.Average), "1", 1, "L", false, 0, "")
	pdf.Ln(5)

	reasonTable(pdf, "Supply Downtime", d.Supply.TopReasons)
	pdf.Ln(5)

	reasonTable(pdf, "Style Changeover", d.Changeover.TopReasons)
	if len(d.Changeover.Steps) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(80, 7, "Step", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Records", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Avg (min)", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Trend", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, st := range d.Changeover.Steps {
			pdf.CellFormat(80, 6, st.Step, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%d", st.Count), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", st.AverageTime), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, trendLabel(st.Trend), "1", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(5)

	qualityTable(pdf, "Rejects", d.Rejects)
	pdf.Ln(5)
	qualityTable(pdf, "Reworks", d.Reworks)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, title, "1", 1, "L", true, 0, "")
}

func reasonTable(pdf *gofpdf.Fpdf, title string, reasons []analytics.ReasonSummary) {
	sectionTitle(pdf, title)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Reason", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Time Lost (h)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Count", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Trend", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(reasons) == 0 {
		pdf.CellFormat(190, 6, "No downtime recorded", "1", 1, "C", false, 0, "")
		return
	}
	for _, r := range reasons {
		pdf.CellFormat(90, 6, truncate(r.Reason, 45), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, analytics.MinutesToHours(r.TimeLost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", r.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, trendLabel(r.Trend), "1", 1, "C", false, 0, "")
	}
}

func qualityTable(pdf *gofpdf.Fpdf, title string, q analytics.QualitySummary) {
	sectionTitle(pdf, fmt.Sprintf("%s (%d units, cost %.2f)", title, q.TotalCount, q.TotalCost))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(90, 7, "Reason", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Units", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Cost", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Trend", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(q.TopReasons) == 0 {
		pdf.CellFormat(190, 6, "Nothing recorded", "1", 1, "C", false, 0, "")
		return
	}
	for _, r := range q.TopReasons {
		pdf.CellFormat(90, 6, truncate(r.Reason, 45), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", r.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", r.Cost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, trendLabel(r.Trend), "1", 1, "C", false, 0, "")
	}
}

func trendLabel(t analytics.TrendData) string {
	switch t.Direction {
	case analytics.DirectionUp:
		return fmt.Sprintf("+%.1f%%", t.Trend)
	case analytics.DirectionDown:
		return fmt.Sprintf("%.1f%%", t.Trend)
	}
	return "-"
}

func categoryLabel(name string) string {
	switch name {
	case models.DowntimeMachine:
		return "Machine"
	case models.DowntimeSupply:
		return "Supply"
	case models.DowntimeStyleChangeover:
		return "Style Changeover"
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
