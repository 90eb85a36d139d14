package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"floor-backend/internal/services"
	"floor-backend/internal/timeutil"

	"go.uber.org/zap"
)

type ReportHandler struct {
	Service *services.ReportService
	log     *zap.Logger
}

func NewReportHandler(s *services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Service: s, log: log.Named("reports")}
}

// DashboardPDF handles GET /api/reports/dashboard.pdf with the same query
// parameters as the dashboard.
func (h *ReportHandler) DashboardPDF(w http.ResponseWriter, r *http.Request) {
	req, ok := dashboardRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	data, d, err := h.Service.DashboardPDF(ctx, req)
	if err != nil {
		respondError(w, h.log, err, "failed to generate report")
		return
	}

	filename := fmt.Sprintf("floor_report_%s_%s.pdf", d.Period, d.GeneratedAt.In(timeutil.Location()).Format("20060102_1504"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
