package handlers

import (
	"net/http"

	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"go.uber.org/zap"
)

type DashboardHandler struct {
	Service *services.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(s *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Service: s, log: log.Named("dashboard")}
}

// dashboardRequest reads ?period=&line=&from=&to=
func dashboardRequest(w http.ResponseWriter, r *http.Request) (services.DashboardRequest, bool) {
	q := r.URL.Query()
	times, ok := timeParams(w, q, "from", "to")
	if !ok {
		return services.DashboardRequest{}, false
	}
	return services.DashboardRequest{
		Period: q.Get("period"),
		LineID: q.Get("line"),
		From:   times[0],
		To:     times[1],
	}, true
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, ok := dashboardRequest(w, r)
	if !ok {
		return
	}
	d, err := h.Service.Dashboard(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err, "failed to load dashboard")
		return
	}
	utils.JSON(w, http.StatusOK, d)
}
