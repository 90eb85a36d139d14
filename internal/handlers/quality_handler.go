package handlers

import (
	"net/http"

	"floor-backend/internal/middleware"
	"floor-backend/internal/models"
	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type QualityHandler struct {
	Service *services.QualityService
	log     *zap.Logger
}

func NewQualityHandler(s *services.QualityService, log *zap.Logger) *QualityHandler {
	return &QualityHandler{Service: s, log: log.Named("quality")}
}

func (h *QualityHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req models.LogQualityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	issue, err := h.Service.Log(r.Context(), &req, userID)
	if err != nil {
		respondError(w, h.log, err, "failed to log quality issue")
		return
	}
	utils.JSON(w, http.StatusCreated, issue)
}

// List handles GET /api/quality?line=&session=&kind=&from=&to=
func (h *QualityHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	times, ok := timeParams(w, q, "from", "to")
	if !ok {
		return
	}
	issues, err := h.Service.List(r.Context(), models.QualityFilter{
		ProductionLineID: q.Get("line"),
		SessionID:        q.Get("session"),
		Kind:             q.Get("kind"),
		From:             times[0],
		To:               times[1],
	})
	if err != nil {
		respondError(w, h.log, err, "failed to list quality issues")
		return
	}
	utils.JSON(w, http.StatusOK, issues)
}

func (h *QualityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.log, err, "failed to delete quality issue")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
