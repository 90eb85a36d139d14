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

type DowntimeHandler struct {
	Service *services.DowntimeService
	log     *zap.Logger
}

func NewDowntimeHandler(s *services.DowntimeService, log *zap.Logger) *DowntimeHandler {
	return &DowntimeHandler{Service: s, log: log.Named("downtime")}
}

func (h *DowntimeHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req models.LogDowntimeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	rec, err := h.Service.Log(r.Context(), &req, userID)
	if err != nil {
		respondError(w, h.log, err, "failed to log downtime")
		return
	}
	utils.JSON(w, http.StatusCreated, rec)
}

// List handles GET /api/downtime?line=&session=&type=&status=&from=&to=
func (h *DowntimeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	times, ok := timeParams(w, q, "from", "to")
	if !ok {
		return
	}
	records, err := h.Service.List(r.Context(), models.DowntimeFilter{
		ProductionLineID: q.Get("line"),
		SessionID:        q.Get("session"),
		Type:             q.Get("type"),
		Status:           q.Get("status"),
		From:             times[0],
		To:               times[1],
	})
	if err != nil {
		respondError(w, h.log, err, "failed to list downtime")
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *DowntimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to load downtime")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *DowntimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.log, err, "failed to delete downtime")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DowntimeHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	var req models.AcknowledgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Acknowledge(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to acknowledge downtime")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *DowntimeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req models.ResolveRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Resolve(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to resolve downtime")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

// Step handles POST /api/downtime/{id}/steps/{step}
func (h *DowntimeHandler) Step(w http.ResponseWriter, r *http.Request) {
	var req models.StepRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	rec, err := h.Service.RecordStep(r.Context(), vars["id"], vars["step"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to record changeover step")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *DowntimeHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req models.CloseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Service.Close(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to close downtime")
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}
