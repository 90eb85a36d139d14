package handlers

import (
	"net/http"

	"floor-backend/internal/models"
	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type LineHandler struct {
	Service *services.LineService
	log     *zap.Logger
}

func NewLineHandler(s *services.LineService, log *zap.Logger) *LineHandler {
	return &LineHandler{Service: s, log: log.Named("lines")}
}

func (h *LineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	line, err := h.Service.CreateLine(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "failed to create line")
		return
	}
	utils.JSON(w, http.StatusCreated, line)
}

func (h *LineHandler) Get(w http.ResponseWriter, r *http.Request) {
	line, err := h.Service.GetLine(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to load line")
		return
	}
	utils.JSON(w, http.StatusOK, line)
}

func (h *LineHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Service.ListLines(r.Context())
	if err != nil {
		respondError(w, h.log, err, "failed to list lines")
		return
	}
	utils.JSON(w, http.StatusOK, lines)
}

func (h *LineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	line, err := h.Service.UpdateLine(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to update line")
		return
	}
	utils.JSON(w, http.StatusOK, line)
}

func (h *LineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteLine(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.log, err, "failed to delete line")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
