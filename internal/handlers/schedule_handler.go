package handlers

import (
	"net/http"

	"floor-backend/internal/models"
	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	Service *services.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(s *services.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: s, log: log.Named("schedules")}
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sched, err := h.Service.CreateSchedule(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "failed to create schedule")
		return
	}
	utils.JSON(w, http.StatusCreated, sched)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Service.GetSchedule(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to load schedule")
		return
	}
	utils.JSON(w, http.StatusOK, sched)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Service.ListSchedules(r.Context(), r.URL.Query().Get("line"))
	if err != nil {
		respondError(w, h.log, err, "failed to list schedules")
		return
	}
	utils.JSON(w, http.StatusOK, schedules)
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sched, err := h.Service.UpdateSchedule(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to update schedule")
		return
	}
	utils.JSON(w, http.StatusOK, sched)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSchedule(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.log, err, "failed to delete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
