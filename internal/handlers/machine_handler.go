package handlers

import (
	"net/http"

	"floor-backend/internal/models"
	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type MachineHandler struct {
	Service *services.MachineService
	log     *zap.Logger
}

func NewMachineHandler(s *services.MachineService, log *zap.Logger) *MachineHandler {
	return &MachineHandler{Service: s, log: log.Named("machines")}
}

func (h *MachineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMachineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.Service.CreateMachine(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "failed to create machine")
		return
	}
	utils.JSON(w, http.StatusCreated, m)
}

func (h *MachineHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Service.GetMachine(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to load machine")
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

// List accepts ?line= to narrow to one production line
func (h *MachineHandler) List(w http.ResponseWriter, r *http.Request) {
	machines, err := h.Service.ListMachines(r.Context(), r.URL.Query().Get("line"))
	if err != nil {
		respondError(w, h.log, err, "failed to list machines")
		return
	}
	utils.JSON(w, http.StatusOK, machines)
}

func (h *MachineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMachineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.Service.UpdateMachine(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		respondError(w, h.log, err, "failed to update machine")
		return
	}
	utils.JSON(w, http.StatusOK, m)
}

func (h *MachineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteMachine(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondError(w, h.log, err, "failed to delete machine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
