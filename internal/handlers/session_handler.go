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

type SessionHandler struct {
	Service *services.SessionService
	log     *zap.Logger
}

func NewSessionHandler(s *services.SessionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{Service: s, log: log.Named("sessions")}
}

// Start opens a session run by the signed-in supervisor
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	session, err := h.Service.Start(r.Context(), &req, userID)
	if err != nil {
		respondError(w, h.log, err, "failed to start session")
		return
	}
	utils.JSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.End(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to end session")
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, h.log, err, "failed to load session")
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

// List accepts ?line= and ?status=
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessions, err := h.Service.List(r.Context(), q.Get("line"), q.Get("status"))
	if err != nil {
		respondError(w, h.log, err, "failed to list sessions")
		return
	}
	utils.JSON(w, http.StatusOK, sessions)
}
