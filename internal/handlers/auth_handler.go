package handlers

import (
	"net/http"

	"floor-backend/internal/middleware"
	"floor-backend/internal/models"
	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	Users *services.UserService
	log   *zap.Logger
}

func NewAuthHandler(users *services.UserService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, log: log.Named("auth")}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		h.log.Info("login failed", zap.String("email", req.Email))
		respondError(w, h.log, err, "login failed")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.Users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err, "failed to load user")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

// StreamToken issues the ticket the WebSocket endpoints expect in ?token=
func (h *AuthHandler) StreamToken(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	token, err := h.Users.StreamToken(r.Context(), userID)
	if err != nil {
		respondError(w, h.log, err, "failed to issue stream token")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"token": token})
}
