package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"floor-backend/internal/importer"
	"floor-backend/internal/services"
	"floor-backend/internal/store"
	"floor-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondError maps service errors to status codes. Anything unexpected
// is logged and answered with the static message.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, message string) {
	var verr *services.ValidationError
	var ierr *importer.Error

	switch {
	case errors.As(err, &verr):
		utils.FieldError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.As(err, &ierr):
		utils.FieldError(w, http.StatusUnprocessableEntity, ierr.Error(), ierr.Rows)
	case errors.Is(err, store.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidLogin):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error(message, zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, message)
	}
}
