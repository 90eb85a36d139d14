package handlers

import (
	"net/http"

	"floor-backend/internal/services"
	"floor-backend/pkg/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

type ImportHandler struct {
	Service *services.ImportService
	log     *zap.Logger
}

func NewImportHandler(s *services.ImportService, log *zap.Logger) *ImportHandler {
	return &ImportHandler{Service: s, log: log.Named("import")}
}

// Import handles POST /api/import/{target} with a multipart "file" field
// holding CSV or XLSX rows. Either every row is stored or none is.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.FieldError(w, http.StatusBadRequest, "validation failed", map[string]string{"file": "is required"})
		return
	}
	defer file.Close()

	var result *services.ImportResult
	switch target := mux.Vars(r)["target"]; target {
	case "machines":
		result, err = h.Service.ImportMachines(r.Context(), header.Filename, file)
	case "lines":
		result, err = h.Service.ImportLines(r.Context(), header.Filename, file)
	default:
		utils.Error(w, http.StatusNotFound, "unknown import target "+target)
		return
	}
	if err != nil {
		respondError(w, h.log, err, "failed to import file")
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}
