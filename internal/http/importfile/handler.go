package importfile

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ezexpenses/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
}

type importResponse struct {
	BatchID  uuid.UUID          `json:"batchId"`
	Imported int                `json:"imported"`
	Failed   int                `json:"failed"`
	Failures []importer.Failure `json:"failures"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		if format, err = importer.FormatFromFilename(header.Filename); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := h.importSvc.Import(r.Context(), format, file)
	if err != nil {
		if importer.IsInputError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("import failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	failures := result.Failures
	if failures == nil {
		failures = []importer.Failure{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{
		BatchID:  result.BatchID,
		Imported: result.Imported(),
		Failed:   result.Failed(),
		Failures: failures,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
