package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ezexpenses/internal/export"
	recordHandler "github.com/MrJamesThe3rd/ezexpenses/internal/http/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/importer"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the records matching the list query parameters as a
// spreadsheet attachment. format defaults to xlsx.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	format := importer.Format(r.URL.Query().Get("format"))
	switch format {
	case "":
		format = importer.FormatXLSX
	case importer.FormatXLSX, importer.FormatCSV:
	default:
		http.Error(w, "format must be xlsx or csv", http.StatusBadRequest)
		return
	}

	filter, err := recordHandler.ParseListFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer

	n, err := h.svc.Export(r.Context(), format, filter, &buf)
	if err != nil {
		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Record-Count", strconv.Itoa(n))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
