package tag

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ezexpenses/internal/tagpool"
)

type Handler struct {
	svc *tagpool.Service
}

func NewHandler(svc *tagpool.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.add)
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

// list returns the whole pool, or the suggestions for prefix when prefix or limit is given.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		tags []string
		err  error
	)

	if q.Has("prefix") || q.Has("limit") {
		limit, convErr := strconv.Atoi(q.Get("limit"))
		if q.Get("limit") != "" && convErr != nil {
			http.Error(w, "limit must be a number", http.StatusBadRequest)
			return
		}

		tags, err = h.svc.Suggest(r.Context(), q.Get("prefix"), limit)
	} else {
		tags, err = h.svc.List(r.Context())
	}

	if err != nil {
		slog.Error("failed to read tag pool", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if tags == nil {
		tags = []string{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tagsResponse{Tags: tags}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type addRequest struct {
	Tags []string `json:"tags"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(req.Tags) == 0 {
		http.Error(w, "tags is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.AddTags(r.Context(), req.Tags); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
