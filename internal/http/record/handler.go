package record

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

type Handler struct {
	svc *record.Service
}

func NewHandler(svc *record.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/last", h.last)
	r.Post("/bulk-delete", h.bulkDelete)
	r.Patch("/bulk", h.bulkEdit)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, record.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, record.ErrInvalidType),
		errors.Is(err, record.ErrInvalidAmount),
		errors.Is(err, record.ErrInvalidDate),
		errors.Is(err, record.ErrEmptyPatch),
		errors.Is(err, record.ErrNoIDs),
		errors.Is(err, currency.ErrUnknownCurrency):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("record request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

type recordRequest struct {
	Type     record.Type     `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Currency currency.Code   `json:"currency"`
	Date     string          `json:"date"`
	Tags     []string        `json:"tags"`
	Note     string          `json:"note"`
}

func (req recordRequest) params() record.CreateParams {
	return record.CreateParams{
		Type:     req.Type,
		Amount:   req.Amount,
		Currency: req.Currency,
		Date:     req.Date,
		Tags:     req.Tags,
		Note:     req.Note,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Create(r.Context(), req.params())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(rec))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit, offset, err := page(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	total := len(recs)
	recs = recs[min(offset, total):]

	if limit > 0 {
		recs = recs[:min(limit, len(recs))]
	}

	writeJSON(w, http.StatusOK, listResponse{Records: toResponseList(recs), Total: total})
}

func (h *Handler) last(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Last(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

func (h *Handler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := h.svc.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: n})
}

type patchRequest struct {
	Type     *record.Type     `json:"type,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency *currency.Code   `json:"currency,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Tags     []string         `json:"tags,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

type bulkEditRequest struct {
	IDs   []int64      `json:"ids"`
	Patch patchRequest `json:"patch"`
}

func (h *Handler) bulkEdit(w http.ResponseWriter, r *http.Request) {
	var req bulkEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, err := h.svc.BulkEdit(r.Context(), req.IDs, record.Patch{
		Type:     req.Patch.Type,
		Amount:   req.Patch.Amount,
		Currency: req.Patch.Currency,
		Date:     req.Patch.Date,
		Tags:     req.Patch.Tags,
		Note:     req.Patch.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(recs))
}
