package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ezexpenses/internal/drilldown"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
	"github.com/MrJamesThe3rd/ezexpenses/internal/report"
)

// RecordSource yields the full record collection every report is computed from.
type RecordSource interface {
	All(ctx context.Context) ([]*record.Record, error)
}

type Handler struct {
	records RecordSource
	now     func() time.Time
}

func NewHandler(records RecordSource, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}

	return &Handler{records: records, now: now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/rolling", h.rolling)
	r.Get("/top-tags", h.topTags)
	r.Get("/tag-cloud", h.tagCloud)
	r.Get("/chart", h.chart)
	r.Post("/chart/select", h.selectBar)
	r.Post("/chart/back", h.back)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// load fetches the records or writes a 500 and returns false.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]*record.Record, bool) {
	recs, err := h.records.All(r.Context())
	if err != nil {
		slog.Error("failed to load records", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil, false
	}

	return recs, true
}

func optionalInt(q url.Values, key string) (*int, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}

	return &n, nil
}

func parsePeriod(q url.Values) (report.PeriodFilter, error) {
	year, err := optionalInt(q, "year")
	if err != nil {
		return report.PeriodFilter{}, err
	}

	month, err := optionalInt(q, "month")
	if err != nil {
		return report.PeriodFilter{}, err
	}

	f := report.PeriodFilter{Year: year}

	if month != nil {
		if *month < 1 || *month > 12 {
			return report.PeriodFilter{}, fmt.Errorf("month must be between 1 and 12")
		}

		f.Month = new(time.Month(*month))
	}

	return f, nil
}

func parseType(q url.Values) (record.Type, error) {
	t := record.Type(q.Get("type"))
	if t == "" {
		return record.TypeExpense, nil
	}

	if !t.Valid() {
		return "", record.ErrInvalidType
	}

	return t, nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriod(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, report.SumByPeriod(recs, period))
}

type rollingResponse struct {
	Status string              `json:"status"`
	Reason string              `json:"reason,omitempty"`
	Stats  report.RollingStats `json:"stats"`
}

func (h *Handler) rolling(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	if s := r.URL.Query().Get("now"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "now must be an RFC3339 timestamp", http.StatusBadRequest)
			return
		}

		now = t
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	stats, err := report.RollingWindowStats(recs, now)
	if err != nil {
		slog.Warn("rolling stats unavailable", "error", err)
		writeJSON(w, rollingResponse{Status: "failed", Reason: err.Error(), Stats: stats})

		return
	}

	writeJSON(w, rollingResponse{Status: "ok", Stats: stats})
}

func (h *Handler) topTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	t, err := parseType(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit, err := optionalInt(q, "limit")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	n := 0
	if limit != nil {
		n = *limit
	}

	writeJSON(w, report.TopTagsByAmount(recs, t, n))
}

func (h *Handler) tagCloud(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	t, err := parseType(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode, err := report.ParseMode(q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	filtered := record.ListFilter{Type: &t}.Apply(recs)

	writeJSON(w, report.TagCloud(filtered, mode, report.DefaultSizes))
}

func (h *Handler) chart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := drilldown.Initial(h.now())

	if level := q.Get("level"); level != "" {
		var err error
		if state, err = parseState(q, level); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, state.Chart(recs))
}

func parseState(q url.Values, level string) (drilldown.State, error) {
	year, err := optionalInt(q, "year")
	if err != nil {
		return drilldown.State{}, err
	}

	month, err := optionalInt(q, "month")
	if err != nil {
		return drilldown.State{}, err
	}

	var y, m int
	if year != nil {
		y = *year
	}

	if month != nil {
		m = *month
	}

	return drilldown.Parse(level, y, m)
}

type stateRequest struct {
	Level string `json:"level"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
}

func (s stateRequest) parse() (drilldown.State, error) {
	return drilldown.Parse(s.Level, s.Year, s.Month)
}

type selectRequest struct {
	State stateRequest `json:"state"`
	Label string       `json:"label"`
}

type selectResponse struct {
	Changed bool            `json:"changed"`
	Chart   drilldown.Chart `json:"chart"`
}

func (h *Handler) selectBar(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := req.State.parse()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	next, changed := state.Select(req.Label)

	writeJSON(w, selectResponse{Changed: changed, Chart: next.Chart(recs)})
}

type backRequest struct {
	State stateRequest `json:"state"`
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	var req backRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := req.State.parse()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, state.Back().Chart(recs))
}
