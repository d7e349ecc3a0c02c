package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sales-agent/internal/app"
	"sales-agent/internal/core"
	"sales-agent/internal/export"
	"sales-agent/internal/viz"
)

// ── Export download store ─────────────────────────────────────────────────────

// pendingExport holds an uncapped result table server-side until the client
// downloads it or it expires.
type pendingExport struct {
	Table     *core.Table
	Filename  string
	CreatedAt time.Time
}

const exportTTL = 15 * time.Minute

// exportStore is a thread-safe in-memory store with TTL expiry.
type exportStore struct {
	mu      sync.Mutex
	exports map[string]pendingExport
}

func newExportStore() *exportStore {
	return &exportStore{exports: make(map[string]pendingExport)}
}

func (s *exportStore) put(token string, e pendingExport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports[token] = e
}

func (s *exportStore) get(token string) (pendingExport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.exports[token]
	if !ok {
		return pendingExport{}, false
	}
	if time.Since(e.CreatedAt) > exportTTL {
		delete(s.exports, token)
		return pendingExport{}, false
	}
	return e, true
}

// startPurge starts a background goroutine that evicts expired entries every 5 minutes.
func (s *exportStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				for token, e := range s.exports {
					if time.Since(e.CreatedAt) > exportTTL {
						delete(s.exports, token)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

// ── Response types ────────────────────────────────────────────────────────────

type tablePayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type errorPayload struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Filters map[string]string `json:"filters"`
}

type exportPayload struct {
	Token    string `json:"token"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
}

type queryResponse struct {
	Question  string           `json:"question,omitempty"`
	Message   string           `json:"message,omitempty"`
	Params    map[string]any   `json:"params"`
	Error     *errorPayload    `json:"error,omitempty"`
	Value     string           `json:"value,omitempty"`
	Formatted string           `json:"formatted,omitempty"`
	RowCount  int              `json:"row_count"`
	Table     *tablePayload    `json:"table,omitempty"`
	ChartType string           `json:"chart_type,omitempty"`
	Series    []core.Point     `json:"series,omitempty"`
	Chart     *viz.ChartConfig `json:"chart,omitempty"`
	Export    *exportPayload   `json:"export,omitempty"`
}

func tableToPayload(t *core.Table) *tablePayload {
	if t == nil {
		return nil
	}
	return &tablePayload{Columns: t.Columns, Rows: t.Rows}
}

func paramsToMap(p core.Params) map[string]any {
	out := map[string]any{
		"metric":      string(p.Metric),
		"aggregation": string(p.Aggregation),
	}
	if p.Brand != "" {
		out["brand"] = p.Brand
	}
	if p.Product != "" {
		out["product"] = p.Product
	}
	if p.Month != "" {
		out["month"] = p.Month
	}
	if p.Year != nil {
		out["year"] = *p.Year
	}
	if p.Region != "" {
		out["region"] = p.Region
	}
	if p.Comparison != "" {
		out["comparison"] = string(p.Comparison)
	}
	if p.TopN != nil {
		out["top_n"] = *p.TopN
	}
	return out
}

// buildQueryResponse assembles the JSON body for a query result. When the
// result carries an uncapped export table, a one-time download token is issued
// for it.
func (h *Handler) buildQueryResponse(question string, p core.Params, res *core.QueryResult, chart *viz.ChartConfig) queryResponse {
	resp := queryResponse{
		Question: question,
		Params:   paramsToMap(p),
		RowCount: res.RowCount,
		Table:    tableToPayload(res.Table),
		Chart:    chart,
		Series:   res.Series,
	}
	if res.ChartType != core.ChartNone {
		resp.ChartType = string(res.ChartType)
	}
	if res.IsError() {
		resp.Error = &errorPayload{
			Kind:    string(res.Error.Kind),
			Message: res.Error.Message,
			Filters: res.Error.Filters,
		}
	} else {
		resp.Value = res.Value.String()
		resp.Formatted = res.Formatted
	}
	if res.Export != nil {
		token := uuid.NewString()
		filename := export.Filename(question, time.Now())
		h.exports.put(token, pendingExport{
			Table:     res.Export,
			Filename:  filename,
			CreatedAt: time.Now(),
		})
		resp.Export = &exportPayload{
			Token:    token,
			URL:      "/api/export/" + token + ".csv",
			Filename: filename,
			Rows:     len(res.Export.Rows),
		}
	}
	return resp
}

func (h *Handler) buildChatResponse(res *app.AskResult) queryResponse {
	resp := h.buildQueryResponse(res.Question, res.Params, res.Result, res.Chart)
	resp.Message = res.Message
	return resp
}

// ── export — GET /api/export/{token}.csv ──────────────────────────────────────

// export streams a previously issued result table as a CSV attachment.
// Tokens stay valid until they expire after exportTTL; the payload is
// immutable so repeat downloads within the TTL are fine.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSuffix(chi.URLParam(r, "token"), ".csv")
	if token == "" {
		writeError(w, r, "token is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	pending, ok := h.exports.get(token)
	if !ok {
		writeError(w, r, "export not found or expired", "NOT_FOUND", http.StatusNotFound)
		return
	}

	data, err := export.Encode(pending.Table)
	if err != nil {
		writeError(w, r, err.Error(), "EXPORT_FAILED", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pending.Filename+`"`)
	_, _ = w.Write(data)
}
