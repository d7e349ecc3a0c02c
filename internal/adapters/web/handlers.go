package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"sales-agent/internal/app"
	"sales-agent/internal/core"
)

// Handler holds the ApplicationService, the chi router, and the export
// download store.
type Handler struct {
	svc     app.ApplicationService
	router  chi.Router
	exports *exportStore
	log     *logrus.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, log *logrus.Logger) http.Handler {
	h := &Handler{
		svc:     svc,
		exports: newExportStore(),
		log:     log,
	}

	// Evict expired export downloads in the background.
	h.exports.startPurge(context.Background())

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Post("/api/chat", h.chat)
		r.Post("/api/query", h.query)
		r.Get("/api/dataset", h.datasetInfo)
		r.Post("/api/dataset/reload", h.reload)
		r.Get("/api/examples", h.examples)
	})

	// Downloads stream the uncapped table; no body limit needed on a GET.
	r.Get("/api/export/{token}", h.export)

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Question string `json:"question"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		writeError(w, r, "question is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Ask(r.Context(), req.Question)
	if err != nil {
		writeError(w, r, err.Error(), "ASK_FAILED", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.buildChatResponse(res))
}

// query runs the deterministic engine directly on caller-supplied parameters,
// bypassing extraction. Loosely typed values go through the same coercion the
// extraction boundary uses.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	var in core.ParamInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	params := core.NormalizeInput(in)

	result, err := h.svc.Query(r.Context(), params)
	if err != nil {
		writeError(w, r, err.Error(), "QUERY_FAILED", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.buildQueryResponse("", params, result, nil))
}

func (h *Handler) datasetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.DatasetInfo(r.Context())
	if err != nil {
		writeError(w, r, err.Error(), "INFO_FAILED", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"total_rows":    info.Summary.TotalRows,
		"year_range":    info.Summary.YearRange,
		"total_sales":   info.Summary.TotalSales.StringFixed(2),
		"unique_brands": info.Summary.UniqueBrands,
		"unique_stores": info.Summary.UniqueStores,
	})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, r, err.Error(), "RELOAD_FAILED", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "reloaded"})
}

func (h *Handler) examples(w http.ResponseWriter, _ *http.Request) {
	cats := h.svc.ExampleQueries()
	out := make([]map[string]any, 0, len(cats))
	for _, c := range cats {
		out = append(out, map[string]any{"category": c.Category, "queries": c.Queries})
	}
	writeJSON(w, out)
}
