// Package api provides HTTP handlers for the query canvas REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"querycanvas/internal/domain"
	"querycanvas/internal/service"
)

// Handler serves the translator and history endpoints.
type Handler struct {
	translator *service.TranslatorService
	logger     *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(translator *service.TranslatorService, logger *slog.Logger) *Handler {
	return &Handler{translator: translator, logger: logger}
}

// MountRoutes attaches the API routes to r. The caller owns the surrounding
// middleware stack (request IDs, rate limiting, auth).
func MountRoutes(r chi.Router, h *Handler) {
	r.Route("/sql", func(r chi.Router) {
		r.Post("/generate", h.GenerateSQL)
		r.Post("/parse", h.ParseSQL)
		r.Post("/lint", h.LintSQL)
	})
	r.Post("/queries/validate", h.ValidateQuery)
	r.Get("/dialects", h.ListDialects)
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.ListHistory)
		r.Get("/{id}", h.GetHistory)
		r.Delete("/{id}", h.DeleteHistory)
	})
}

// Healthz reports liveness. Mounted outside the /v1 group so probes skip auth.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- JSON helpers ---

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Code: status, Message: err.Error()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}
