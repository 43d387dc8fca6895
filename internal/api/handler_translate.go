package api

import (
	"net/http"

	"querycanvas/internal/queryir"
)

type generateRequest struct {
	Query   *queryir.Query `json:"query"`
	Dialect string         `json:"dialect,omitempty"`
	Name    string         `json:"name,omitempty"`
}

type generateResponse struct {
	SQL     string   `json:"sql"`
	Dialect string   `json:"dialect"`
	Issues  []string `json:"issues,omitempty"`
	SavedID string   `json:"savedId,omitempty"`
}

// GenerateSQL renders builder IR to SQL text.
// POST /v1/sql/generate
func (h *Handler) GenerateSQL(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.translator.Generate(r.Context(), req.Query, req.Dialect, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		SQL:     res.SQL,
		Dialect: string(res.Dialect),
		Issues:  res.Issues,
		SavedID: res.SavedID,
	})
}

type parseRequest struct {
	SQL     string `json:"sql"`
	Dialect string `json:"dialect,omitempty"`
	Name    string `json:"name,omitempty"`
}

type parseResponse struct {
	Query   *queryir.Query `json:"query"`
	Preview string         `json:"preview,omitempty"`
	SavedID string         `json:"savedId,omitempty"`
}

// ParseSQL reconstructs builder IR from SQL text.
// POST /v1/sql/parse
func (h *Handler) ParseSQL(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.translator.Parse(r.Context(), req.SQL, req.Dialect, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Query:   res.Query,
		Preview: res.Preview,
		SavedID: res.SavedID,
	})
}

type lintRequest struct {
	SQL string `json:"sql"`
}

// LintSQL checks raw SQL text against the editor lint rules.
// POST /v1/sql/lint
func (h *Handler) LintSQL(w http.ResponseWriter, r *http.Request) {
	var req lintRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.translator.Lint(r.Context(), req.SQL))
}

type validateRequest struct {
	Query *queryir.Query `json:"query"`
}

// ValidateQuery reports structural findings for builder IR.
// POST /v1/queries/validate
func (h *Handler) ValidateQuery(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.translator.Validate(r.Context(), req.Query))
}

type dialectsResponse struct {
	Dialects []string `json:"dialects"`
}

// ListDialects returns the supported target dialects.
// GET /v1/dialects
func (h *Handler) ListDialects(w http.ResponseWriter, r *http.Request) {
	ds := h.translator.Dialects()
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = string(d)
	}
	writeJSON(w, http.StatusOK, dialectsResponse{Dialects: out})
}
