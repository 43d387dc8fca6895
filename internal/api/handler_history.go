package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"querycanvas/internal/domain"
)

type savedQueryResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	CreatedBy string          `json:"createdBy,omitempty"`
	Dialect   string          `json:"dialect"`
	Kind      string          `json:"kind"`
	Query     json.RawMessage `json:"query"`
	SQL       string          `json:"sql"`
	CreatedAt time.Time       `json:"createdAt"`
}

func savedQueryToAPI(sq domain.SavedQuery) savedQueryResponse {
	return savedQueryResponse{
		ID:        sq.ID,
		Name:      sq.Name,
		CreatedBy: sq.CreatedBy,
		Dialect:   sq.Dialect,
		Kind:      sq.Kind,
		Query:     json.RawMessage(sq.QueryJSON),
		SQL:       sq.SQLText,
		CreatedAt: sq.CreatedAt,
	}
}

type historyListResponse struct {
	Items         []savedQueryResponse `json:"items"`
	TotalCount    int64                `json:"totalCount"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

// ListHistory returns recorded translations, newest first.
// GET /v1/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := historyFilterFromQuery(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	items, total, err := h.translator.ListHistory(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := historyListResponse{
		Items:         make([]savedQueryResponse, len(items)),
		TotalCount:    total,
		NextPageToken: domain.NextPageToken(filter.Page.Offset(), filter.Page.Limit(), total),
	}
	for i, sq := range items {
		resp.Items[i] = savedQueryToAPI(sq)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetHistory returns one recorded translation.
// GET /v1/history/{id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sq, err := h.translator.GetHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, savedQueryToAPI(*sq))
}

// DeleteHistory removes one recorded translation.
// DELETE /v1/history/{id}
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.translator.DeleteHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func historyFilterFromQuery(r *http.Request) (domain.SavedQueryFilter, error) {
	q := r.URL.Query()
	var f domain.SavedQueryFilter

	if v := q.Get("createdBy"); v != "" {
		f.CreatedBy = &v
	}
	if v := q.Get("dialect"); v != "" {
		f.Dialect = &v
	}
	if v := q.Get("kind"); v != "" {
		f.Kind = &v
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, domain.ErrValidation("invalid from timestamp %q: use RFC 3339", v)
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return f, domain.ErrValidation("invalid to timestamp %q: use RFC 3339", v)
		}
		f.To = &t
	}
	if v := q.Get("maxResults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, domain.ErrValidation("invalid maxResults %q", v)
		}
		f.Page.MaxResults = n
	}
	f.Page.PageToken = q.Get("pageToken")

	return f, nil
}
