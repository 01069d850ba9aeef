package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvillareal/lumina/internal/gallery"
	"github.com/mvillareal/lumina/internal/web/middleware"
)

// SearchHandler serves hybrid photo search.
type SearchHandler struct {
	svc *gallery.Service
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(svc *gallery.Service) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type searchRequest struct {
	Query          string   `json:"query"`
	FullTextWeight *float64 `json:"full_text_weight,omitempty"`
	SemanticWeight *float64 `json:"semantic_weight,omitempty"`
}

// Search handles POST /search. An empty query browses the whole gallery;
// anything else runs the hybrid retrieval.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if (req.FullTextWeight != nil && *req.FullTextWeight < 0) ||
		(req.SemanticWeight != nil && *req.SemanticWeight < 0) {
		respondError(w, http.StatusBadRequest, "weights must be non-negative")
		return
	}

	owner := middleware.OwnerFromContext(r.Context())
	resp, err := h.svc.Search(r.Context(), owner, gallery.SearchRequest{
		Query:          req.Query,
		FullTextWeight: req.FullTextWeight,
		SemanticWeight: req.SemanticWeight,
	})
	if err != nil {
		if errors.Is(err, gallery.ErrSearchUnavailable) {
			respondError(w, http.StatusServiceUnavailable, gallery.ErrSearchUnavailable.Error())
			return
		}
		respondError(w, http.StatusBadGateway, "search failed")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
