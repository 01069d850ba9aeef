package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mvillareal/lumina/internal/database"
	"github.com/mvillareal/lumina/internal/database/mock"
	"github.com/mvillareal/lumina/internal/gallery"
)

func searchRequestBody(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func seedSearchablePhoto(t *testing.T, repo *mock.PhotoRepository) {
	t.Helper()

	// The stub embedder always returns a basis vector, so matching
	// embeddings here give the record cosine similarity 1 for any query.
	emb := make([]float32, 1536)
	emb[0] = 1

	err := repo.Insert(context.Background(), &database.PhotoRecord{
		ID:                   "photo-1",
		OwnerID:              "default",
		Literal:              "A red sports car parked on a street.",
		Descriptive:          "A moody urban night scene.",
		Tags:                 []string{"car", "red"},
		PHash:                "0123456789abcdef",
		DHash:                "fedcba9876543210",
		LiteralEmbedding:     emb,
		DescriptiveEmbedding: emb,
		CreatedAt:            time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed photo: %v", err)
	}
}

func TestSearchHybrid(t *testing.T) {
	repo := mock.NewPhotoRepository()
	seedSearchablePhoto(t, repo)
	h := NewSearchHandler(newTestService(t, repo))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{"query": "red car"}`))

	assertStatusCode(t, rec, http.StatusOK)
	var resp gallery.SearchResponse
	parseJSONResponse(t, rec, &resp)
	if resp.SearchType != "hybrid" {
		t.Errorf("expected search_type hybrid, got %q", resp.SearchType)
	}
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got count=%d len=%d", resp.Count, len(resp.Results))
	}
	if resp.Results[0].Photo.ID != "photo-1" {
		t.Errorf("expected photo-1, got %q", resp.Results[0].Photo.ID)
	}
	if resp.Weights == nil || resp.Weights.FullText != 1.0 || resp.Weights.Semantic != 1.0 {
		t.Errorf("expected default weights echoed, got %+v", resp.Weights)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	repo := mock.NewPhotoRepository()
	seedSearchablePhoto(t, repo)
	h := NewSearchHandler(newTestService(t, repo))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{"query": "  "}`))

	assertStatusCode(t, rec, http.StatusOK)
	var resp gallery.SearchResponse
	parseJSONResponse(t, rec, &resp)
	if resp.SearchType != "all" {
		t.Errorf("expected search_type all, got %q", resp.SearchType)
	}
	if resp.Count != 1 {
		t.Errorf("expected 1 photo, got %d", resp.Count)
	}
	if resp.Weights != nil {
		t.Errorf("expected no weights on browse, got %+v", resp.Weights)
	}
}

func TestSearchCustomWeights(t *testing.T) {
	repo := mock.NewPhotoRepository()
	seedSearchablePhoto(t, repo)
	h := NewSearchHandler(newTestService(t, repo))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{"query": "red car", "full_text_weight": 2.0, "semantic_weight": 0.5}`))

	assertStatusCode(t, rec, http.StatusOK)
	var resp gallery.SearchResponse
	parseJSONResponse(t, rec, &resp)
	if resp.Weights == nil || resp.Weights.FullText != 2.0 || resp.Weights.Semantic != 0.5 {
		t.Errorf("expected custom weights echoed, got %+v", resp.Weights)
	}
}

func TestSearchInvalidBody(t *testing.T) {
	h := NewSearchHandler(newTestService(t, mock.NewPhotoRepository()))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{not json`))

	assertStatusCode(t, rec, http.StatusBadRequest)
}

func TestSearchNegativeWeight(t *testing.T) {
	h := NewSearchHandler(newTestService(t, mock.NewPhotoRepository()))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{"query": "cat", "semantic_weight": -1}`))

	assertStatusCode(t, rec, http.StatusBadRequest)
}

func TestSearchStoreUnavailable(t *testing.T) {
	repo := mock.NewPhotoRepository()
	repo.SearchLexicalError = errors.New("connection refused")
	h := NewSearchHandler(newTestService(t, repo))

	rec := httptest.NewRecorder()
	h.Search(rec, searchRequestBody(`{"query": "cat"}`))

	assertStatusCode(t, rec, http.StatusServiceUnavailable)
}
