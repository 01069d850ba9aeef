package gallery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/database"
)

// SearchRequest describes one search. Nil weights fall back to the
// configured defaults; explicit zero disables that signal.
type SearchRequest struct {
	Query          string
	FullTextWeight *float64
	SemanticWeight *float64
}

// SearchWeights reports the weights a hybrid search actually used.
type SearchWeights struct {
	FullText float64 `json:"full_text"`
	Semantic float64 `json:"semantic"`
}

// SearchResult is one scored photo. The per-signal ranks are 1-based;
// zero means the photo did not appear in that list.
type SearchResult struct {
	Photo        database.PhotoRecord `json:"photo"`
	Score        float64              `json:"score"`
	LexicalRank  int                  `json:"lexical_rank,omitempty"`
	SemanticRank int                  `json:"semantic_rank,omitempty"`
}

// SearchResponse is the outcome of a search. SearchType is "all" for an
// empty query (browse mode) and "hybrid" otherwise.
type SearchResponse struct {
	Results    []SearchResult `json:"results"`
	Query      string         `json:"query"`
	Count      int            `json:"count"`
	SearchType string         `json:"search_type"`
	Weights    *SearchWeights `json:"weights,omitempty"`
}

// Search answers a query with fused lexical and semantic retrieval. An
// empty query returns the whole gallery newest first instead.
func (s *Service) Search(ctx context.Context, ownerID string, req SearchRequest) (*SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return s.browseAll(ctx, ownerID)
	}

	weights := SearchWeights{
		FullText: resolveWeight(req.FullTextWeight, s.search.FullTextWeight),
		Semantic: resolveWeight(req.SemanticWeight, s.search.SemanticWeight),
	}

	queryEmb, err := s.embedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates := s.search.CandidatesPerList
	lexical, err := s.repo.SearchLexical(ctx, ownerID, query, candidates)
	if err != nil {
		s.log.WithError(err).Error("lexical retrieval failed")
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	semantic, err := s.repo.SearchSemantic(ctx, ownerID, queryEmb, candidates)
	if err != nil {
		s.log.WithError(err).Error("semantic retrieval failed")
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	results := s.fuse(lexical, semantic, weights)

	s.log.WithFields(logrus.Fields{
		"owner":    ownerID,
		"query":    query,
		"lexical":  len(lexical),
		"semantic": len(semantic),
		"fused":    len(results),
	}).Info("hybrid search")

	return &SearchResponse{
		Results:    results,
		Query:      query,
		Count:      len(results),
		SearchType: "hybrid",
		Weights:    &weights,
	}, nil
}

// browseAll serves the empty-query case: every photo, newest first.
func (s *Service) browseAll(ctx context.Context, ownerID string) (*SearchResponse, error) {
	photos, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	results := make([]SearchResult, 0, len(photos))
	for _, photo := range photos {
		results = append(results, SearchResult{Photo: photo})
	}

	return &SearchResponse{
		Results:    results,
		Count:      len(results),
		SearchType: "all",
	}, nil
}

// fuse combines the two ranked lists with weighted reciprocal-rank
// fusion: each photo scores weight/(k+rank) per list it appears in,
// summed across lists. Absence from a list contributes zero, not a
// penalty, so the floor compares the score normalized by the best
// attainable fused value; a rank-1 match in a single list survives, and
// only photos ranked poorly by both signals drop out. The surviving
// list is truncated to the configured match count.
func (s *Service) fuse(lexical, semantic []database.RankedPhoto, weights SearchWeights) []SearchResult {
	k := float64(s.search.RRFK)

	fused := make(map[string]*SearchResult)
	for i, rp := range lexical {
		fused[rp.Photo.ID] = &SearchResult{
			Photo:       rp.Photo,
			Score:       weights.FullText / (k + float64(i+1)),
			LexicalRank: i + 1,
		}
	}
	for i, rp := range semantic {
		if r, ok := fused[rp.Photo.ID]; ok {
			r.Score += weights.Semantic / (k + float64(i+1))
			r.SemanticRank = i + 1
			continue
		}
		fused[rp.Photo.ID] = &SearchResult{
			Photo:        rp.Photo,
			Score:        weights.Semantic / (k + float64(i+1)),
			SemanticRank: i + 1,
		}
	}

	// Rank 1 in both lists yields the highest possible fused score.
	bestAttainable := (weights.FullText + weights.Semantic) / (k + 1)

	results := make([]SearchResult, 0, len(fused))
	for _, r := range fused {
		if bestAttainable <= 0 || r.Score/bestAttainable < s.search.MinScore {
			continue
		}
		results = append(results, *r)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Photo.ID < results[j].Photo.ID
	})

	if len(results) > s.search.MatchCount {
		results = results[:s.search.MatchCount]
	}
	return results
}

func resolveWeight(w *float64, fallback float64) float64 {
	if w == nil {
		return fallback
	}
	if *w < 0 {
		return 0
	}
	return *w
}
