// Package gallery implements the photo pipeline: dedup via perceptual
// hashes, vision captioning, dual text embeddings and hybrid search.
package gallery

import (
	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/config"
	"github.com/mvillareal/lumina/internal/database"
)

// Service orchestrates ingestion and search over a photo repository.
type Service struct {
	repo      database.PhotoRepository
	captioner ai.Captioner
	embedder  ai.Embedder
	dedupe    config.GalleryConfig
	search    config.SearchConfig
	log       *logrus.Logger
}

// NewService creates a gallery service.
func NewService(
	repo database.PhotoRepository,
	captioner ai.Captioner,
	embedder ai.Embedder,
	cfg *config.Config,
	log *logrus.Logger,
) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		repo:      repo,
		captioner: captioner,
		embedder:  embedder,
		dedupe:    cfg.Gallery,
		search:    cfg.Search,
		log:       log,
	}
}
