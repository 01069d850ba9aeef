package cmd

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/config"
	"github.com/mvillareal/lumina/internal/database/postgres"
	"github.com/mvillareal/lumina/internal/gallery"
)

// buildService wires the gallery service from environment configuration.
// The returned cleanup closes the database pool.
func buildService(log *logrus.Logger) (*gallery.Service, func(), error) {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}
	if cfg.OpenAI.Token == "" {
		return nil, nil, errors.New("OPENAI_TOKEN environment variable is required")
	}

	pool, err := postgres.Initialize(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	repo := postgres.NewPhotoRepository(pool)
	provider := ai.NewOpenAIProvider(
		cfg.OpenAI.Token,
		cfg.OpenAI.CaptionModel,
		cfg.OpenAI.EmbeddingModel,
		cfg.OpenAI.EmbeddingDim,
	)

	svc := gallery.NewService(repo, provider, provider, cfg, log)
	cleanup := func() {
		if err := pool.Close(); err != nil {
			log.WithError(err).Warn("failed to close database pool")
		}
	}
	return svc, cleanup, nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
