package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	if cfg.OpenAI.CaptionModel != "gpt-4o-mini" {
		t.Errorf("expected default caption model gpt-4o-mini, got %q", cfg.OpenAI.CaptionModel)
	}
	if cfg.OpenAI.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("expected default embedding model text-embedding-3-small, got %q", cfg.OpenAI.EmbeddingModel)
	}
	if cfg.OpenAI.EmbeddingDim != 1536 {
		t.Errorf("expected embedding dim 1536, got %d", cfg.OpenAI.EmbeddingDim)
	}
	if cfg.Gallery.DedupeThreshold != 8 {
		t.Errorf("expected dedupe threshold 8, got %d", cfg.Gallery.DedupeThreshold)
	}
	if cfg.Search.RRFK != 50 {
		t.Errorf("expected rrf_k 50, got %d", cfg.Search.RRFK)
	}
	if cfg.Search.MatchCount != 20 {
		t.Errorf("expected match count 20, got %d", cfg.Search.MatchCount)
	}
	if cfg.Search.MinScore != 0.025 {
		t.Errorf("expected min score 0.025, got %f", cfg.Search.MinScore)
	}
	if cfg.Search.FullTextWeight != 1.0 || cfg.Search.SemanticWeight != 1.0 {
		t.Errorf("expected default weights 1.0/1.0, got %f/%f",
			cfg.Search.FullTextWeight, cfg.Search.SemanticWeight)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_TOKEN", "test-token")
	t.Setenv("CAPTION_MODEL", "gpt-4o")
	t.Setenv("DEDUPE_THRESHOLD", "5")
	t.Setenv("SEARCH_MATCH_COUNT", "10")

	cfg := Load()

	if cfg.OpenAI.Token != "test-token" {
		t.Errorf("expected token from env, got %q", cfg.OpenAI.Token)
	}
	if cfg.OpenAI.CaptionModel != "gpt-4o" {
		t.Errorf("expected caption model gpt-4o, got %q", cfg.OpenAI.CaptionModel)
	}
	if cfg.Gallery.DedupeThreshold != 5 {
		t.Errorf("expected dedupe threshold 5, got %d", cfg.Gallery.DedupeThreshold)
	}
	if cfg.Search.MatchCount != 10 {
		t.Errorf("expected match count 10, got %d", cfg.Search.MatchCount)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback int
		expected int
	}{
		{"unset", "", 25, 25},
		{"valid", "42", 25, 42},
		{"invalid", "abc", 25, 25},
		{"negative", "-3", 25, 25},
		{"zero", "0", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", tt.fallback); got != tt.expected {
				t.Errorf("envInt(%q, %d) = %d, expected %d", tt.value, tt.fallback, got, tt.expected)
			}
		})
	}
}
