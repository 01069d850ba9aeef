package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed tunables.yaml
var tunablesYAML []byte

type Config struct {
	OpenAI   OpenAIConfig
	Database DatabaseConfig
	Gallery  GalleryConfig
	Search   SearchConfig
}

type OpenAIConfig struct {
	Token          string
	CaptionModel   string // defaults to gpt-4o-mini
	EmbeddingModel string // defaults to text-embedding-3-small
	EmbeddingDim   int    // defaults to 1536; all stored vectors must match
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL (pgvector extension required)
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type GalleryConfig struct {
	DedupeThreshold int // max Hamming distance still considered a duplicate
}

type SearchConfig struct {
	RRFK              int     // reciprocal-rank smoothing constant
	MatchCount        int     // top-K truncation for hybrid results
	MinScore          float64 // fused scores below this are dropped
	FullTextWeight    float64 // default lexical weight
	SemanticWeight    float64 // default semantic weight
	CandidatesPerList int     // how many candidates each signal list fetches
}

// tunables holds ranking and dedup policy constants shipped with the binary.
// Env vars override the values operators commonly adjust.
type tunables struct {
	Dedupe struct {
		Threshold int `yaml:"threshold"`
	} `yaml:"dedupe"`
	Search struct {
		RRFK              int     `yaml:"rrf_k"`
		MatchCount        int     `yaml:"match_count"`
		MinScore          float64 `yaml:"min_score"`
		FullTextWeight    float64 `yaml:"full_text_weight"`
		SemanticWeight    float64 `yaml:"semantic_weight"`
		CandidatesPerList int     `yaml:"candidates_per_list"`
	} `yaml:"search"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable, returning the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var t tunables
	if err := yaml.Unmarshal(tunablesYAML, &t); err != nil {
		// Embedded file, so this should never happen in practice.
		panic("failed to unmarshal embedded tunables.yaml: " + err.Error())
	}

	return &Config{
		OpenAI: OpenAIConfig{
			Token:          os.Getenv("OPENAI_TOKEN"),
			CaptionModel:   envString("CAPTION_MODEL", "gpt-4o-mini"),
			EmbeddingModel: envString("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDim:   envInt("EMBEDDING_DIM", 1536),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Gallery: GalleryConfig{
			DedupeThreshold: envInt("DEDUPE_THRESHOLD", t.Dedupe.Threshold),
		},
		Search: SearchConfig{
			RRFK:              t.Search.RRFK,
			MatchCount:        envInt("SEARCH_MATCH_COUNT", t.Search.MatchCount),
			MinScore:          t.Search.MinScore,
			FullTextWeight:    t.Search.FullTextWeight,
			SemanticWeight:    t.Search.SemanticWeight,
			CandidatesPerList: t.Search.CandidatesPerList,
		},
	}
}
