package database

import (
	"time"
)

// PhotoRecord represents one stored photo with its captions, hashes and
// embeddings. Embedding and thumbnail fields are only populated on the
// code paths that need them.
type PhotoRecord struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	FileName    string    `json:"file_name,omitempty"`
	Literal     string    `json:"literal_caption"`
	Descriptive string    `json:"descriptive_caption"`
	Tags        []string  `json:"tags"`
	ManualNote  string    `json:"manual_note,omitempty"`
	PHash       string    `json:"phash"`
	DHash       string    `json:"dhash"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`

	Analysis             []byte    `json:"-"`
	Thumbnail            []byte    `json:"-"`
	LiteralEmbedding     []float32 `json:"-"`
	DescriptiveEmbedding []float32 `json:"-"`
}

// StoredHash is the minimal projection used by the duplicate scan.
type StoredHash struct {
	ID    string
	PHash string
	DHash string
}

// RankedPhoto is one row of a ranked retrieval. Score carries the
// backend-specific relevance value (ts_rank for lexical, cosine
// similarity for semantic); ordering within the slice is what the
// fusion step consumes.
type RankedPhoto struct {
	Photo PhotoRecord
	Score float64
}
