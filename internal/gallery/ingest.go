package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mvillareal/lumina/internal/ai"
	"github.com/mvillareal/lumina/internal/database"
	"github.com/mvillareal/lumina/internal/fingerprint"
	"github.com/mvillareal/lumina/internal/imaging"
)

// UploadInput is one photo submitted for ingestion.
type UploadInput struct {
	FileName   string
	Data       []byte
	ManualNote string
}

// Ingest runs the full pipeline for one photo: normalize, hash, reject
// duplicates, caption, embed, store. Nothing is persisted unless every
// stage succeeds.
func (s *Service) Ingest(ctx context.Context, ownerID string, in UploadInput) (*database.PhotoRecord, error) {
	note := strings.TrimSpace(in.ManualNote)
	if len(note) > MaxManualNoteLen {
		return nil, ErrManualNoteTooLong
	}

	renditions, err := imaging.Normalize(in.Data)
	if err != nil {
		return nil, err
	}

	hashes, err := fingerprint.ComputeHashes(renditions.Analysis)
	if err != nil {
		return nil, err
	}

	if err := s.checkDuplicate(ctx, ownerID, hashes); err != nil {
		return nil, err
	}

	caption, err := s.captioner.CaptionImage(ctx, renditions.Analysis)
	if err != nil {
		return nil, fmt.Errorf("caption image: %w", err)
	}

	// The note rides along with the descriptive caption so it influences
	// both the semantic embedding and full-text matching.
	descriptive := caption.Descriptive
	if note != "" {
		descriptive = descriptive + " " + note
	}

	litEmb, err := s.embedText(ctx, caption.Literal)
	if err != nil {
		return nil, fmt.Errorf("embed literal caption: %w", err)
	}
	descEmb, err := s.embedText(ctx, descriptive)
	if err != nil {
		return nil, fmt.Errorf("embed descriptive caption: %w", err)
	}

	record := &database.PhotoRecord{
		ID:                   uuid.NewString(),
		OwnerID:              ownerID,
		FileName:             in.FileName,
		Literal:              caption.Literal,
		Descriptive:          descriptive,
		Tags:                 caption.Tags,
		ManualNote:           note,
		PHash:                hashes.PHash,
		DHash:                hashes.DHash,
		Width:                renditions.Width,
		Height:               renditions.Height,
		Analysis:             renditions.Analysis,
		Thumbnail:            renditions.Thumbnail,
		LiteralEmbedding:     litEmb,
		DescriptiveEmbedding: descEmb,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"photo_id": record.ID,
		"owner":    ownerID,
		"tags":     len(record.Tags),
	}).Info("photo ingested")

	return record, nil
}

// checkDuplicate compares the upload's hashes against every stored photo
// of the owner. A match on either hash within the threshold rejects the
// upload.
func (s *Service) checkDuplicate(ctx context.Context, ownerID string, hashes *fingerprint.HashResult) error {
	stored, err := s.repo.ListHashes(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list stored hashes: %w", err)
	}

	threshold := s.dedupe.DedupeThreshold
	for _, h := range stored {
		pBits, err := fingerprint.ParseHex(h.PHash)
		if err != nil {
			return fmt.Errorf("stored phash for photo %s: %w", h.ID, err)
		}
		dBits, err := fingerprint.ParseHex(h.DHash)
		if err != nil {
			return fmt.Errorf("stored dhash for photo %s: %w", h.ID, err)
		}

		pDist := fingerprint.HammingDistance(hashes.PHashBits, pBits)
		dDist := fingerprint.HammingDistance(hashes.DHashBits, dBits)

		if pDist <= threshold || dDist <= threshold {
			distance := pDist
			if dDist < distance {
				distance = dDist
			}
			return &DuplicateError{MatchID: h.ID, Distance: distance}
		}
	}
	return nil
}

func (s *Service) embedText(ctx context.Context, text string) ([]float32, error) {
	emb, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	if want := s.embedder.Dimension(); len(emb) != want {
		return nil, &ai.DimensionError{Want: want, Got: len(emb)}
	}
	return emb, nil
}

// BatchItemResult is the per-photo outcome of a batch upload. Exactly one
// of Photo or Error is set.
type BatchItemResult struct {
	Index     int                   `json:"index"`
	Photo     *database.PhotoRecord `json:"photo,omitempty"`
	Error     string                `json:"error,omitempty"`
	Duplicate bool                  `json:"duplicate,omitempty"`
}

// BatchResult summarizes a batch upload.
type BatchResult struct {
	Results    []BatchItemResult `json:"results"`
	Successful int               `json:"successful"`
	Duplicates int               `json:"duplicates"`
	Failed     int               `json:"failed"`
}

// IngestBatch processes up to MaxBatchSize photos sequentially. One bad
// photo never aborts the rest; duplicates are counted apart from other
// failures.
func (s *Service) IngestBatch(ctx context.Context, ownerID string, items []UploadInput) (*BatchResult, error) {
	if len(items) == 0 {
		return &BatchResult{Results: []BatchItemResult{}}, nil
	}
	if len(items) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	result := &BatchResult{Results: make([]BatchItemResult, 0, len(items))}
	for i, item := range items {
		photo, err := s.Ingest(ctx, ownerID, item)
		if err != nil {
			var dup *DuplicateError
			if errors.As(err, &dup) {
				result.Duplicates++
				result.Results = append(result.Results, BatchItemResult{
					Index:     i,
					Error:     dup.Error(),
					Duplicate: true,
				})
			} else {
				result.Failed++
				result.Results = append(result.Results, BatchItemResult{
					Index: i,
					Error: err.Error(),
				})
			}
			s.log.WithFields(logrus.Fields{
				"owner": ownerID,
				"index": i,
			}).WithError(err).Warn("batch item failed")
			continue
		}

		result.Successful++
		result.Results = append(result.Results, BatchItemResult{Index: i, Photo: photo})
	}

	return result, nil
}
