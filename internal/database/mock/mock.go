// Package mock provides an in-memory PhotoRepository for testing.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mvillareal/lumina/internal/database"
	"github.com/mvillareal/lumina/internal/fingerprint"
)

// PhotoRepository is an in-memory implementation of database.PhotoRepository.
// Error fields, when set, are returned by the corresponding method so tests
// can exercise failure paths.
type PhotoRepository struct {
	mu     sync.RWMutex
	photos map[string]*database.PhotoRecord

	// Error injection
	InsertError         error
	GetError            error
	GetImageError       error
	GetThumbnailError   error
	DeleteError         error
	ListError           error
	ListHashesError     error
	SearchLexicalError  error
	SearchSemanticError error
}

// NewPhotoRepository creates a new in-memory photo repository.
func NewPhotoRepository() *PhotoRepository {
	return &PhotoRepository{
		photos: make(map[string]*database.PhotoRecord),
	}
}

// Count returns the number of stored photos.
func (m *PhotoRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.photos)
}

// Insert stores a photo record.
func (m *PhotoRepository) Insert(ctx context.Context, photo *database.PhotoRecord) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *photo
	m.photos[photo.ID] = &copied
	return nil
}

// Get retrieves a photo by ID, scoped to the owner.
func (m *PhotoRepository) Get(ctx context.Context, ownerID, id string) (*database.PhotoRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	photo, ok := m.photos[id]
	if !ok || photo.OwnerID != ownerID {
		return nil, database.ErrNotFound
	}
	copied := *photo
	return &copied, nil
}

// GetImage retrieves the analysis rendition bytes for a photo.
func (m *PhotoRepository) GetImage(ctx context.Context, ownerID, id string) ([]byte, error) {
	if m.GetImageError != nil {
		return nil, m.GetImageError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	photo, ok := m.photos[id]
	if !ok || photo.OwnerID != ownerID {
		return nil, database.ErrNotFound
	}
	return photo.Analysis, nil
}

// GetThumbnail retrieves just the thumbnail bytes for a photo.
func (m *PhotoRepository) GetThumbnail(ctx context.Context, ownerID, id string) ([]byte, error) {
	if m.GetThumbnailError != nil {
		return nil, m.GetThumbnailError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	photo, ok := m.photos[id]
	if !ok || photo.OwnerID != ownerID {
		return nil, database.ErrNotFound
	}
	return photo.Thumbnail, nil
}

// Delete removes a photo, scoped to the owner.
func (m *PhotoRepository) Delete(ctx context.Context, ownerID, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.photos[id]
	if !ok || photo.OwnerID != ownerID {
		return database.ErrNotFound
	}
	delete(m.photos, id)
	return nil
}

// List returns the owner's photos, newest first.
func (m *PhotoRepository) List(ctx context.Context, ownerID string) ([]database.PhotoRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var photos []database.PhotoRecord
	for _, photo := range m.photos {
		if photo.OwnerID == ownerID {
			photos = append(photos, *photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.After(photos[j].CreatedAt)
		}
		return photos[i].ID > photos[j].ID
	})
	return photos, nil
}

// ListHashes returns the perceptual hashes of all the owner's photos.
func (m *PhotoRepository) ListHashes(ctx context.Context, ownerID string) ([]database.StoredHash, error) {
	if m.ListHashesError != nil {
		return nil, m.ListHashesError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hashes []database.StoredHash
	for _, photo := range m.photos {
		if photo.OwnerID == ownerID {
			hashes = append(hashes, database.StoredHash{
				ID:    photo.ID,
				PHash: photo.PHash,
				DHash: photo.DHash,
			})
		}
	}
	return hashes, nil
}

// SearchLexical approximates full-text retrieval with word-overlap scoring
// over captions, tags and notes.
func (m *PhotoRepository) SearchLexical(ctx context.Context, ownerID, query string, limit int) ([]database.RankedPhoto, error) {
	if m.SearchLexicalError != nil {
		return nil, m.SearchLexicalError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	words := strings.Fields(strings.ToLower(query))

	var ranked []database.RankedPhoto
	for _, photo := range m.photos {
		if photo.OwnerID != ownerID {
			continue
		}
		haystack := strings.ToLower(strings.Join([]string{
			photo.Literal,
			photo.Descriptive,
			photo.ManualNote,
			strings.Join(photo.Tags, " "),
		}, " "))

		score := 0.0
		for _, w := range words {
			if strings.Contains(haystack, w) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, database.RankedPhoto{Photo: *photo, Score: score})
		}
	}

	sortRanked(ranked)
	return truncateRanked(ranked, limit), nil
}

// SearchSemantic ranks photos by the better cosine similarity of their
// two embeddings against the query vector.
func (m *PhotoRepository) SearchSemantic(ctx context.Context, ownerID string, embedding []float32, limit int) ([]database.RankedPhoto, error) {
	if m.SearchSemanticError != nil {
		return nil, m.SearchSemanticError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ranked []database.RankedPhoto
	for _, photo := range m.photos {
		if photo.OwnerID != ownerID {
			continue
		}
		litSim := fingerprint.CosineSimilarity(embedding, photo.LiteralEmbedding)
		descSim := fingerprint.CosineSimilarity(embedding, photo.DescriptiveEmbedding)
		score := litSim
		if descSim > score {
			score = descSim
		}
		ranked = append(ranked, database.RankedPhoto{Photo: *photo, Score: score})
	}

	sortRanked(ranked)
	return truncateRanked(ranked, limit), nil
}

func sortRanked(ranked []database.RankedPhoto) {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Photo.ID > ranked[j].Photo.ID
	})
}

func truncateRanked(ranked []database.RankedPhoto, limit int) []database.RankedPhoto {
	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
