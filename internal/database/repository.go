package database

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested photo does not exist for the given
// owner. Lookups never leak photos across owners.
var ErrNotFound = errors.New("photo not found")

// PhotoRepository provides storage for photos and the two ranked
// retrievals hybrid search is built on.
type PhotoRepository interface {
	// Insert stores a fully-populated photo record.
	Insert(ctx context.Context, photo *PhotoRecord) error
	// Get retrieves a photo by ID, scoped to the owner.
	Get(ctx context.Context, ownerID, id string) (*PhotoRecord, error)
	// GetImage retrieves the analysis rendition bytes for a photo.
	GetImage(ctx context.Context, ownerID, id string) ([]byte, error)
	// GetThumbnail retrieves just the thumbnail bytes for a photo.
	GetThumbnail(ctx context.Context, ownerID, id string) ([]byte, error)
	// Delete removes a photo, scoped to the owner.
	Delete(ctx context.Context, ownerID, id string) error
	// List returns the owner's photos, newest first.
	List(ctx context.Context, ownerID string) ([]PhotoRecord, error)
	// ListHashes returns the perceptual hashes of all the owner's photos
	// for the duplicate scan.
	ListHashes(ctx context.Context, ownerID string) ([]StoredHash, error)
	// SearchLexical runs a full-text retrieval over captions, tags and
	// notes, best match first.
	SearchLexical(ctx context.Context, ownerID, query string, limit int) ([]RankedPhoto, error)
	// SearchSemantic runs a vector retrieval; each photo ranks by the
	// better of its two embedding similarities, best match first.
	SearchSemantic(ctx context.Context, ownerID string, embedding []float32, limit int) ([]RankedPhoto, error)
}
