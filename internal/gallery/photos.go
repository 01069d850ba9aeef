package gallery

import (
	"context"

	"github.com/mvillareal/lumina/internal/database"
)

// ListPhotos returns the owner's photos, newest first.
func (s *Service) ListPhotos(ctx context.Context, ownerID string) ([]database.PhotoRecord, error) {
	return s.repo.List(ctx, ownerID)
}

// GetPhoto returns one photo by ID, owner-scoped.
func (s *Service) GetPhoto(ctx context.Context, ownerID, id string) (*database.PhotoRecord, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// GetImage returns the analysis rendition bytes for one photo, the copy
// served for detail views.
func (s *Service) GetImage(ctx context.Context, ownerID, id string) ([]byte, error) {
	return s.repo.GetImage(ctx, ownerID, id)
}

// GetThumbnail returns the stored thumbnail bytes for one photo.
func (s *Service) GetThumbnail(ctx context.Context, ownerID, id string) ([]byte, error) {
	return s.repo.GetThumbnail(ctx, ownerID, id)
}

// DeletePhoto removes one photo by ID, owner-scoped.
func (s *Service) DeletePhoto(ctx context.Context, ownerID, id string) error {
	err := s.repo.Delete(ctx, ownerID, id)
	if err == nil {
		s.log.WithField("photo_id", id).Info("photo deleted")
	}
	return err
}
