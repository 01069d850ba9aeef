package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/mvillareal/lumina/internal/database"
)

// PhotoRepository provides PostgreSQL-backed photo storage.
type PhotoRepository struct {
	pool *Pool
}

// NewPhotoRepository creates a new PostgreSQL photo repository.
func NewPhotoRepository(pool *Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

// Insert stores a fully-populated photo record.
func (r *PhotoRepository) Insert(ctx context.Context, photo *database.PhotoRecord) error {
	query := `
		INSERT INTO photos (
			id, owner_id, file_name,
			literal_caption, descriptive_caption, tags, tags_text, manual_note,
			phash, dhash, width, height, analysis, thumbnail,
			literal_embedding, descriptive_embedding, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		photo.ID,
		photo.OwnerID,
		photo.FileName,
		photo.Literal,
		photo.Descriptive,
		pq.Array(photo.Tags),
		strings.Join(photo.Tags, " "),
		photo.ManualNote,
		photo.PHash,
		photo.DHash,
		photo.Width,
		photo.Height,
		photo.Analysis,
		photo.Thumbnail,
		pgvector.NewVector(photo.LiteralEmbedding),
		pgvector.NewVector(photo.DescriptiveEmbedding),
		photo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// Get retrieves a photo by ID, scoped to the owner.
func (r *PhotoRepository) Get(ctx context.Context, ownerID, id string) (*database.PhotoRecord, error) {
	query := `
		SELECT id, owner_id, file_name,
		       literal_caption, descriptive_caption, tags, manual_note,
		       phash, dhash, width, height, created_at
		FROM photos
		WHERE owner_id = $1 AND id = $2
	`

	var photo database.PhotoRecord
	err := r.pool.QueryRow(ctx, query, ownerID, id).Scan(
		&photo.ID,
		&photo.OwnerID,
		&photo.FileName,
		&photo.Literal,
		&photo.Descriptive,
		pq.Array(&photo.Tags),
		&photo.ManualNote,
		&photo.PHash,
		&photo.DHash,
		&photo.Width,
		&photo.Height,
		&photo.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query photo: %w", err)
	}
	return &photo, nil
}

// GetImage retrieves the analysis rendition bytes for a photo.
func (r *PhotoRepository) GetImage(ctx context.Context, ownerID, id string) ([]byte, error) {
	var analysis []byte
	err := r.pool.QueryRow(ctx,
		"SELECT analysis FROM photos WHERE owner_id = $1 AND id = $2",
		ownerID, id,
	).Scan(&analysis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query analysis image: %w", err)
	}
	return analysis, nil
}

// GetThumbnail retrieves just the thumbnail bytes for a photo.
func (r *PhotoRepository) GetThumbnail(ctx context.Context, ownerID, id string) ([]byte, error) {
	var thumbnail []byte
	err := r.pool.QueryRow(ctx,
		"SELECT thumbnail FROM photos WHERE owner_id = $1 AND id = $2",
		ownerID, id,
	).Scan(&thumbnail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query thumbnail: %w", err)
	}
	return thumbnail, nil
}

// Delete removes a photo, scoped to the owner.
func (r *PhotoRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.pool.Exec(ctx,
		"DELETE FROM photos WHERE owner_id = $1 AND id = $2",
		ownerID, id,
	)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete photo rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// List returns the owner's photos, newest first.
func (r *PhotoRepository) List(ctx context.Context, ownerID string) ([]database.PhotoRecord, error) {
	query := `
		SELECT id, owner_id, file_name,
		       literal_caption, descriptive_caption, tags, manual_note,
		       phash, dhash, width, height, created_at
		FROM photos
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []database.PhotoRecord
	for rows.Next() {
		var photo database.PhotoRecord
		if err := rows.Scan(
			&photo.ID,
			&photo.OwnerID,
			&photo.FileName,
			&photo.Literal,
			&photo.Descriptive,
			pq.Array(&photo.Tags),
			&photo.ManualNote,
			&photo.PHash,
			&photo.DHash,
			&photo.Width,
			&photo.Height,
			&photo.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}

// ListHashes returns the perceptual hashes of all the owner's photos.
func (r *PhotoRepository) ListHashes(ctx context.Context, ownerID string) ([]database.StoredHash, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, phash, dhash FROM photos WHERE owner_id = $1",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list hashes: %w", err)
	}
	defer rows.Close()

	var hashes []database.StoredHash
	for rows.Next() {
		var h database.StoredHash
		if err := rows.Scan(&h.ID, &h.PHash, &h.DHash); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hashes: %w", err)
	}
	return hashes, nil
}

// SearchLexical runs a full-text retrieval over captions, tags and notes.
func (r *PhotoRepository) SearchLexical(ctx context.Context, ownerID, query string, limit int) ([]database.RankedPhoto, error) {
	sqlQuery := `
		SELECT id, owner_id, file_name,
		       literal_caption, descriptive_caption, tags, manual_note,
		       phash, dhash, width, height, created_at,
		       ts_rank(search_text, q) AS rank
		FROM photos, websearch_to_tsquery('english', $2) q
		WHERE owner_id = $1 AND search_text @@ q
		ORDER BY rank DESC, created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, sqlQuery, ownerID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}
	defer rows.Close()

	return scanRankedPhotos(rows)
}

// SearchSemantic runs a vector retrieval; each photo ranks by the better
// of its two embedding similarities.
func (r *PhotoRepository) SearchSemantic(ctx context.Context, ownerID string, embedding []float32, limit int) ([]database.RankedPhoto, error) {
	sqlQuery := `
		SELECT id, owner_id, file_name,
		       literal_caption, descriptive_caption, tags, manual_note,
		       phash, dhash, width, height, created_at,
		       GREATEST(
		           1 - (literal_embedding <=> $2::vector),
		           1 - (descriptive_embedding <=> $2::vector)
		       ) AS similarity
		FROM photos
		WHERE owner_id = $1
		ORDER BY similarity DESC, created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, sqlQuery, ownerID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	defer rows.Close()

	return scanRankedPhotos(rows)
}

func scanRankedPhotos(rows *sql.Rows) ([]database.RankedPhoto, error) {
	var ranked []database.RankedPhoto
	for rows.Next() {
		var rp database.RankedPhoto
		if err := rows.Scan(
			&rp.Photo.ID,
			&rp.Photo.OwnerID,
			&rp.Photo.FileName,
			&rp.Photo.Literal,
			&rp.Photo.Descriptive,
			pq.Array(&rp.Photo.Tags),
			&rp.Photo.ManualNote,
			&rp.Photo.PHash,
			&rp.Photo.DHash,
			&rp.Photo.Width,
			&rp.Photo.Height,
			&rp.Photo.CreatedAt,
			&rp.Score,
		); err != nil {
			return nil, fmt.Errorf("scan ranked photo: %w", err)
		}
		ranked = append(ranked, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked photos: %w", err)
	}
	return ranked, nil
}
