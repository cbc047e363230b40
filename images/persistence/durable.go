package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/voxelkit/voxel/images/domain"
	"github.com/voxelkit/voxel/shared/db"
)

var _ domain.DurableImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.DurableImageRepository on SQLite.
// Promoted images live entirely in the database: middle blob, thumbnail blob,
// and mime type in a single row per id.
type SQLiteImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new SQLiteImageRepository from a standard sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db: sqlDB,
	}
}

const upsertImageQuery = `
	INSERT INTO images (id, data, thumbnail, mime_type, created_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		data = excluded.data,
		thumbnail = excluded.thumbnail,
		mime_type = excluded.mime_type,
		created_at = COALESCE(images.created_at, excluded.created_at)
`

// Save upserts a promoted image. Replace semantics make a retried promotion
// overwrite the existing row instead of duplicating or failing.
func (r *SQLiteImageRepository) Save(ctx context.Context, img *domain.DurableImage) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if img.ID == "" {
		return fmt.Errorf("image id cannot be empty")
	}
	if img.MimeType == "" {
		return fmt.Errorf("image mime type cannot be empty")
	}

	createdAt := img.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertImageQuery,
			img.ID,
			img.Data,
			img.Thumbnail,
			img.MimeType,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert image record: %w", err)
		}
		return nil
	})
}

const getImageQuery = `
	SELECT id, data, mime_type, created_at
	FROM images
	WHERE id = ?
`

// GetImage retrieves the middle-resolution blob for an id. The thumbnail blob
// is deliberately not loaded; readers fetch one blob at a time.
func (r *SQLiteImageRepository) GetImage(ctx context.Context, id string) (*domain.DurableImage, error) {
	if id == "" {
		return nil, fmt.Errorf("image id cannot be empty")
	}

	img := &domain.DurableImage{}
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, getImageQuery, id).Scan(
		&img.ID,
		&img.Data,
		&img.MimeType,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	if createdAt.Valid {
		img.CreatedAt = createdAt.Time
	}
	return img, nil
}

const getThumbnailQuery = `
	SELECT id, thumbnail, mime_type, created_at
	FROM images
	WHERE id = ?
`

// GetThumbnail retrieves the thumbnail blob for an id.
func (r *SQLiteImageRepository) GetThumbnail(ctx context.Context, id string) (*domain.DurableImage, error) {
	if id == "" {
		return nil, fmt.Errorf("image id cannot be empty")
	}

	img := &domain.DurableImage{}
	var createdAt sql.NullTime
	err := r.db.QueryRowContext(ctx, getThumbnailQuery, id).Scan(
		&img.ID,
		&img.Thumbnail,
		&img.MimeType,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thumbnail: %w", err)
	}

	if createdAt.Valid {
		img.CreatedAt = createdAt.Time
	}
	return img, nil
}
