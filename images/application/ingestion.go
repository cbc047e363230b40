package application

import (
	"encoding/base64"
	"fmt"
	"regexp"

	"github.com/voxelkit/voxel/images/domain"
)

var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

// IngestionConfig holds the variant tunables for a single ingestion pipeline.
type IngestionConfig struct {
	MiddleMaxBytes int // byte ceiling for the middle rendition
	MiddleMaxWidth int // pixel width cap for the middle rendition
	ThumbnailSize  int // square edge length for the thumbnail
}

// IngestionService turns an uploaded data URL into three staged variants:
// the untouched original, a size-bounded middle rendition, and a square
// thumbnail. Nothing is written to durable storage; staged entries live until
// promotion or reclamation.
type IngestionService struct {
	staging    domain.StagingStore
	compressor *Compressor
	ids        domain.IDGenerator
	cfg        IngestionConfig
}

func NewIngestionService(staging domain.StagingStore, compressor *Compressor, ids domain.IDGenerator, cfg IngestionConfig) *IngestionService {
	return &IngestionService{
		staging:    staging,
		compressor: compressor,
		ids:        ids,
		cfg:        cfg,
	}
}

// Ingest validates and stages one uploaded image. The payload must be a
// base64 image data URL; the declared subtype is not checked against the
// actual bytes. Returns domain.ErrInvalidInput for malformed payloads.
//
// A failed ingestion may leave a partial staged set behind; the reclamation
// sweep collects it, so no rollback happens here.
func (s *IngestionService) Ingest(payload string) (*domain.StagedImage, error) {
	matches := dataURLPattern.FindStringSubmatch(payload)
	if matches == nil {
		return nil, fmt.Errorf("%w: payload is not a base64 image data URL", domain.ErrInvalidInput)
	}

	raw, err := base64.StdEncoding.DecodeString(matches[2])
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64 payload: %v", domain.ErrInvalidInput, err)
	}

	id := s.ids.NewID()

	if err := s.staging.Put(id, domain.VariantOriginal, raw); err != nil {
		return nil, fmt.Errorf("failed to stage original: %w", err)
	}

	middle, err := s.compressor.Compress(raw, s.cfg.MiddleMaxBytes, s.cfg.MiddleMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to derive middle rendition: %w", err)
	}
	if err := s.staging.Put(id, domain.VariantMiddle, middle); err != nil {
		return nil, fmt.Errorf("failed to stage middle rendition: %w", err)
	}

	thumb, err := s.compressor.Thumbnail(raw, s.cfg.ThumbnailSize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive thumbnail: %w", err)
	}
	if err := s.staging.Put(id, domain.VariantThumbnail, thumb); err != nil {
		return nil, fmt.Errorf("failed to stage thumbnail: %w", err)
	}

	return &domain.StagedImage{ID: id, Filename: domain.StagedFilename(id)}, nil
}
