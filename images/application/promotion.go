package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxelkit/voxel/images/domain"
)

// promotedMimeType is what every promoted image carries: the middle and
// thumbnail variants are always JPEG re-encodes.
const promotedMimeType = "image/jpeg"

// PromotionService moves staged variants into the durable store. This is the
// only path by which staged content becomes permanent.
type PromotionService struct {
	staging domain.StagingStore
	durable domain.DurableImageRepository
}

func NewPromotionService(staging domain.StagingStore, durable domain.DurableImageRepository) *PromotionService {
	return &PromotionService{
		staging: staging,
		durable: durable,
	}
}

// Promote writes the middle and thumbnail variants of each id into the
// durable store and removes the staged copies. Ids that cannot be promoted —
// never staged, already reclaimed, or failing mid-flight — are skipped, not
// reported; the result holds only the ids that made it. An empty input is a
// no-op.
//
// A staged file vanishing between listing and reading is an expected race
// with the reclamation sweep and is treated exactly like a never-staged id.
func (s *PromotionService) Promote(ctx context.Context, ids []string) []string {
	promoted := make([]string, 0, len(ids))

	for _, id := range ids {
		middle, err := s.staging.Get(id, domain.VariantMiddle)
		if err != nil {
			logSkip(id, domain.VariantMiddle, err)
			continue
		}

		thumb, err := s.staging.Get(id, domain.VariantThumbnail)
		if err != nil {
			logSkip(id, domain.VariantThumbnail, err)
			continue
		}

		img := &domain.DurableImage{
			ID:        id,
			Data:      middle,
			Thumbnail: thumb,
			MimeType:  promotedMimeType,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.durable.Save(ctx, img); err != nil {
			log.Error().Err(err).Str("id", id).Msg("Failed to promote image")
			continue
		}

		// The durable row is the source of truth now; staged cleanup is
		// advisory and DeleteAll never raises.
		s.staging.DeleteAll(id)
		promoted = append(promoted, id)
	}

	return promoted
}

func logSkip(id string, variant domain.Variant, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Str("id", id).Str("variant", string(variant)).
			Msg("Skipping promotion of unstaged id")
		return
	}
	log.Error().Err(err).Str("id", id).Str("variant", string(variant)).
		Msg("Failed to read staged variant for promotion")
}
