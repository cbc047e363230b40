package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/voxelkit/voxel/api"
	"github.com/voxelkit/voxel/images/application"
	"github.com/voxelkit/voxel/images/domain"
)

const (
	stagingCacheControl = "public, max-age=3600"
	durableCacheControl = "public, max-age=31536000"
)

// UploadHandler exposes the image pipeline over HTTP: ingestion, staged
// reads, promotion, and durable reads.
type UploadHandler struct {
	ingestion *application.IngestionService
	promotion *application.PromotionService
	staging   domain.StagingStore
	durable   domain.DurableImageRepository
}

func NewUploadHandler(
	ingestion *application.IngestionService,
	promotion *application.PromotionService,
	staging domain.StagingStore,
	durable domain.DurableImageRepository,
) *UploadHandler {
	return &UploadHandler{
		ingestion: ingestion,
		promotion: promotion,
		staging:   staging,
		durable:   durable,
	}
}

// UploadImage ingests a base64 data URL and returns provisional staging URLs.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	req := &api.UploadImageRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staged, err := h.ingestion.Ingest(req.Image)
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to ingest image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusOK, api.UploadedImage{
		ID:           staged.ID,
		URL:          stagedURL(domain.VariantMiddle, staged.Filename),
		ThumbnailURL: stagedURL(domain.VariantThumbnail, staged.Filename),
	})
}

// GetStaged serves a staged variant by filename. Variant tokens are checked
// against the fixed enumeration and filenames may not carry path segments.
func (h *UploadHandler) GetStaged(c *gin.Context) {
	filename := c.Param("filename")
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, "/\\") {
		c.String(http.StatusBadRequest, "invalid filename")
		return
	}

	variant, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid variant")
		return
	}

	id := strings.TrimSuffix(filename, domain.StagedExt)
	data, err := h.staging.Get(id, variant)
	if errors.Is(err, domain.ErrNotFound) {
		c.String(http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("variant", string(variant)).Str("filename", filename).
			Msg("Failed to read staged image")
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	c.Header("Cache-Control", stagingCacheControl)
	c.Data(http.StatusOK, "image/jpeg", data)
}

// SaveImages promotes staged ids into durable storage and returns the durable
// locators of everything that made it. Called after the owning comment is
// durably written; failures here must never fail the comment, so unpromotable
// ids are simply absent from the result.
func (h *UploadHandler) SaveImages(c *gin.Context) {
	req := &api.SaveImagesRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ImageIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing imageIds"})
		return
	}

	promoted := h.promotion.Promote(c.Request.Context(), req.ImageIDs)

	resp := api.SaveImagesResponse{Images: make(map[string]api.SavedImage, len(promoted))}
	for _, id := range promoted {
		resp.Images[id] = api.SavedImage{
			URL:          durableURL(id),
			ThumbnailURL: durableURL(id) + "/thumbnail",
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetImage serves the middle-resolution blob of a promoted image.
func (h *UploadHandler) GetImage(c *gin.Context) {
	img, err := h.durable.GetImage(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.String(http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to read durable image")
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	c.Header("Cache-Control", durableCacheControl)
	c.Data(http.StatusOK, img.MimeType, img.Data)
}

// GetThumbnail serves the thumbnail blob of a promoted image.
func (h *UploadHandler) GetThumbnail(c *gin.Context) {
	img, err := h.durable.GetThumbnail(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.String(http.StatusNotFound, "thumbnail not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to read durable thumbnail")
		c.String(http.StatusInternalServerError, "server error")
		return
	}

	c.Header("Cache-Control", durableCacheControl)
	c.Data(http.StatusOK, img.MimeType, img.Thumbnail)
}

func stagedURL(variant domain.Variant, filename string) string {
	return "/api/upload/temp/" + string(variant) + "/" + filename
}

func durableURL(id string) string {
	return "/api/upload/db/" + id
}
