package api

// UploadImageRequest carries a base64 image data URL
// ("data:image/<subtype>;base64,<payload>").
type UploadImageRequest struct {
	Image string `json:"image"`
}

// UploadedImage points at the staged variants of a fresh upload. The URLs
// resolve through the staging read path and vanish once the image is promoted
// or reclaimed.
type UploadedImage struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// SaveImagesRequest lists the staged ids to promote into durable storage.
type SaveImagesRequest struct {
	ImageIDs []string `json:"imageIds"`
}

// SavedImage points at the durable variants of a promoted image.
type SavedImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// SaveImagesResponse maps each successfully promoted id to its durable
// locators. Ids that could not be promoted are absent, not errored.
type SaveImagesResponse struct {
	Images map[string]SavedImage `json:"images"`
}
