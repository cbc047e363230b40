package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested image or variant does not exist.
	ErrNotFound = errors.New("image not found")

	// ErrInvalidInput is returned when an upload payload is not a recognized
	// base64 image data URL.
	ErrInvalidInput = errors.New("invalid image input")
)

// Variant identifies one of the fixed derived forms of a staged image.
type Variant string

const (
	VariantOriginal  Variant = "original"
	VariantMiddle    Variant = "middle"
	VariantThumbnail Variant = "thumbnail"
)

// Variants lists every staging variant, in the order they are written.
var Variants = []Variant{VariantOriginal, VariantMiddle, VariantThumbnail}

// ParseVariant validates a caller-supplied variant token against the fixed
// enumeration. Tokens are used to select storage areas, so anything outside
// the enumeration is rejected before it can touch a path.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantOriginal, VariantMiddle, VariantThumbnail:
		return Variant(s), nil
	}
	return "", fmt.Errorf("%w: unknown variant %q", ErrInvalidInput, s)
}

// StagedExt is the fixed extension for every staged file. Derived variants
// are always JPEG re-encodes; the original keeps the extension for uniform
// naming even when its bytes are another format.
const StagedExt = ".jpg"

// StagedFilename derives the staging filename for an id.
func StagedFilename(id string) string {
	return id + StagedExt
}

// StagedFile is one file in the staging area, as enumerated by ListAll.
type StagedFile struct {
	Variant  Variant
	Filename string
}

// StagedImage describes a freshly ingested image and its staged variants.
type StagedImage struct {
	ID       string
	Filename string
}

// DurableImage is a promoted image as stored in the durable store. Data holds
// the middle-resolution rendition; Thumbnail the square preview.
type DurableImage struct {
	ID        string
	Data      []byte
	Thumbnail []byte
	MimeType  string
	CreatedAt time.Time
}

// StagingStore is the temporary, filesystem-backed store for uploaded images
// awaiting promotion. Entries live until they are promoted or reclaimed.
type StagingStore interface {
	// Put writes one variant for an id, creating nothing but the file itself
	// (variant areas are provisioned when the store is constructed).
	Put(id string, variant Variant, data []byte) error

	// Get reads one variant for an id. Returns ErrNotFound when absent.
	Get(id string, variant Variant) ([]byte, error)

	// DeleteAll removes every variant for an id. Best-effort: individual
	// failures are logged and do not abort deletion of the remaining variants.
	DeleteAll(id string)

	// ListAll enumerates every file across all variant areas.
	ListAll() ([]StagedFile, error)

	// Remove deletes a single enumerated file. A file already gone is not an
	// error; concurrent promotion may have deleted it first.
	Remove(f StagedFile) error
}

// DurableImageRepository persists promoted images. Save has replace semantics
// so a retried promotion overwrites rather than duplicates.
type DurableImageRepository interface {
	Save(ctx context.Context, img *DurableImage) error

	// GetImage loads the middle-resolution blob and mime type for an id.
	GetImage(ctx context.Context, id string) (*DurableImage, error)

	// GetThumbnail loads the thumbnail blob and mime type for an id.
	GetThumbnail(ctx context.Context, id string) (*DurableImage, error)
}

// IDGenerator mints opaque image ids. Implementations are not required to
// check for collisions; the default relies on the size of the id space.
type IDGenerator interface {
	NewID() string
}
