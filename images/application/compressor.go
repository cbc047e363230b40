package application

import (
	"fmt"

	"github.com/voxelkit/voxel/images/codec"
)

// Compression step schedule. These values are policy: they decide how much
// visual quality is traded away before linear resolution is, and tests pin
// them down.
const (
	initialQuality = 90 // first encode attempt
	qualityStep    = 10 // quality drop per failed attempt
	minQuality     = 10 // below this, shrink dimensions instead
	retryQuality   = 80 // quality after a dimension shrink
	minWidth       = 800 // dimensions are never shrunk below this
	thumbQuality   = 80 // thumbnails use a single fixed quality
)

// Compressor produces size-bounded renditions of an uploaded image by
// hill-climbing over (quality, width) with a fixed step schedule.
type Compressor struct {
	codec codec.Codec
}

func NewCompressor(c codec.Codec) *Compressor {
	return &Compressor{codec: c}
}

// Compress re-encodes data so the result fits under maxBytes, never exceeding
// maxWidth pixels wide. Quality starts at 90 and drops in steps of 10; once it
// reaches the floor the width shrinks by 20% and quality resets to 80, until
// the width floor of 800px is hit. If the budget is unreachable even then, the
// smallest result achieved is returned rather than an error.
//
// With the Passthrough codec this degrades to an identity transform and the
// size bound does not hold.
func (c *Compressor) Compress(data []byte, maxBytes, maxWidth int) ([]byte, error) {
	frame, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read image for compression: %w", err)
	}

	width := frame.Width()
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}

	quality := initialQuality
	var best []byte

	for {
		out, err := c.codec.Encode(c.codec.Resize(frame, width), quality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode at quality %d: %w", quality, err)
		}

		if best == nil || len(out) < len(best) {
			best = out
		}
		if len(out) <= maxBytes {
			return out, nil
		}

		quality -= qualityStep
		if quality <= minQuality {
			if width <= minWidth {
				return best, nil
			}
			width = width * 4 / 5
			quality = retryQuality
		}
	}
}

// Thumbnail scales and center-crops data to an exact size×size square at a
// fixed quality. No size-ceiling loop; thumbnails are small by construction.
func (c *Compressor) Thumbnail(data []byte, size int) ([]byte, error) {
	frame, err := c.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read image for thumbnail: %w", err)
	}

	out, err := c.codec.Encode(c.codec.Fill(frame, size), thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return out, nil
}
