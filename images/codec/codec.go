// Package codec wraps the raster image library behind a capability interface
// so the rest of the pipeline never imports it directly. Two implementations
// exist: Imaging (the real codec) and Passthrough (identity transform for
// environments where image processing is disabled). The choice is made once
// at startup, not probed per call.
package codec

import "image"

// Frame is a decoded image as it moves through resize/encode steps. A frame
// produced by Passthrough carries only the raw input bytes.
type Frame struct {
	img image.Image
	raw []byte
}

// Width returns the pixel width of the decoded frame, or 0 when the frame was
// never actually decoded (Passthrough).
func (f Frame) Width() int {
	if f.img == nil {
		return 0
	}
	return f.img.Bounds().Dx()
}

// Height returns the pixel height of the decoded frame, or 0 when the frame
// was never actually decoded.
func (f Frame) Height() int {
	if f.img == nil {
		return 0
	}
	return f.img.Bounds().Dy()
}

// Codec decodes, resizes, and re-encodes images to JPEG.
type Codec interface {
	Decode(data []byte) (Frame, error)

	// Resize scales the frame to the given width, preserving aspect ratio.
	// It never enlarges; callers clamp width to the source width first.
	Resize(f Frame, width int) Frame

	// Fill scales and center-crops the frame to an exact size×size square.
	Fill(f Frame, size int) Frame

	// Encode re-encodes the frame as JPEG at the given quality (1-100).
	Encode(f Frame, quality int) ([]byte, error)
}
