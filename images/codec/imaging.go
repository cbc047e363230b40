package codec

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Imaging is the real codec, built on github.com/disintegration/imaging.
// It decodes any format the imaging library understands and always encodes
// to JPEG.
type Imaging struct{}

var _ Codec = Imaging{}

func (Imaging) Decode(data []byte) (Frame, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Frame{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return Frame{img: img, raw: data}, nil
}

func (Imaging) Resize(f Frame, width int) Frame {
	if f.img == nil || width <= 0 || width >= f.img.Bounds().Dx() {
		return f
	}
	return Frame{img: imaging.Resize(f.img, width, 0, imaging.Lanczos), raw: f.raw}
}

func (Imaging) Fill(f Frame, size int) Frame {
	if f.img == nil || size <= 0 {
		return f
	}
	return Frame{img: imaging.Fill(f.img, size, size, imaging.Center, imaging.Lanczos), raw: f.raw}
}

func (Imaging) Encode(f Frame, quality int) ([]byte, error) {
	if f.img == nil {
		return f.raw, nil
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, f.img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
