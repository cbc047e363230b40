package codec

// Passthrough is the identity codec used when image processing is disabled.
// Every operation hands back the original bytes untouched, so derived
// variants are byte-identical to the upload and no size bound is enforced.
type Passthrough struct{}

var _ Codec = Passthrough{}

func (Passthrough) Decode(data []byte) (Frame, error) {
	return Frame{raw: data}, nil
}

func (Passthrough) Resize(f Frame, width int) Frame { return f }

func (Passthrough) Fill(f Frame, size int) Frame { return f }

func (Passthrough) Encode(f Frame, quality int) ([]byte, error) {
	return f.raw, nil
}
