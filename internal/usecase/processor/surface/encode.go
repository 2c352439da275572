package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"image-pipeline/internal/domain"

	"github.com/chai2010/webp"
)

// Encoder serialises surfaces. Quality is normalised to [0, 1]; PNG is
// lossless and ignores it.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(img image.Image, format domain.ImageFormat, quality float64) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error

	switch format {
	case domain.FormatJPEG, "jpg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality(quality)})
	case domain.FormatPNG:
		err = png.Encode(buf, img)
	case domain.FormatWebP:
		err = webp.Encode(buf, img, &webp.Options{Quality: float32(JPEGQuality(quality))})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// JPEGQuality maps a [0, 1] quality onto the encoder's 1..100 scale.
func JPEGQuality(q float64) int {
	if math.IsNaN(q) {
		return 100
	}
	return clamp(int(math.Round(q*100)), 1, 100)
}
