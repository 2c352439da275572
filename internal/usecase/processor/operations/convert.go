package operations

import (
	"context"
	"fmt"
	"image"

	"image-pipeline/internal/domain"
)

type Converter struct {
	encoder encoder
}

func NewConverter(enc encoder) *Converter {
	return &Converter{encoder: enc}
}

// Process is the terminal encode when compression is off. Disabled, it falls
// back to JPEG at 0.95.
func (c *Converter) Process(ctx context.Context, img *image.RGBA, cfg domain.ConversionConfig) (*Encoded, error) {
	format := domain.FormatJPEG
	quality := domain.FallbackQuality

	if cfg.Enabled {
		format = cfg.Format
		quality = float64(cfg.Quality) / 100
	}

	data, err := c.encoder.Encode(img, format, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to %s: %w", format, err)
	}

	return &Encoded{Data: data, Format: format}, nil
}
