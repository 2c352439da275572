package operations

import (
	"context"
	"fmt"
	"image"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/compression"

	"github.com/wb-go/wbf/zlog"
)

// Compressor owns the terminal encode when compression is enabled. Output is
// always JPEG.
type Compressor struct {
	encoder  encoder
	strategy sizeTargetEncoder
	logger   *zlog.Zerolog
}

func NewCompressor(enc encoder, strategy sizeTargetEncoder, logger *zlog.Zerolog) *Compressor {
	return &Compressor{
		encoder:  enc,
		strategy: strategy,
		logger:   logger,
	}
}

// Process never fails because of the size search: any error there falls back
// to a single full-quality encode of the unmodified surface.
func (c *Compressor) Process(ctx context.Context, img *image.RGBA, cfg domain.CompressionConfig) (*Encoded, error) {
	data, err := c.compress(ctx, img, cfg)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Float64("target_size_kb", cfg.TargetSizeKB).
			Int("quality", cfg.Quality).
			Msg("Compression failed, falling back to full quality encode")

		data, err = c.encoder.Encode(img, domain.FormatJPEG, domain.FullQuality)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fallback jpeg: %w", err)
		}
	}

	return &Encoded{Data: data, Format: domain.FormatJPEG}, nil
}

func (c *Compressor) compress(ctx context.Context, img *image.RGBA, cfg domain.CompressionConfig) ([]byte, error) {
	var quality float64
	if cfg.Quality > 0 {
		quality = float64(cfg.Quality) / 100
	}

	if cfg.TargetSizeKB > 0 {
		w, h := img.Bounds().Dx(), img.Bounds().Dy()
		return c.strategy.EncodeToBudget(ctx, img, compression.Budget{
			MaxBytes:       int64(cfg.TargetSizeKB * 1024),
			MaxDimension:   max(w, h),
			InitialQuality: quality,
		})
	}

	if quality == 0 {
		quality = float64(domain.DefaultCompressionQuality) / 100
	}
	return c.encoder.Encode(img, domain.FormatJPEG, quality)
}
