package operations

import (
	"context"
	"fmt"
	"image"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/geometry"
	"image-pipeline/internal/usecase/processor/surface"
)

type Resizer struct {
	resampler surface.Resampler
}

func NewResizer(resampler surface.Resampler) *Resizer {
	return &Resizer{resampler: resampler}
}

// Process returns a new surface; the input is never modified.
func (r *Resizer) Process(ctx context.Context, img *image.RGBA, cfg domain.ResizeConfig) (*image.RGBA, error) {
	if !cfg.Enabled {
		return surface.Clone(img), nil
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: resize target %dx%d", geometry.ErrInvalidDimensions, cfg.Width, cfg.Height)
	}

	switch cfg.Mode {
	case domain.ResizeStretch:
		return r.resampler.Resample(img, cfg.Width, cfg.Height), nil
	case domain.ResizeMaintainAspect:
		return r.fit(img, cfg.Width, cfg.Height)
	case domain.ResizePad:
		return r.pad(img, cfg)
	default:
		return nil, fmt.Errorf("unsupported resize mode: %q", cfg.Mode)
	}
}

func (r *Resizer) fit(img *image.RGBA, width, height int) (*image.RGBA, error) {
	srcW, srcH := surface.Size(img)
	fit, err := geometry.AspectFit(srcW, srcH, width, height)
	if err != nil {
		return nil, err
	}
	return r.resampler.Resample(img, fit.Width, fit.Height), nil
}

func (r *Resizer) pad(img *image.RGBA, cfg domain.ResizeConfig) (*image.RGBA, error) {
	padColor, err := surface.ParseColor(cfg.PadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad color: %w", err)
	}

	fitted, err := r.fit(img, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	canvas := surface.NewCanvas(cfg.Width, cfg.Height, padColor)
	fw, fh := surface.Size(fitted)
	offset := geometry.PadOffset(geometry.Size{Width: fw, Height: fh}, cfg.Width, cfg.Height)
	surface.DrawAt(canvas, fitted, offset)

	return canvas, nil
}
