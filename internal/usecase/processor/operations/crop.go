package operations

import (
	"context"
	"image"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/geometry"
	"image-pipeline/internal/usecase/processor/surface"
)

type Cropper struct{}

func NewCropper() *Cropper {
	return &Cropper{}
}

// Process crops relative to the surface it is given, so after a resize the
// crop dimensions refer to the resized canvas. A config missing the
// parameters its mode needs is a pass-through.
func (c *Cropper) Process(ctx context.Context, img *image.RGBA, cfg domain.CropConfig) (*image.RGBA, error) {
	if !cfg.Enabled {
		return img, nil
	}

	w, h := surface.Size(img)

	switch {
	case cfg.Mode == domain.CropCenter && cfg.Width > 0 && cfg.Height > 0:
		return surface.Crop(img, geometry.CenterCropRect(w, h, cfg.Width, cfg.Height)), nil
	case cfg.Mode == domain.CropAspectRatio && cfg.AspectRatio != "":
		ratio, err := geometry.ParseAspectRatio(cfg.AspectRatio)
		if err != nil {
			return nil, err
		}
		return surface.Crop(img, geometry.AspectCropRect(w, h, ratio)), nil
	default:
		return img, nil
	}
}
