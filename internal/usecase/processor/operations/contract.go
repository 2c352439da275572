package operations

import (
	"context"
	"image"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/compression"
)

type encoder interface {
	Encode(img image.Image, format domain.ImageFormat, quality float64) ([]byte, error)
}

// sizeTargetEncoder returns bytes within the budget when it can and a best
// effort otherwise.
type sizeTargetEncoder interface {
	EncodeToBudget(ctx context.Context, img *image.RGBA, budget compression.Budget) ([]byte, error)
}

// Encoded is the output of a terminal stage.
type Encoded struct {
	Data   []byte
	Format domain.ImageFormat
}

func (e *Encoded) MimeType() string {
	return e.Format.MimeType()
}
