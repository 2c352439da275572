package batch

import (
	"context"
	"io"

	"image-pipeline/internal/domain"
	batch_uc "image-pipeline/internal/usecase/batch"
)

type batchUsecase interface {
	Submit(ctx context.Context, req batch_uc.SubmitRequest) (*domain.Batch, error)
	GetBatch(ctx context.Context, id string) (*domain.Batch, error)
	GetFile(ctx context.Context, batchID, fileID string) (domain.ProcessingResult, error)
	WriteArchive(ctx context.Context, batchID string, w io.Writer) error
	Export(ctx context.Context, batchID string) ([]string, error)
	Delete(ctx context.Context, id string) error
	ListPresets() []domain.Preset
}
