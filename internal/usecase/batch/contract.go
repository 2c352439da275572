package batch

import (
	"context"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository/artifact"

	"github.com/wb-go/wbf/retry"
)

type batchRepository interface {
	Save(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	MarkFailed(ctx context.Context, id string, reason string) error
	Delete(ctx context.Context, id string) error
}

type presetRepository interface {
	List() []domain.Preset
	Find(name string) (domain.Preset, error)
}

type batchProducer interface {
	Send(ctx context.Context, strategy retry.Strategy, batchID string) error
}

type configValidator interface {
	Validate(cfg domain.ProcessingConfig) error
}

type exporter interface {
	Export(ctx context.Context, batchID string, entries []artifact.Entry) ([]string, error)
}
