package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository"
	"image-pipeline/internal/repository/artifact"
	"image-pipeline/internal/repository/artifact/archive"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// SubmitRequest selects the processing config either by preset name or
// explicitly. With neither, the default preset (or the built-in default
// config) applies.
type SubmitRequest struct {
	Files      []domain.InputFile
	Config     *domain.ProcessingConfig
	PresetName string
}

type BatchUsecase struct {
	repo          batchRepository
	presets       presetRepository
	producer      batchProducer
	validator     configValidator
	exporter      exporter
	defaultPreset string
	logger        *zlog.Zerolog
	retries       retry.Strategy
}

// NewBatchUsecase accepts a nil exporter; Export then reports
// ErrExportDisabled.
func NewBatchUsecase(
	repo batchRepository,
	presets presetRepository,
	producer batchProducer,
	validator configValidator,
	exporter exporter,
	defaultPreset string,
	logger *zlog.Zerolog,
	retries retry.Strategy,
) *BatchUsecase {
	return &BatchUsecase{
		repo:          repo,
		presets:       presets,
		producer:      producer,
		validator:     validator,
		exporter:      exporter,
		defaultPreset: defaultPreset,
		logger:        logger,
		retries:       retries,
	}
}

func (u *BatchUsecase) Submit(ctx context.Context, req SubmitRequest) (*domain.Batch, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}

	cfg, presetName, err := u.resolveConfig(req)
	if err != nil {
		return nil, err
	}

	if err := u.validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	now := time.Now()
	b := &domain.Batch{
		ID:         uuid.New().String(),
		Status:     domain.BatchQueued,
		Config:     cfg,
		PresetName: presetName,
		Files:      req.Files,
		Progress:   domain.ProcessingProgress{Total: len(req.Files)},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := u.repo.Save(ctx, b); err != nil {
		u.logger.Error().Err(err).Str("batch_id", b.ID).Msg("Failed to save batch")
		return nil, fmt.Errorf("%w: %v", ErrStorageError, err)
	}

	if err := u.producer.Send(ctx, u.retries, b.ID); err != nil {
		u.logger.Error().Err(err).Str("batch_id", b.ID).Msg("Failed to queue batch")
		if markErr := u.repo.MarkFailed(ctx, b.ID, "failed to queue batch"); markErr != nil {
			u.logger.Error().Err(markErr).Str("batch_id", b.ID).Msg("Failed to update status")
		}
		return nil, fmt.Errorf("%w: %v", ErrMessageQueueError, err)
	}

	u.logger.Info().
		Str("batch_id", b.ID).
		Int("files", len(b.Files)).
		Str("preset", presetName).
		Msg("Batch queued for processing")

	return b, nil
}

func (u *BatchUsecase) resolveConfig(req SubmitRequest) (domain.ProcessingConfig, string, error) {
	name := req.PresetName
	if name == "" && req.Config != nil {
		return *req.Config, "", nil
	}
	if name == "" {
		name = u.defaultPreset
	}
	if name == "" {
		return domain.DefaultConfig(), "", nil
	}

	p, err := u.presets.Find(name)
	if err != nil {
		if errors.Is(err, repository.ErrPresetNotFound) {
			return domain.ProcessingConfig{}, "", fmt.Errorf("%w: %q", ErrPresetNotFound, name)
		}
		return domain.ProcessingConfig{}, "", err
	}
	return p.Config, p.Name, nil
}

func (u *BatchUsecase) GetBatch(ctx context.Context, id string) (*domain.Batch, error) {
	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBatchNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return b, nil
}

// GetFile returns a single successful result of a finished batch.
func (u *BatchUsecase) GetFile(ctx context.Context, batchID, fileID string) (domain.ProcessingResult, error) {
	b, err := u.finished(ctx, batchID)
	if err != nil {
		return domain.ProcessingResult{}, err
	}

	r, ok := b.Result(fileID)
	if !ok || !r.Success {
		return domain.ProcessingResult{}, ErrFileNotFound
	}
	return r, nil
}

// WriteArchive streams every successful file of the batch as a zip.
func (u *BatchUsecase) WriteArchive(ctx context.Context, batchID string, w io.Writer) error {
	b, err := u.finished(ctx, batchID)
	if err != nil {
		return err
	}

	entries := artifact.Entries(b.Results)
	if len(entries) == 0 {
		return ErrNoResults
	}

	return archive.Write(w, entries)
}

func (u *BatchUsecase) Export(ctx context.Context, batchID string) ([]string, error) {
	if u.exporter == nil {
		return nil, ErrExportDisabled
	}

	b, err := u.finished(ctx, batchID)
	if err != nil {
		return nil, err
	}

	entries := artifact.Entries(b.Results)
	if len(entries) == 0 {
		return nil, ErrNoResults
	}

	keys, err := u.exporter.Export(ctx, b.ID, entries)
	if err != nil {
		return keys, fmt.Errorf("%w: %v", ErrStorageError, err)
	}
	return keys, nil
}

// Delete drops the session. A batch still being processed is finished by
// the worker and then discarded.
func (u *BatchUsecase) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBatchNotFound) {
			return ErrBatchNotFound
		}
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	u.logger.Info().Str("batch_id", id).Msg("Batch deleted")
	return nil
}

func (u *BatchUsecase) ListPresets() []domain.Preset {
	return u.presets.List()
}

func (u *BatchUsecase) finished(ctx context.Context, id string) (*domain.Batch, error) {
	b, err := u.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Done() {
		return nil, ErrBatchNotReady
	}
	return b, nil
}
