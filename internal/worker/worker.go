package worker

import (
	"context"
	"fmt"
	"time"

	"image-pipeline/internal/broker"
	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor"

	"github.com/wb-go/wbf/zlog"
)

type batchProcessor interface {
	ProcessBatch(ctx context.Context, files []domain.InputFile, cfg domain.ProcessingConfig, onProgress processor.ProgressFunc) ([]domain.ProcessingResult, error)
}

type batchRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	UpdateStatus(ctx context.Context, id string, status domain.BatchStatus) error
	UpdateProgress(ctx context.Context, id string, progress domain.ProcessingProgress) error
	SaveResults(ctx context.Context, id string, results []domain.ProcessingResult) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

// Worker processes queued batches one at a time. There is exactly one
// consumer loop, so files of different batches are never processed
// concurrently.
type Worker struct {
	consumer  broker.Consumer
	processor batchProcessor
	repo      batchRepository
	logger    *zlog.Zerolog
}

func NewWorker(consumer broker.Consumer, processor batchProcessor, repo batchRepository, logger *zlog.Zerolog) *Worker {
	return &Worker{
		consumer:  consumer,
		processor: processor,
		repo:      repo,
		logger:    logger,
	}
}

// Run blocks until ctx is done. A batch that has started is always
// finished before Run returns.
func (w *Worker) Run(ctx context.Context) {
	messages := make(chan *broker.Message)
	w.consumer.Start(ctx, messages)

	w.logger.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Worker stopped")
			return
		case msg := <-messages:
			startTime := time.Now()

			if err := w.safeProcessMessage(context.WithoutCancel(ctx), msg); err != nil {
				w.logger.Error().
					Err(err).
					Str("batch_id", msg.BatchID).
					Int64("offset", msg.Offset).
					Msg("Failed to process batch")
			}

			if err := w.consumer.Commit(ctx, msg); err != nil {
				w.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit message")
			}

			w.logger.Debug().
				Str("batch_id", msg.BatchID).
				Int64("offset", msg.Offset).
				Dur("duration", time.Since(startTime)).
				Msg("Message handled")
		}
	}
}

func (w *Worker) safeProcessMessage(ctx context.Context, msg *broker.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Interface("panic", r).
				Str("batch_id", msg.BatchID).
				Msg("Panic recovered while processing batch")
			err = fmt.Errorf("panic: %v", r)
			w.markFailed(ctx, msg.BatchID, err.Error())
		}
	}()
	return w.processMessage(ctx, msg)
}

func (w *Worker) processMessage(ctx context.Context, msg *broker.Message) error {
	batch, err := w.repo.GetByID(ctx, msg.BatchID)
	if err != nil {
		return fmt.Errorf("failed to load batch: %w", err)
	}

	if batch.Status != domain.BatchQueued {
		w.logger.Warn().Str("batch_id", batch.ID).Str("status", string(batch.Status)).Msg("Skipping batch that is not queued")
		return nil
	}

	if err := w.repo.UpdateStatus(ctx, batch.ID, domain.BatchProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	w.logger.Info().
		Str("batch_id", batch.ID).
		Int("files", len(batch.Files)).
		Int64("offset", msg.Offset).
		Msg("Processing batch started")

	results, err := w.processor.ProcessBatch(ctx, batch.Files, batch.Config, func(p domain.ProcessingProgress) {
		if err := w.repo.UpdateProgress(ctx, batch.ID, p); err != nil {
			w.logger.Warn().Err(err).Str("batch_id", batch.ID).Msg("Failed to update progress")
		}
	})
	if err != nil {
		w.markFailed(ctx, batch.ID, err.Error())
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if err := w.repo.SaveResults(ctx, batch.ID, results); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	summary := domain.Summarize(results)
	w.logger.Info().
		Str("batch_id", batch.ID).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Processing batch completed")

	return nil
}

func (w *Worker) markFailed(ctx context.Context, batchID, reason string) {
	if err := w.repo.MarkFailed(ctx, batchID, reason); err != nil {
		w.logger.Error().Err(err).Str("batch_id", batchID).Msg("Failed to update status to failed")
	}
}
