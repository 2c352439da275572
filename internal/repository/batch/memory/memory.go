package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/repository"
)

// BatchRepository keeps studio sessions in process memory. It is the only
// state shared between the HTTP handlers and the worker.
type BatchRepository struct {
	mu      sync.RWMutex
	batches map[string]*domain.Batch
}

func NewBatchRepository() *BatchRepository {
	return &BatchRepository{
		batches: make(map[string]*domain.Batch),
	}
}

func (r *BatchRepository) Save(ctx context.Context, batch *domain.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[batch.ID]; ok {
		return fmt.Errorf("%w: batch %s already exists", repository.ErrStorageError, batch.ID)
	}

	stored := *batch
	r.batches[batch.ID] = &stored
	return nil
}

// GetByID returns a snapshot; later updates do not show through it.
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.batches[id]
	if !ok {
		return nil, repository.ErrBatchNotFound
	}

	snapshot := *b
	return &snapshot, nil
}

func (r *BatchRepository) UpdateStatus(ctx context.Context, id string, status domain.BatchStatus) error {
	return r.update(id, func(b *domain.Batch) {
		b.Status = status
	})
}

func (r *BatchRepository) UpdateProgress(ctx context.Context, id string, progress domain.ProcessingProgress) error {
	return r.update(id, func(b *domain.Batch) {
		b.Progress = progress
	})
}

// SaveResults completes the batch and releases the uploaded input bytes;
// each result still references its original file.
func (r *BatchRepository) SaveResults(ctx context.Context, id string, results []domain.ProcessingResult) error {
	return r.update(id, func(b *domain.Batch) {
		b.Results = results
		b.Files = nil
		b.Status = domain.BatchCompleted
	})
}

func (r *BatchRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.update(id, func(b *domain.Batch) {
		b.Status = domain.BatchFailed
		b.Error = reason
		b.Files = nil
	})
}

func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.batches[id]; !ok {
		return repository.ErrBatchNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *BatchRepository) update(id string, fn func(b *domain.Batch)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[id]
	if !ok {
		return repository.ErrBatchNotFound
	}

	fn(b)
	b.UpdatedAt = time.Now()
	return nil
}
