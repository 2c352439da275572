package minio

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"image-pipeline/internal/config"
	"image-pipeline/internal/repository"
	"image-pipeline/internal/repository/artifact"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// ExportRepository uploads batch artifacts to an S3-compatible bucket. It
// is only used when the user asks for an export.
type ExportRepository struct {
	client  *minio.Client
	cfg     config.Export
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewExportRepository(cfg config.Export, retries retry.Strategy, logger *zlog.Zerolog) (*ExportRepository, error) {
	if !cfg.Enabled() {
		return nil, repository.ErrExportDisabled
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	retries.Attempts = max(retries.Attempts, 1)

	return &ExportRepository{
		client:  client,
		cfg:     cfg,
		retries: retries,
		logger:  logger,
	}, nil
}

// Export uploads every entry under <prefix>/<batchID>/ and returns the
// object keys.
func (r *ExportRepository) Export(ctx context.Context, batchID string, entries []artifact.Entry) ([]string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		key := ObjectKey(r.cfg.Prefix, batchID, e.Name)

		err := retry.Do(func() error {
			_, err := r.client.PutObject(ctx, r.cfg.Bucket, key, bytes.NewReader(e.Data), int64(len(e.Data)), minio.PutObjectOptions{
				ContentType: e.MimeType,
			})
			return err
		}, r.retries)
		if err != nil {
			r.logger.Error().Err(err).Str("bucket", r.cfg.Bucket).Str("key", key).Msg("Failed to upload artifact")
			return keys, fmt.Errorf("%w: failed to upload %s: %v", repository.ErrStorageError, key, err)
		}

		keys = append(keys, key)
	}

	r.logger.Info().
		Str("batch_id", batchID).
		Str("bucket", r.cfg.Bucket).
		Int("objects", len(keys)).
		Msg("Batch exported")

	return keys, nil
}

func (r *ExportRepository) ensureBucket(ctx context.Context) error {
	var exists bool
	err := retry.Do(func() error {
		var err error
		exists, err = r.client.BucketExists(ctx, r.cfg.Bucket)
		return err
	}, r.retries)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket: %v", repository.ErrStorageError, err)
	}

	if exists {
		return nil
	}

	if err := r.client.MakeBucket(ctx, r.cfg.Bucket, minio.MakeBucketOptions{Region: r.cfg.Region}); err != nil {
		return fmt.Errorf("%w: failed to create bucket: %v", repository.ErrStorageError, err)
	}
	return nil
}

func ObjectKey(prefix, batchID, name string) string {
	return path.Join(prefix, batchID, path.Base(name))
}
