package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/compression"
	"image-pipeline/internal/usecase/processor/operations"
	"image-pipeline/internal/usecase/processor/surface"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// ImageProcessor runs the fixed stage order for one file at a time:
// decode, resize, crop, watermark, then compress or convert.
type ImageProcessor struct {
	resizer     *operations.Resizer
	cropper     *operations.Cropper
	watermarker *operations.Watermarker
	compressor  *operations.Compressor
	converter   *operations.Converter
	validator   *ConfigValidator
	logger      *zlog.Zerolog
}

func NewImageProcessor(resampler surface.Resampler, logger *zlog.Zerolog) *ImageProcessor {
	encoder := surface.NewEncoder()

	return &ImageProcessor{
		resizer:     operations.NewResizer(resampler),
		cropper:     operations.NewCropper(),
		watermarker: operations.NewWatermarker(),
		compressor:  operations.NewCompressor(encoder, compression.NewQualitySearch(encoder, resampler), logger),
		converter:   operations.NewConverter(encoder),
		validator:   NewConfigValidator(),
		logger:      logger,
	}
}

func (p *ImageProcessor) Validate(cfg domain.ProcessingConfig) error {
	return p.validator.Validate(cfg)
}

// ProcessOne runs the whole pipeline for a single file. The config is assumed
// to be validated already.
func (p *ImageProcessor) ProcessOne(ctx context.Context, file domain.InputFile, cfg domain.ProcessingConfig) (*domain.ProcessOutput, error) {
	img, format, err := surface.Decode(file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	p.logger.Debug().
		Str("filename", file.Name).
		Str("source_format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Image decoded")

	img, err = p.resizer.Process(ctx, img, cfg.Resize)
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}

	img, err = p.cropper.Process(ctx, img, cfg.Crop)
	if err != nil {
		return nil, fmt.Errorf("failed to crop image: %w", err)
	}

	img, err = p.watermarker.Process(ctx, img, cfg.Watermark)
	if err != nil {
		return nil, fmt.Errorf("failed to watermark image: %w", err)
	}

	var encoded *operations.Encoded
	if cfg.Compression.Enabled {
		encoded, err = p.compressor.Process(ctx, img, cfg.Compression)
	} else {
		encoded, err = p.converter.Process(ctx, img, cfg.Conversion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	width, height := outputSize(encoded.Data, img)

	return &domain.ProcessOutput{
		Data:           encoded.Data,
		MimeType:       encoded.MimeType(),
		Width:          width,
		Height:         height,
		OriginalSizeKB: file.SizeKB(),
		FinalSizeKB:    domain.BytesToKB(int64(len(encoded.Data))),
	}, nil
}

// ProcessBatch validates cfg once and then processes files strictly in
// order. A failing file becomes a failed result and never stops the batch;
// the only error returned is a configuration error, before any file runs.
func (p *ImageProcessor) ProcessBatch(ctx context.Context, files []domain.InputFile, cfg domain.ProcessingConfig, onProgress ProgressFunc) ([]domain.ProcessingResult, error) {
	if err := p.Validate(cfg); err != nil {
		p.logger.Warn().Err(err).Int("files", len(files)).Msg("Batch rejected")
		return nil, err
	}

	total := len(files)
	results := make([]domain.ProcessingResult, 0, total)

	p.logger.Info().Int("files", total).Msg("Starting batch processing")

	for i, file := range files {
		current := i + 1
		if onProgress != nil {
			onProgress(domain.ProcessingProgress{
				Current:         current,
				Total:           total,
				CurrentFileName: file.Name,
				Percentage:      int(math.Round(float64(current) / float64(total) * 100)),
			})
		}

		result := domain.ProcessingResult{
			ID:             uuid.New().String(),
			Original:       file,
			OriginalSizeKB: file.SizeKB(),
		}

		out, err := p.safeProcessOne(ctx, file, cfg)
		if err != nil {
			result.Error = err.Error()
			p.logger.Error().
				Err(err).
				Str("filename", file.Name).
				Int("current", current).
				Int("total", total).
				Msg("File processing failed")
		} else {
			result.Success = true
			result.Data = out.Data
			result.MimeType = out.MimeType
			result.Filename = domain.OutputFilename(file.Name, out.MimeType)
			result.FinalSizeKB = out.FinalSizeKB
			p.logger.Debug().
				Str("filename", file.Name).
				Str("mime_type", out.MimeType).
				Float64("original_kb", out.OriginalSizeKB).
				Float64("final_kb", out.FinalSizeKB).
				Msg("File processed")
		}

		results = append(results, result)
	}

	summary := domain.Summarize(results)
	p.logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Float64("saved_kb", summary.SavedKB).
		Msg("Batch processing completed")

	return results, nil
}

func (p *ImageProcessor) safeProcessOne(ctx context.Context, file domain.InputFile, cfg domain.ProcessingConfig) (out *domain.ProcessOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Interface("panic", r).
				Str("filename", file.Name).
				Msg("Panic recovered while processing file")
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return p.ProcessOne(ctx, file, cfg)
}

// outputSize reads the dimensions back from the encoded bytes, since the
// size search may have downscaled the surface.
func outputSize(data []byte, fallback image.Image) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return surface.Size(fallback)
	}
	return cfg.Width, cfg.Height
}
