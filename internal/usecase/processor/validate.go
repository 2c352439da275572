package processor

import (
	"fmt"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/geometry"

	"github.com/go-playground/validator/v10"
)

// ConfigValidator checks a ProcessingConfig once per batch. Only enabled
// sub-configs are validated; a disabled stage may carry any leftover values.
type ConfigValidator struct {
	validate *validator.Validate
}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

func (v *ConfigValidator) Validate(cfg domain.ProcessingConfig) error {
	if cfg.Resize.Enabled {
		if err := v.validate.Struct(cfg.Resize); err != nil {
			return fmt.Errorf("%w: resize: %w", domain.ErrInvalidConfig, err)
		}
	}

	if cfg.Crop.Enabled {
		if err := v.validate.Struct(cfg.Crop); err != nil {
			return fmt.Errorf("%w: crop: %w", domain.ErrInvalidConfig, err)
		}
		if cfg.Crop.Mode == domain.CropAspectRatio && cfg.Crop.AspectRatio != "" {
			if _, err := geometry.ParseAspectRatio(cfg.Crop.AspectRatio); err != nil {
				return fmt.Errorf("%w: crop: %w", domain.ErrInvalidConfig, err)
			}
		}
	}

	if cfg.Watermark.Enabled {
		if err := v.validate.Struct(cfg.Watermark); err != nil {
			return fmt.Errorf("%w: watermark: %w", domain.ErrInvalidConfig, err)
		}
	}

	if cfg.Compression.Enabled {
		if err := v.validate.Struct(cfg.Compression); err != nil {
			return fmt.Errorf("%w: compression: %w", domain.ErrInvalidConfig, err)
		}
	} else if cfg.Conversion.Enabled {
		if err := v.validate.Struct(cfg.Conversion); err != nil {
			return fmt.Errorf("%w: conversion: %w", domain.ErrInvalidConfig, err)
		}
	}

	return nil
}
