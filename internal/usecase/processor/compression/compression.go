// Package compression searches for a JPEG encoding that fits a byte budget.
package compression

import (
	"context"
	"image"
	"math"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/surface"
)

// Budget describes what the caller wants from a size-targeted encode.
type Budget struct {
	// MaxBytes is the size the output should not exceed.
	MaxBytes int64
	// MaxDimension caps the longer side of the output; 0 means no cap.
	MaxDimension int
	// InitialQuality in (0, 1]; 0 starts from full quality.
	InitialQuality float64
}

type encoder interface {
	Encode(img image.Image, format domain.ImageFormat, quality float64) ([]byte, error)
}

// QualitySearch lowers JPEG quality, then dimensions, until the output fits
// the budget. When nothing fits it returns the smallest attempt instead of an
// error.
type QualitySearch struct {
	encoder    encoder
	resampler  surface.Resampler
	MinQuality int
	ScaleStep  float64
	MaxScales  int
}

func NewQualitySearch(enc encoder, resampler surface.Resampler) *QualitySearch {
	return &QualitySearch{
		encoder:    enc,
		resampler:  resampler,
		MinQuality: 5,
		ScaleStep:  0.85,
		MaxScales:  8,
	}
}

func (q *QualitySearch) EncodeToBudget(ctx context.Context, img *image.RGBA, budget Budget) ([]byte, error) {
	src := q.fitMaxDimension(img, budget.MaxDimension)

	start := 100
	if budget.InitialQuality > 0 {
		start = surface.JPEGQuality(budget.InitialQuality)
	}
	minQ := min(max(q.MinQuality, 1), start)

	best, err := q.searchQuality(src, budget.MaxBytes, minQ, start)
	if err != nil {
		return nil, err
	}
	if fits(best, budget.MaxBytes) {
		return best, nil
	}

	w, h := surface.Size(src)
	scale := 1.0
	for i := 0; i < q.MaxScales; i++ {
		scale *= q.ScaleStep
		sw := max(int(math.Round(float64(w)*scale)), 1)
		sh := max(int(math.Round(float64(h)*scale)), 1)

		data, err := q.encoder.Encode(q.resampler.Resample(src, sw, sh), domain.FormatJPEG, float64(minQ)/100)
		if err != nil {
			return nil, err
		}
		if len(data) < len(best) {
			best = data
		}
		if fits(data, budget.MaxBytes) || (sw == 1 && sh == 1) {
			break
		}
	}

	return best, nil
}

// searchQuality binary-searches the highest quality in [lo, hi] whose output
// fits. If even lo does not fit, the attempt at lo is returned.
func (q *QualitySearch) searchQuality(img image.Image, maxBytes int64, lo, hi int) ([]byte, error) {
	encode := func(quality int) ([]byte, error) {
		return q.encoder.Encode(img, domain.FormatJPEG, float64(quality)/100)
	}

	top, err := encode(hi)
	if err != nil || fits(top, maxBytes) || lo == hi {
		return top, err
	}

	floor, err := encode(lo)
	if err != nil || !fits(floor, maxBytes) {
		return floor, err
	}

	best := floor
	for lo+1 < hi {
		mid := (lo + hi) / 2
		data, err := encode(mid)
		if err != nil {
			return nil, err
		}
		if fits(data, maxBytes) {
			best = data
			lo = mid
		} else {
			hi = mid
		}
	}

	return best, nil
}

func (q *QualitySearch) fitMaxDimension(img *image.RGBA, maxDim int) *image.RGBA {
	w, h := surface.Size(img)
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	scale := float64(maxDim) / float64(max(w, h))
	sw := max(int(math.Round(float64(w)*scale)), 1)
	sh := max(int(math.Round(float64(h)*scale)), 1)
	return q.resampler.Resample(img, sw, sh)
}

func fits(data []byte, maxBytes int64) bool {
	return maxBytes <= 0 || int64(len(data)) <= maxBytes
}
