// Package geometry computes target sizes and crop/pad rectangles. Everything
// here is pure arithmetic on integer pixel dimensions.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrInvalidAspectRatio = errors.New("invalid aspect ratio")
)

type Size struct {
	Width  int
	Height int
}

func (s Size) Aspect() float64 {
	return float64(s.Width) / float64(s.Height)
}

// AspectFit scales (srcW, srcH) to fit inside (dstW, dstH) without changing
// its aspect ratio. The axis that is relatively larger matches the target
// exactly; the other one is rounded to the nearest pixel.
func AspectFit(srcW, srcH, dstW, dstH int) (Size, error) {
	if srcW <= 0 || srcH <= 0 {
		return Size{}, fmt.Errorf("%w: source %dx%d", ErrInvalidDimensions, srcW, srcH)
	}
	if dstW <= 0 || dstH <= 0 {
		return Size{}, fmt.Errorf("%w: target %dx%d", ErrInvalidDimensions, dstW, dstH)
	}

	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	var fit Size
	if srcAspect > dstAspect {
		fit.Width = dstW
		fit.Height = roundPx(float64(dstW) / srcAspect)
	} else {
		fit.Height = dstH
		fit.Width = roundPx(float64(dstH) * srcAspect)
	}

	return fit, nil
}

// PadOffset centers a fitted size on a (dstW, dstH) canvas.
func PadOffset(fit Size, dstW, dstH int) image.Point {
	return image.Pt((dstW-fit.Width)/2, (dstH-fit.Height)/2)
}

// ParseAspectRatio parses "W:H" into W/H. Both parts must be positive
// numbers.
func ParseAspectRatio(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q is not in W:H form", ErrInvalidAspectRatio, s)
	}

	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad width in %q", ErrInvalidAspectRatio, s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad height in %q", ErrInvalidAspectRatio, s)
	}

	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("%w: %q must have positive parts", ErrInvalidAspectRatio, s)
	}

	return w / h, nil
}

// AspectCropRect returns the largest centered rectangle of the given ratio
// that fits in a (srcW, srcH) source. A relatively wider source loses width,
// a relatively taller one loses height.
func AspectCropRect(srcW, srcH int, ratio float64) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || !(ratio > 0) {
		return image.Rect(0, 0, max(srcW, 0), max(srcH, 0))
	}

	current := float64(srcW) / float64(srcH)

	var cropW, cropH int
	if current > ratio {
		cropH = srcH
		cropW = roundPx(float64(cropH) * ratio)
	} else {
		cropW = srcW
		cropH = roundPx(float64(cropW) / ratio)
	}

	return centered(srcW, srcH, cropW, cropH)
}

// CenterCropRect returns a (w, h) rectangle centered in the source. A request
// larger than the source is clamped to the source on that axis, so the
// rectangle never leaves the source bounds.
func CenterCropRect(srcW, srcH, w, h int) image.Rectangle {
	return centered(srcW, srcH, w, h)
}

func centered(srcW, srcH, w, h int) image.Rectangle {
	w = clamp(w, 1, srcW)
	h = clamp(h, 1, srcH)

	x := (srcW - w) / 2
	y := (srcH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

func roundPx(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
