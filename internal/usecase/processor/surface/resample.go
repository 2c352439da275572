package surface

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Resampler scales a surface to exactly width x height. Implementations must
// use a filtering kernel (no nearest-neighbour) so downscaled photos do not
// alias.
type Resampler interface {
	Name() string
	Resample(src image.Image, width, height int) *image.RGBA
}

const (
	ResamplerCatmullRom = "catmullrom"
	ResamplerLanczos    = "lanczos"
	ResamplerLanczos3   = "lanczos3"
)

// NewResampler picks a backend by name. An empty name selects Catmull-Rom.
func NewResampler(name string) (Resampler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ResamplerCatmullRom:
		return XDrawResampler{Kernel: xdraw.CatmullRom}, nil
	case ResamplerLanczos:
		return ImagingResampler{Filter: imaging.Lanczos}, nil
	case ResamplerLanczos3:
		return NfntResampler{Interp: resize.Lanczos3}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResampler, name)
	}
}

// XDrawResampler scales with an x/image/draw kernel.
type XDrawResampler struct {
	Kernel *xdraw.Kernel
}

func (r XDrawResampler) Name() string { return ResamplerCatmullRom }

func (r XDrawResampler) Resample(src image.Image, width, height int) *image.RGBA {
	kernel := r.Kernel
	if kernel == nil {
		kernel = xdraw.CatmullRom
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	kernel.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ImagingResampler scales with disintegration/imaging filters.
type ImagingResampler struct {
	Filter imaging.ResampleFilter
}

func (r ImagingResampler) Name() string { return ResamplerLanczos }

func (r ImagingResampler) Resample(src image.Image, width, height int) *image.RGBA {
	return FromImage(imaging.Resize(src, width, height, r.Filter))
}

// NfntResampler scales with nfnt/resize interpolation functions.
type NfntResampler struct {
	Interp resize.InterpolationFunction
}

func (r NfntResampler) Name() string { return ResamplerLanczos3 }

func (r NfntResampler) Resample(src image.Image, width, height int) *image.RGBA {
	return FromImage(resize.Resize(uint(width), uint(height), src, r.Interp))
}
