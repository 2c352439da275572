// Package surface holds the pixel-level primitives every pipeline stage is
// built from: decode, resample, draw and encode. A surface is an *image.RGBA
// whose bounds start at the origin.
package surface

import (
	"image"
	"image/color"
	"image/draw"
)

// NewCanvas returns a width x height surface filled with fill. A nil fill
// leaves the canvas transparent.
func NewCanvas(width, height int, fill color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if fill != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	}
	return dst
}

// FromImage converts any decoded image into a surface anchored at (0, 0).
func FromImage(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func Clone(src *image.RGBA) *image.RGBA {
	return FromImage(src)
}

// Crop copies rect out of src into a new surface. rect is intersected with
// the source bounds first, so pixels outside the source are never read.
func Crop(src *image.RGBA, rect image.Rectangle) *image.RGBA {
	rect = rect.Intersect(src.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

// DrawAt composites src over dst with its top-left corner at pt.
func DrawAt(dst *image.RGBA, src image.Image, pt image.Point) {
	sb := src.Bounds()
	r := image.Rectangle{Min: pt, Max: pt.Add(sb.Size())}
	draw.Draw(dst, r, src, sb.Min, draw.Over)
}

func Size(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
