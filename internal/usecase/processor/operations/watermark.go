package operations

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"image-pipeline/internal/domain"

	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// repeatingAngle tilts the tiled watermark 45 degrees counter-clockwise.
const repeatingAngle = -math.Pi / 4

type Watermarker struct {
	font *truetype.Font
}

func NewWatermarker() *Watermarker {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return &Watermarker{}
	}
	return &Watermarker{
		font: f,
	}
}

// Process draws the watermark onto img in place and returns it. The global
// alpha (transparency/100) only affects the watermark, never the base
// pixels.
func (w *Watermarker) Process(ctx context.Context, img *image.RGBA, cfg domain.WatermarkConfig) (*image.RGBA, error) {
	if !cfg.Enabled {
		return img, nil
	}

	if cfg.Type != domain.WatermarkText && cfg.Type != domain.WatermarkRepeating {
		return nil, fmt.Errorf("unsupported watermark type: %q", cfg.Type)
	}

	alpha := math.Max(0, math.Min(1, float64(cfg.Transparency)/100))
	fontSize := img.Bounds().Dx() * cfg.SizePercent / 100
	if alpha == 0 || fontSize < 1 || cfg.Text == "" {
		return img, nil
	}

	if w.font == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
		w.font = f
	}

	face := truetype.NewFace(w.font, &truetype.Options{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	if cfg.Type == domain.WatermarkRepeating {
		w.drawRepeating(img, face, cfg.Text, fontSize, alpha)
	} else {
		w.drawText(img, face, cfg.Text, cfg.Position, fontSize, alpha)
	}

	return img, nil
}

// drawText strokes the text in black and then fills it in white at the same
// anchor.
func (w *Watermarker) drawText(img *image.RGBA, face font.Face, text string, position domain.Position, fontSize int, alpha float64) {
	bounds := img.Bounds()
	textWidth := font.MeasureString(face, text).Round()
	pt := textAnchor(position, bounds.Dx(), bounds.Dy(), textWidth, fontSize)

	stroke := image.NewAlpha(bounds)
	reach := domain.WatermarkStrokeWidth / 2
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			drawString(stroke, face, text, pt.Add(image.Pt(dx, dy)))
		}
	}

	fill := image.NewAlpha(bounds)
	drawString(fill, face, text, pt)

	composite(img, stroke, color.NRGBA{0, 0, 0, 255}, alpha)
	composite(img, fill, color.NRGBA{255, 255, 255, 255}, alpha)
}

// drawRepeating tiles the text over a region twice the image size in every
// direction, rotates that layer around the image center and blends it at a
// constant low opacity.
func (w *Watermarker) drawRepeating(img *image.RGBA, face font.Face, text string, fontSize int, alpha float64) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	textWidth := font.MeasureString(face, text).Round()
	spacing := fontSize * 3

	// Layer coordinates are the rotated frame shifted by (ox, oy) so that
	// the tile origin (-width, -height) still has room for glyph ascent.
	ox, oy := width, height+fontSize
	layer := image.NewAlpha(image.Rect(0, 0, 2*width+textWidth, 2*height+2*fontSize))
	for y := -height; y < height; y += spacing {
		for x := -width; x < width; x += spacing * 2 {
			drawString(layer, face, text, image.Pt(x+ox, y+oy))
		}
	}

	cos, sin := math.Cos(repeatingAngle), math.Sin(repeatingAngle)
	cx, cy := float64(width)/2, float64(height)/2
	s2d := f64.Aff3{
		cos, -sin, cx - cos*float64(ox) + sin*float64(oy),
		sin, cos, cy - sin*float64(ox) - cos*float64(oy),
	}

	rotated := image.NewAlpha(img.Bounds())
	xdraw.BiLinear.Transform(rotated, s2d, layer, layer.Bounds(), xdraw.Src, nil)

	composite(img, rotated, color.NRGBA{255, 255, 255, 255}, alpha*domain.RepeatingWatermarkOpacity)
}

// textAnchor returns the baseline-left point for the text.
func textAnchor(position domain.Position, width, height, textWidth, fontSize int) image.Point {
	margin := domain.WatermarkMargin

	switch position {
	case domain.PositionTopLeft:
		return image.Pt(margin, fontSize+margin)
	case domain.PositionTopRight:
		return image.Pt(width-textWidth-margin, fontSize+margin)
	case domain.PositionBottomLeft:
		return image.Pt(margin, height-margin)
	case domain.PositionBottomRight:
		return image.Pt(width-textWidth-margin, height-margin)
	default:
		return image.Pt((width-textWidth)/2, height/2)
	}
}

func drawString(dst draw.Image, face font.Face, text string, pt image.Point) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(text)
}

// composite blends c through mask onto dst with the given global alpha.
func composite(dst *image.RGBA, mask image.Image, c color.NRGBA, alpha float64) {
	c.A = uint8(math.Round(float64(c.A) * alpha))
	if c.A == 0 {
		return
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, mask, mask.Bounds().Min, draw.Over)
}
