package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"image-pipeline/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestParseColor(t *testing.T) {
	tests := map[string]color.RGBA{
		"":          {255, 255, 255, 255},
		"#ffffff":   {255, 255, 255, 255},
		"#000":      {0, 0, 0, 255},
		"#ff8000":   {255, 128, 0, 255},
		"#FF000080": {128, 0, 0, 128},
		"10, 20,30": {10, 20, 30, 255},
		"0,0,300":   {0, 0, 255, 255},
	}
	for in, want := range tests {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"#12", "#zzzzzz", "red", "1,2", "a,b,c"} {
		_, err := ParseColor(in)
		assert.ErrorIs(t, err, ErrInvalidColor, in)
	}
}

func TestCrop_NeverReadsOutsideSource(t *testing.T) {
	src := NewCanvas(10, 10, color.RGBA{1, 2, 3, 255})

	out := Crop(src, image.Rect(-5, -5, 5, 5))
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, out.RGBAAt(0, 0))
}

func TestClone_IsIndependent(t *testing.T) {
	src := NewCanvas(4, 4, color.RGBA{9, 9, 9, 255})
	dup := Clone(src)
	dup.SetRGBA(0, 0, color.RGBA{})

	assert.Equal(t, color.RGBA{9, 9, 9, 255}, src.RGBAAt(0, 0))
}

func TestResamplers_FilterInsteadOfPickingPixels(t *testing.T) {
	src := checkerboard(64, 64)

	for _, name := range []string{ResamplerCatmullRom, ResamplerLanczos, ResamplerLanczos3} {
		t.Run(name, func(t *testing.T) {
			r, err := NewResampler(name)
			require.NoError(t, err)
			assert.Equal(t, name, r.Name())

			out := r.Resample(src, 8, 8)
			require.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())

			// A filtered checkerboard averages to mid grey; nearest-neighbour
			// would keep pure black or white.
			c := out.RGBAAt(4, 4)
			assert.InDelta(t, 128, int(c.R), 40)
		})
	}
}

func TestNewResampler_Unknown(t *testing.T) {
	_, err := NewResampler("nearest")
	assert.ErrorIs(t, err, ErrUnknownResampler)

	r, err := NewResampler("")
	require.NoError(t, err)
	assert.Equal(t, ResamplerCatmullRom, r.Name())
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checkerboard(6, 4)))

	img, format, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	_, _, err = Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, _, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncoder_Formats(t *testing.T) {
	enc := NewEncoder()
	src := checkerboard(16, 12)

	for _, f := range []domain.ImageFormat{domain.FormatJPEG, domain.FormatPNG, domain.FormatWebP} {
		t.Run(string(f), func(t *testing.T) {
			data, err := enc.Encode(src, f, 0.9)
			require.NoError(t, err)

			cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, string(f), name)
			assert.Equal(t, 16, cfg.Width)
			assert.Equal(t, 12, cfg.Height)
		})
	}

	_, err := enc.Encode(src, "gif", 0.9)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestJPEGQuality(t *testing.T) {
	assert.Equal(t, 95, JPEGQuality(0.95))
	assert.Equal(t, 100, JPEGQuality(1))
	assert.Equal(t, 1, JPEGQuality(0))
	assert.Equal(t, 100, JPEGQuality(3))
}
