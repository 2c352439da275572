package processor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"image-pipeline/internal/domain"
	"image-pipeline/internal/usecase/processor/geometry"
	"image-pipeline/internal/usecase/processor/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func newProcessor(t *testing.T) *ImageProcessor {
	t.Helper()
	resampler, err := surface.NewResampler(surface.ResamplerCatmullRom)
	require.NoError(t, err)
	return NewImageProcessor(resampler, &zlog.Logger)
}

func pngFile(t *testing.T, name string, w, h int, c color.Color) domain.InputFile {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, surface.NewCanvas(w, h, c)))
	return domain.InputFile{
		Name:        name,
		ContentType: "image/png",
		Size:        int64(buf.Len()),
		Data:        buf.Bytes(),
	}
}

func disabledConfig() domain.ProcessingConfig {
	cfg := domain.DefaultConfig()
	cfg.Conversion.Enabled = false
	return cfg
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -12 && d <= 12
}

func TestProcessOne_PadToSquare(t *testing.T) {
	p := newProcessor(t)
	file := pngFile(t, "wide.png", 2000, 1000, color.RGBA{200, 30, 30, 255})

	cfg := disabledConfig()
	cfg.Resize = domain.ResizeConfig{Enabled: true, Width: 1000, Height: 1000, Mode: domain.ResizePad, PadColor: "#ffffff"}
	cfg.Conversion = domain.ConversionConfig{Enabled: true, Format: domain.FormatJPEG, Quality: 90}
	require.NoError(t, p.Validate(cfg))

	out, err := p.ProcessOne(context.Background(), file, cfg)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", out.MimeType)
	assert.Equal(t, 1000, out.Width)
	assert.Equal(t, 1000, out.Height)
	assert.InDelta(t, file.SizeKB(), out.OriginalSizeKB, 1e-9)
	assert.InDelta(t, float64(len(out.Data))/1024, out.FinalSizeKB, 1e-9)

	img, err := jpeg.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 1000, 1000), img.Bounds())

	for _, pt := range []image.Point{{500, 10}, {10, 200}, {990, 990}, {500, 800}} {
		r, g, b, _ := img.At(pt.X, pt.Y).RGBA()
		assert.True(t, near(uint8(r>>8), 255) && near(uint8(g>>8), 255) && near(uint8(b>>8), 255), "pad at %v", pt)
	}
	for _, pt := range []image.Point{{500, 500}, {5, 300}, {995, 700}} {
		r, g, b, _ := img.At(pt.X, pt.Y).RGBA()
		assert.True(t, near(uint8(r>>8), 200) && near(uint8(g>>8), 30) && near(uint8(b>>8), 30), "content at %v", pt)
	}
}

func TestProcessOne_ProfilePicturePreset(t *testing.T) {
	p := newProcessor(t)

	var profile domain.Preset
	for _, preset := range domain.BuiltinPresets() {
		if preset.Slug() == "profile-picture" {
			profile = preset
		}
	}
	require.NotEmpty(t, profile.Name)
	require.NoError(t, p.Validate(profile.Config))

	for _, size := range [][2]int{{640, 480}, {300, 900}, {100, 100}} {
		file := pngFile(t, "avatar.png", size[0], size[1], color.RGBA{10, 120, 200, 255})

		out, err := p.ProcessOne(context.Background(), file, profile.Config)
		require.NoError(t, err)

		cfg, format, err := image.DecodeConfig(bytes.NewReader(out.Data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 512, cfg.Width)
		assert.Equal(t, 512, cfg.Height)
	}
}

func TestProcessOne_DisabledStagesKeepDimensions(t *testing.T) {
	p := newProcessor(t)
	file := pngFile(t, "plain.png", 37, 23, color.RGBA{1, 2, 3, 255})

	out, err := p.ProcessOne(context.Background(), file, disabledConfig())
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", out.MimeType)
	assert.Equal(t, 37, out.Width)
	assert.Equal(t, 23, out.Height)
}

func TestProcessOne_ConversionToPNG(t *testing.T) {
	p := newProcessor(t)
	file := pngFile(t, "a.png", 16, 16, color.RGBA{0, 255, 0, 255})

	cfg := disabledConfig()
	cfg.Conversion = domain.ConversionConfig{Enabled: true, Format: domain.FormatPNG, Quality: 50}

	out, err := p.ProcessOne(context.Background(), file, cfg)
	require.NoError(t, err)

	assert.Equal(t, "image/png", out.MimeType)
	img, err := png.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, color.RGBAModel.Convert(img.At(8, 8)))
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	p := newProcessor(t)
	files := []domain.InputFile{
		pngFile(t, "one.png", 20, 20, color.White),
		{Name: "broken.png", ContentType: "image/png", Size: 12, Data: []byte("not an image")},
		pngFile(t, "three.png", 20, 20, color.Black),
	}

	var progress []domain.ProcessingProgress
	results, err := p.ProcessBatch(context.Background(), files, domain.DefaultConfig(), func(pr domain.ProcessingProgress) {
		progress = append(progress, pr)
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.True(t, results[2].Success)

	failed := results[1]
	assert.False(t, failed.Success)
	assert.NotEmpty(t, failed.Error)
	assert.Empty(t, failed.Data)
	assert.Zero(t, failed.FinalSizeKB)
	assert.InDelta(t, 12.0/1024, failed.OriginalSizeKB, 1e-9)

	assert.Equal(t, "one.jpeg", results[0].Filename)
	assert.Equal(t, "three.jpeg", results[2].Filename)
	assert.NotEqual(t, results[0].ID, results[2].ID)

	require.Len(t, progress, 3)
	assert.Equal(t, domain.ProcessingProgress{Current: 1, Total: 3, CurrentFileName: "one.png", Percentage: 33}, progress[0])
	assert.Equal(t, domain.ProcessingProgress{Current: 2, Total: 3, CurrentFileName: "broken.png", Percentage: 67}, progress[1])
	assert.Equal(t, domain.ProcessingProgress{Current: 3, Total: 3, CurrentFileName: "three.png", Percentage: 100}, progress[2])

	summary := domain.Summarize(results)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
}

func TestProcessBatch_RejectsInvalidConfigBeforeAnyFile(t *testing.T) {
	p := newProcessor(t)
	files := []domain.InputFile{pngFile(t, "one.png", 4, 4, color.White)}

	tests := []struct {
		name   string
		mutate func(cfg *domain.ProcessingConfig)
		target error
	}{
		{"zero resize width", func(cfg *domain.ProcessingConfig) {
			cfg.Resize = domain.ResizeConfig{Enabled: true, Width: 0, Height: 100, Mode: domain.ResizeStretch}
		}, domain.ErrInvalidConfig},
		{"malformed aspect ratio", func(cfg *domain.ProcessingConfig) {
			cfg.Crop = domain.CropConfig{Enabled: true, Mode: domain.CropAspectRatio, AspectRatio: "16:0"}
		}, geometry.ErrInvalidAspectRatio},
		{"watermark size out of range", func(cfg *domain.ProcessingConfig) {
			cfg.Watermark.Enabled = true
			cfg.Watermark.SizePercent = 40
		}, domain.ErrInvalidConfig},
		{"unknown conversion format", func(cfg *domain.ProcessingConfig) {
			cfg.Conversion.Format = "gif"
		}, domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.DefaultConfig()
			tt.mutate(&cfg)

			called := false
			results, err := p.ProcessBatch(context.Background(), files, cfg, func(domain.ProcessingProgress) { called = true })

			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Nil(t, results)
			assert.False(t, called)
		})
	}
}

func TestValidate_IgnoresDisabledStages(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Resize = domain.ResizeConfig{Width: -1, Mode: "bogus"}
	cfg.Crop = domain.CropConfig{Mode: domain.CropAspectRatio, AspectRatio: "x"}
	cfg.Watermark.SizePercent = 0

	assert.NoError(t, NewConfigValidator().Validate(cfg))
}

func TestProcessBatch_Empty(t *testing.T) {
	results, err := newProcessor(t).ProcessBatch(context.Background(), nil, domain.DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
