package domain

import "strings"

type Preset struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description" yaml:"description"`
	Config      ProcessingConfig `json:"config" yaml:"config"`
}

// Slug is the lower-case, dash separated form of the preset name, so that
// "Profile Picture" can be requested as "profile-picture".
func (p Preset) Slug() string {
	return strings.Join(strings.Fields(strings.ToLower(p.Name)), "-")
}

// disabledWatermark is what every built-in preset ships with.
func disabledWatermark() WatermarkConfig {
	return WatermarkConfig{
		Type:         WatermarkText,
		Position:     PositionCenter,
		Transparency: 50,
		SizePercent:  10,
	}
}

// BuiltinPresets returns fresh copies of the presets bundled with the tool.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			Name:        "Instagram Post",
			Description: "1080x1080, optimized for Instagram feed",
			Config: ProcessingConfig{
				Resize:      ResizeConfig{Enabled: true, Width: 1080, Height: 1080, Mode: ResizePad, PadColor: DefaultPadColor},
				Compression: CompressionConfig{Enabled: true, TargetSizeKB: 500},
				Watermark:   disabledWatermark(),
				Crop:        CropConfig{Mode: CropCenter},
				Conversion:  ConversionConfig{Enabled: true, Format: FormatJPEG, Quality: 90},
			},
		},
		{
			Name:        "Website Banner",
			Description: "1920x1080, WEBP format for fast loading",
			Config: ProcessingConfig{
				Resize:     ResizeConfig{Enabled: true, Width: 1920, Height: 1080, Mode: ResizeMaintainAspect, PadColor: DefaultPadColor},
				Watermark:  disabledWatermark(),
				Crop:       CropConfig{Mode: CropCenter},
				Conversion: ConversionConfig{Enabled: true, Format: FormatWebP, Quality: 85},
			},
		},
		{
			Name:        "Profile Picture",
			Description: "512x512, square crop for avatars",
			Config: ProcessingConfig{
				Resize:      ResizeConfig{Enabled: true, Width: 512, Height: 512, Mode: ResizePad, PadColor: DefaultPadColor},
				Compression: CompressionConfig{Enabled: true, Quality: 90},
				Watermark:   disabledWatermark(),
				Crop:        CropConfig{Enabled: true, Mode: CropCenter, Width: 512, Height: 512},
				Conversion:  ConversionConfig{Enabled: true, Format: FormatJPEG, Quality: 90},
			},
		},
		{
			Name:        "E-commerce Product",
			Description: "1000x1000, white background",
			Config: ProcessingConfig{
				Resize:      ResizeConfig{Enabled: true, Width: 1000, Height: 1000, Mode: ResizePad, PadColor: DefaultPadColor},
				Compression: CompressionConfig{Enabled: true, Quality: 95},
				Watermark:   disabledWatermark(),
				Crop:        CropConfig{Mode: CropCenter},
				Conversion:  ConversionConfig{Enabled: true, Format: FormatJPEG, Quality: 95},
			},
		},
	}
}
