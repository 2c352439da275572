package domain

type ResizeMode string

const (
	ResizeMaintainAspect ResizeMode = "maintain_aspect"
	ResizeStretch        ResizeMode = "stretch"
	ResizePad            ResizeMode = "pad"
)

type CropMode string

const (
	CropCenter      CropMode = "center"
	CropAspectRatio CropMode = "aspect_ratio"
)

type WatermarkType string

const (
	WatermarkText      WatermarkType = "text"
	WatermarkRepeating WatermarkType = "repeating"
)

type Position string

const (
	PositionCenter      Position = "center"
	PositionTopLeft     Position = "top_left"
	PositionTopRight    Position = "top_right"
	PositionBottomLeft  Position = "bottom_left"
	PositionBottomRight Position = "bottom_right"
)

type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
	FormatWebP ImageFormat = "webp"
)

// MimeType returns the MIME type an encoded image of this format carries.
func (f ImageFormat) MimeType() string {
	return "image/" + string(f)
}

// ProcessingConfig is the whole contract between a caller and the pipeline.
// Every sub-config is independent; a disabled one turns its stage into a
// pass-through.
type ProcessingConfig struct {
	Resize      ResizeConfig      `json:"resize" yaml:"resize"`
	Compression CompressionConfig `json:"compression" yaml:"compression"`
	Watermark   WatermarkConfig   `json:"watermark" yaml:"watermark"`
	Crop        CropConfig        `json:"crop" yaml:"crop"`
	Conversion  ConversionConfig  `json:"conversion" yaml:"conversion"`
}

type ResizeConfig struct {
	Enabled  bool       `json:"enabled" yaml:"enabled"`
	Width    int        `json:"width" yaml:"width" validate:"gt=0"`
	Height   int        `json:"height" yaml:"height" validate:"gt=0"`
	Mode     ResizeMode `json:"mode" yaml:"mode" validate:"oneof=maintain_aspect stretch pad"`
	PadColor string     `json:"pad_color" yaml:"pad_color"`
}

// CompressionConfig drives the terminal JPEG encode. TargetSizeKB and Quality
// are both optional; zero means unset.
type CompressionConfig struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	TargetSizeKB float64 `json:"target_size_kb,omitempty" yaml:"target_size_kb,omitempty" validate:"gte=0"`
	Quality      int     `json:"quality,omitempty" yaml:"quality,omitempty" validate:"omitempty,gte=1,lte=100"`
}

type WatermarkConfig struct {
	Enabled      bool          `json:"enabled" yaml:"enabled"`
	Type         WatermarkType `json:"type" yaml:"type" validate:"oneof=text repeating"`
	Text         string        `json:"text" yaml:"text"`
	Position     Position      `json:"position" yaml:"position"`
	Transparency int           `json:"transparency" yaml:"transparency" validate:"gte=0,lte=100"`
	SizePercent  int           `json:"size_percent" yaml:"size_percent" validate:"gte=1,lte=20"`
}

// CropConfig carries either Width/Height (center mode) or AspectRatio
// formatted as "W:H" (aspect_ratio mode).
type CropConfig struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Mode        CropMode `json:"mode" yaml:"mode" validate:"oneof=center aspect_ratio"`
	AspectRatio string   `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`
	Width       int      `json:"width,omitempty" yaml:"width,omitempty" validate:"gte=0"`
	Height      int      `json:"height,omitempty" yaml:"height,omitempty" validate:"gte=0"`
}

type ConversionConfig struct {
	Enabled bool        `json:"enabled" yaml:"enabled"`
	Format  ImageFormat `json:"format" yaml:"format" validate:"oneof=jpeg png webp"`
	Quality int         `json:"quality" yaml:"quality" validate:"gte=1,lte=100"`
}

// DefaultConfig mirrors the starting state of the configuration form: only
// conversion to JPEG at quality 90 is enabled.
func DefaultConfig() ProcessingConfig {
	return ProcessingConfig{
		Resize: ResizeConfig{
			Width:    1920,
			Height:   1080,
			Mode:     ResizeMaintainAspect,
			PadColor: DefaultPadColor,
		},
		Compression: CompressionConfig{
			Quality: DefaultCompressionQuality,
		},
		Watermark: WatermarkConfig{
			Type:         WatermarkText,
			Text:         DefaultWatermarkText,
			Position:     PositionBottomRight,
			Transparency: 50,
			SizePercent:  5,
		},
		Crop: CropConfig{
			Mode: CropCenter,
		},
		Conversion: ConversionConfig{
			Enabled: true,
			Format:  FormatJPEG,
			Quality: 90,
		},
	}
}
