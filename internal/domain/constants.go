package domain

const (
	DefaultPadColor           = "#ffffff"
	DefaultCompressionQuality = 85
	DefaultWatermarkText      = "© Your Name"
)

const (
	// FallbackQuality is used by the terminal encode when neither compression
	// nor conversion is enabled.
	FallbackQuality = 0.95
	FullQuality     = 1.0
)

const (
	WatermarkMargin           = 20
	WatermarkStrokeWidth      = 2
	RepeatingWatermarkOpacity = 0.3
)

const (
	DefaultMaxUploadSize = 64 << 20
	ArchiveFilename      = "processed-images.zip"
)
