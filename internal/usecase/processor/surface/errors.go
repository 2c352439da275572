package surface

import "errors"

var (
	ErrEmptyInput        = errors.New("empty image data")
	ErrDecode            = errors.New("failed to decode image")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidColor      = errors.New("invalid color")
	ErrUnknownResampler  = errors.New("unknown resampler")
)
