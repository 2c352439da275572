package batch

import "errors"

var (
	ErrNotAnImage   = errors.New("file is not an image")
	ErrFileTooLarge = errors.New("file too large")
)
