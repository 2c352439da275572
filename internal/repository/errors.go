package repository

import "errors"

var (
	ErrBatchNotFound   = errors.New("batch not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrPresetNotFound  = errors.New("preset not found")
	ErrDuplicatePreset = errors.New("duplicate preset")
	ErrStorageError    = errors.New("storage error")
	ErrExportDisabled  = errors.New("export is not configured")
)
