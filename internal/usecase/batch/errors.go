package batch

import "errors"

var (
	ErrNoFiles           = errors.New("no image files in request")
	ErrInvalidConfig     = errors.New("invalid processing config")
	ErrBatchNotFound     = errors.New("batch not found")
	ErrBatchNotReady     = errors.New("batch is still processing")
	ErrFileNotFound      = errors.New("processed file not found")
	ErrNoResults         = errors.New("batch has no successful files")
	ErrPresetNotFound    = errors.New("preset not found")
	ErrExportDisabled    = errors.New("export is not configured")
	ErrStorageError      = errors.New("storage error")
	ErrMessageQueueError = errors.New("message queue error")
)
