package processor

import "image-pipeline/internal/domain"

// ProgressFunc receives a progress record before each file of a batch starts.
type ProgressFunc func(progress domain.ProcessingProgress)
