package domain

import "errors"

// ErrInvalidConfig wraps every rejected ProcessingConfig. It is returned
// before any file of a batch is touched.
var ErrInvalidConfig = errors.New("invalid processing config")
