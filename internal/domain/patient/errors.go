package patient

import "errors"

var (
	// ErrValidation marks bad or missing input (HTTP 400).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown record id (HTTP 404).
	ErrNotFound = errors.New("patient not found")
)
