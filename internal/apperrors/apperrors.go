package apperrors

import "errors"

// Business-rule and lookup failures surfaced to HTTP handlers. Services wrap
// these with fmt.Errorf("...: %w", ...) so handlers can match with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrPermission  = errors.New("permission denied")
)
