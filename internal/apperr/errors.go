package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrToolUnavailable = errors.New("tool unavailable")
)
