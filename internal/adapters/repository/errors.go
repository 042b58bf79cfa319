package repository

import "errors"

// Sentinel kinds for match board errors.
var (
	ErrNotFound     = errors.New("match not found")
	ErrInvalidLimit = errors.New("invalid match limit")
)
