package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("game not found")
	ErrInvalidLimit  = errors.New("invalid list limit")
	ErrInvalidReport = errors.New("report has no game id")
	ErrClosed        = errors.New("store closed")
)
