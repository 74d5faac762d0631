package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNoRolling  = errors.New("no rolling table for stat")
	ErrNoIDs      = errors.New("ids query parameter is required")
)
