package counters

import "errors"

// Sentinel kinds for counter errors.
var (
	ErrUnknownStat = errors.New("unknown stat")
)
