package summary

import "errors"

// Sentinel kinds for summary errors.
var (
	ErrInvalidGameID = errors.New("invalid game id")
	ErrNoGames       = errors.New("no games")
	ErrMixedTeams    = errors.New("games do not share the same teams")
)
