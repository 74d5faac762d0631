package model

import "time"

// GameJob is one game submitted for asynchronous processing.
type GameJob struct {
	ID          string     // job id, unique per submission
	GameID      string     // upstream game id, e.g. 2021030415
	Matchup     Matchup    // teams on each side
	Plays       []RawEvent // ordered plays as delivered by the feed
	SubmittedAt time.Time
}
