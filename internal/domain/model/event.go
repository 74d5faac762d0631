// Package model contains domain models passed between layers.
package model

// EventType classifies one play in the upstream feed.
type EventType string

// Play types that drive counters and the penalty walk.
const (
	EventGoal           EventType = "GOAL"
	EventShot           EventType = "SHOT"
	EventMissedShot     EventType = "MISSED_SHOT"
	EventBlockedShot    EventType = "BLOCKED_SHOT"
	EventHit            EventType = "HIT"
	EventTakeaway       EventType = "TAKEAWAY"
	EventGiveaway       EventType = "GIVEAWAY"
	EventFaceoff        EventType = "FACEOFF"
	EventPenalty        EventType = "PENALTY"
	EventPeriodStart    EventType = "PERIOD_START"
	EventPeriodEnd      EventType = "PERIOD_END"
	EventPeriodOfficial EventType = "PERIOD_OFFICIAL"
)

// Lifecycle types carried by the feed. They are kept on the timeline but
// never touch a counter.
const (
	EventStop                EventType = "STOP"
	EventPeriodReady         EventType = "PERIOD_READY"
	EventGameScheduled       EventType = "GAME_SCHEDULED"
	EventGameEnd             EventType = "GAME_END"
	EventGameOfficial        EventType = "GAME_OFFICIAL"
	EventChallenge           EventType = "CHALLENGE"
	EventShootoutComplete    EventType = "SHOOTOUT_COMPLETE"
	EventEarlyIntStart       EventType = "EARLY_INT_START"
	EventEarlyIntEnd         EventType = "EARLY_INT_END"
	EventEmergencyGoaltender EventType = "EMERGENCY_GOALTENDER"
)

var knownEventTypes = map[EventType]struct{}{
	EventGoal: {}, EventShot: {}, EventMissedShot: {}, EventBlockedShot: {},
	EventHit: {}, EventTakeaway: {}, EventGiveaway: {}, EventFaceoff: {},
	EventPenalty: {}, EventPeriodStart: {}, EventPeriodEnd: {}, EventPeriodOfficial: {},
	EventStop: {}, EventPeriodReady: {}, EventGameScheduled: {}, EventGameEnd: {},
	EventGameOfficial: {}, EventChallenge: {}, EventShootoutComplete: {},
	EventEarlyIntStart: {}, EventEarlyIntEnd: {}, EventEmergencyGoaltender: {},
}

// Known reports whether t is a play type the engine understands.
func (t EventType) Known() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// IsPeriodBoundary reports whether t closes a period.
func (t EventType) IsPeriodBoundary() bool {
	return t == EventPeriodEnd || t == EventPeriodOfficial
}

// RawEvent is one record of the upstream "list plays" payload.
type RawEvent struct {
	EventType     string   `json:"event_type"`
	SecondaryType string   `json:"event_secondary_type,omitempty"`
	TeamFor       string   `json:"team_for,omitempty"`
	Period        int      `json:"period"`
	PeriodTime    string   `json:"period_time"`
	Player1       string   `json:"player_1,omitempty"`
	Player2       string   `json:"player_2,omitempty"`
	Player3       string   `json:"player_3,omitempty"`
	Player4       *string  `json:"player_4,omitempty"`
	X             *float64 `json:"x,omitempty"`
	Y             *float64 `json:"y,omitempty"`
	Datetime      string   `json:"datetime,omitempty"`
}

// Event is a normalized play. Events are never mutated once normalized.
type Event struct {
	Index         int       `json:"index"`
	Type          EventType `json:"event_type"`
	SecondaryType string    `json:"event_secondary_type,omitempty"`
	Team          string    `json:"team_for,omitempty"`
	Period        int       `json:"period"`
	PeriodTime    Clock     `json:"period_time"`
	Time          Clock     `json:"time"`
	Players       [4]string `json:"players"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	HasCoords     bool      `json:"has_coords"`
}

// Player returns the n-th player reference (1-based); "" when absent.
func (e Event) Player(n int) string {
	if n < 1 || n > len(e.Players) {
		return ""
	}
	return e.Players[n-1]
}
