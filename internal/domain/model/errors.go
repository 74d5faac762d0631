package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for game processing. These allow errors.Is from callers.
var (
	ErrMalformedEvent     = errors.New("malformed event")
	ErrUnresolvedOpponent = errors.New("unresolved opponent")
	ErrUnsupportedPeriod  = errors.New("unsupported period")
	ErrNoEvents           = errors.New("no events")
)

// EventError ties an error kind to the play that caused it.
type EventError struct {
	Op    string
	Index int
	Kind  error
	Err   error
}

// NewEventError builds an EventError for the play at index.
func NewEventError(op string, index int, kind, err error) *EventError {
	return &EventError{Op: op, Index: index, Kind: kind, Err: err}
}

func (e *EventError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: event %d: %v", e.Op, e.Index, e.Kind)
	}
	return fmt.Sprintf("%s: event %d: %v: %v", e.Op, e.Index, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *EventError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
