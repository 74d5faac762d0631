// Package timeline normalizes raw plays and aligns them with the 5-second grid.
package timeline

import (
	"fmt"

	"github.com/okian/rinkstats/internal/domain/model"
)

// DefaultMaxPeriod is the deepest period accepted: regulation plus nine overtimes.
const DefaultMaxPeriod = 12

// Option applies a configuration option to normalization.
type Option func(*options)

type options struct {
	maxPeriod int
}

// WithMaxPeriod caps the accepted period number.
func WithMaxPeriod(p int) Option {
	return func(o *options) {
		if p >= 3 {
			o.maxPeriod = p
		}
	}
}

// Normalize turns raw plays into events with elapsed game time. It fails on
// the first play it cannot place on the timeline.
func Normalize(raw []model.RawEvent, opts ...Option) ([]model.Event, error) {
	const op = "timeline.normalize"
	o := options{maxPeriod: DefaultMaxPeriod}
	for _, opt := range opts {
		opt(&o)
	}

	events := make([]model.Event, 0, len(raw))
	for i, r := range raw {
		t := model.EventType(r.EventType)
		if !t.Known() {
			return nil, model.NewEventError(op, i, model.ErrMalformedEvent, fmt.Errorf("unsupported event_type %q", r.EventType))
		}
		if r.Period < 1 {
			return nil, model.NewEventError(op, i, model.ErrMalformedEvent, fmt.Errorf("period %d", r.Period))
		}
		if r.Period > o.maxPeriod {
			return nil, model.NewEventError(op, i, model.ErrUnsupportedPeriod, fmt.Errorf("period %d exceeds %d", r.Period, o.maxPeriod))
		}
		pt, err := model.ParsePeriodTime(r.PeriodTime)
		if err != nil {
			return nil, model.NewEventError(op, i, model.ErrMalformedEvent, err)
		}
		events = append(events, normalizeOne(i, t, pt, r))
	}
	return events, nil
}

func normalizeOne(i int, t model.EventType, pt model.Clock, r model.RawEvent) model.Event {
	e := model.Event{
		Index:         i,
		Type:          t,
		SecondaryType: r.SecondaryType,
		Team:          r.TeamFor,
		Period:        r.Period,
		PeriodTime:    pt,
		Time:          model.Elapsed(r.Period, pt),
		Players:       [4]string{r.Player1, r.Player2, r.Player3, ""},
	}
	if r.Player4 != nil {
		e.Players[3] = *r.Player4
	}
	if r.X != nil {
		e.X = *r.X
		e.HasCoords = true
	}
	if r.Y != nil {
		e.Y = *r.Y
		e.HasCoords = true
	}
	return e
}
