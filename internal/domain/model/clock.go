package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Time constants for elapsed game time.
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	PeriodMinutes    = 20
	PeriodSeconds    = PeriodMinutes * SecondsPerMinute
	RegulationEnd    = Clock(3 * PeriodSeconds)
	GridStep         = Clock(5)
	maxRoundedSecond = 55
)

// Clock is elapsed game time in whole seconds. Regulation spans
// 00:00:00-00:59:59; the first overtime starts at 01:00:00.
type Clock int

// NewClock builds a Clock from an (hour, minute, second) triple.
func NewClock(hour, minute, second int) Clock {
	return Clock(hour*SecondsPerHour + minute*SecondsPerMinute + second)
}

// ParsePeriodTime parses a "mm:ss" period clock.
func ParsePeriodTime(s string) (Clock, error) {
	mm, ss, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("period time %q: want mm:ss", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("period time %q: %w", s, err)
	}
	sec, err := strconv.Atoi(ss)
	if err != nil {
		return 0, fmt.Errorf("period time %q: %w", s, err)
	}
	if m < 0 || sec < 0 || sec >= SecondsPerMinute {
		return 0, fmt.Errorf("period time %q: out of range", s)
	}
	return Clock(m*SecondsPerMinute + sec), nil
}

// Elapsed converts a period clock into elapsed game time.
func Elapsed(period int, periodTime Clock) Clock {
	return periodTime + Clock((period-1)*PeriodSeconds)
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / SecondsPerHour }

// Minute returns the minute component in [0,59].
func (c Clock) Minute() int { return int(c) / SecondsPerMinute % 60 }

// Second returns the second component in [0,59].
func (c Clock) Second() int { return int(c) % SecondsPerMinute }

// Seconds returns the clock as a plain number of seconds.
func (c Clock) Seconds() int { return int(c) }

// Round5 rounds the seconds component to the nearest 5-second mark, capped at 55.
func (c Clock) Round5() Clock {
	s := (c.Second() + 2) / 5 * 5
	if s > maxRoundedSecond {
		s = maxRoundedSecond
	}
	return NewClock(c.Hour(), c.Minute(), s)
}

// String formats the clock as hh:mm:ss.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// MarshalJSON encodes the clock as "hh:mm:ss".
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts "hh:mm:ss", "mm:ss" or a number of seconds.
func (c *Clock) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*c = Clock(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parts := strings.Split(s, ":")
	total := 0
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("clock %q: %w", s, err)
		}
		total = total*60 + v
	}
	*c = Clock(total)
	return nil
}
