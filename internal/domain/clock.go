package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the planning day. Clock arithmetic wraps at
// this boundary; itineraries that cross midnight are not supported.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day expressed in minutes after midnight.
type Clock int

// ParseClock parses "HH:MM" (24-hour) into a Clock.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return Clock(hours*60 + mins), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Add returns c shifted by minutes, wrapping around midnight.
func (c Clock) Add(minutes int) Clock {
	v := (int(c) + minutes) % MinutesPerDay
	if v < 0 {
		v += MinutesPerDay
	}
	return Clock(v)
}

// Minutes returns the clock as minutes after midnight.
func (c Clock) Minutes() int { return int(c) }

func (c Clock) String() string {
	v := c.Add(0)
	return fmt.Sprintf("%02d:%02d", int(v)/60, int(v)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("clock: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML renders the clock as "HH:MM".
func (c Clock) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML accepts "HH:MM" scalars.
func (c *Clock) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
