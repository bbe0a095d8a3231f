package timenorm

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeRange is returned when an interval ends at or before it starts.
var ErrInvalidTimeRange = errors.New("invalid time range: end must be after start")

// Accepted wall-clock layouts for user-submitted times.
var timeLayouts = []string{"15:04:05", "15:04"}

// DateLayout is the canonical date format for claims and events.
const DateLayout = "2006-01-02"

// Interval is a UTC-anchored time interval.
type Interval struct {
	StartUTC time.Time
	EndUTC   time.Time
}

// Normalizer converts naive local date/time strings into UTC intervals
// for a fixed IANA timezone.
type Normalizer struct {
	location *time.Location
}

// New creates a Normalizer for the given IANA timezone string.
// e.g. "Europe/London"
func New(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Normalizer{location: loc}, nil
}

// Location returns the normalizer's timezone location.
func (n *Normalizer) Location() *time.Location {
	return n.location
}

// ParseDate parses a canonical YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// Normalize converts a naive local (date, start, end) triple into a UTC
// interval. Returns ErrInvalidTimeRange when end <= start.
func (n *Normalizer) Normalize(date, startTime, endTime string) (Interval, error) {
	day, err := time.ParseInLocation(DateLayout, date, n.location)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	start, err := n.wallClock(day, startTime)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}
	end, err := n.wallClock(day, endTime)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid end time %q: %w", endTime, err)
	}

	if !end.After(start) {
		return Interval{}, ErrInvalidTimeRange
	}

	return Interval{StartUTC: start.UTC(), EndUTC: end.UTC()}, nil
}

// NormalizeInterval re-anchors an interval to UTC. Normalizing an interval
// that is already normalized is a no-op.
func (n *Normalizer) NormalizeInterval(iv Interval) (Interval, error) {
	if !iv.EndUTC.After(iv.StartUTC) {
		return Interval{}, ErrInvalidTimeRange
	}
	return Interval{StartUTC: iv.StartUTC.UTC(), EndUTC: iv.EndUTC.UTC()}, nil
}

// wallClock combines a local day with a wall-clock time string.
func (n *Normalizer) wallClock(day time.Time, clock string) (time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range timeLayouts {
		parsed, err = time.Parse(layout, clock)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				parsed.Hour(), parsed.Minute(), parsed.Second(), 0, n.location), nil
		}
	}
	return time.Time{}, err
}

// DurationMinutes returns the interval length in whole minutes.
func (iv Interval) DurationMinutes() int {
	return int(iv.EndUTC.Sub(iv.StartUTC) / time.Minute)
}

// OverlapMinutes returns the overlap with other in whole minutes, 0 if disjoint.
func (iv Interval) OverlapMinutes(other Interval) int {
	start := iv.StartUTC
	if other.StartUTC.After(start) {
		start = other.StartUTC
	}
	end := iv.EndUTC
	if other.EndUTC.Before(end) {
		end = other.EndUTC
	}
	if !end.After(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// Intersect returns the shared span of two intervals. ok is false when the
// intervals are disjoint.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	start := iv.StartUTC
	if other.StartUTC.After(start) {
		start = other.StartUTC
	}
	end := iv.EndUTC
	if other.EndUTC.Before(end) {
		end = other.EndUTC
	}
	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{StartUTC: start, EndUTC: end}, true
}

// Overlaps reports whether the two intervals share any time.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.StartUTC.Before(other.EndUTC) && other.StartUTC.Before(iv.EndUTC)
}

// DeviationMinutes returns the summed absolute start and end offsets
// between the interval and other, in whole minutes.
func (iv Interval) DeviationMinutes(other Interval) int {
	return absMinutes(iv.StartUTC.Sub(other.StartUTC)) + absMinutes(iv.EndUTC.Sub(other.EndUTC))
}

func absMinutes(d time.Duration) int {
	if d < 0 {
		d = -d
	}
	return int(d / time.Minute)
}
