package schedule

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed as minutes since midnight.
// Values above 1440 are valid inside an Interval and mean "past midnight
// of the same working day" (night shifts clocking out the next morning).
type ClockTime int

const MinutesPerDay = 1440

// ParseClockTime parses a "15:04" string into a ClockTime.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// ClockTimeOf extracts the time-of-day component of a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	m := int(c) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Minutes returns the raw minute count.
func (c ClockTime) Minutes() int {
	return int(c)
}

// Before reports whether c is earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	return c < other
}

// Interval is a half-open [Start, End) minute range within one working day.
// End may exceed MinutesPerDay when the interval crosses midnight.
type Interval struct {
	Start ClockTime
	End   ClockTime
}

// NewInterval builds an interval from entry and exit clock times. An exit
// earlier than its entry yields an invalid interval; callers decide whether
// that is a midnight crossing (add MinutesPerDay to the end first) or a
// time-order violation.
func NewInterval(start, end ClockTime) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval is well ordered.
func (iv Interval) Valid() bool {
	return iv.Start <= iv.End
}

// Duration returns the interval length in minutes, never negative.
func (iv Interval) Duration() int {
	if d := int(iv.End - iv.Start); d > 0 {
		return d
	}
	return 0
}

// Overlap returns the number of minutes shared by two intervals.
func (iv Interval) Overlap(other Interval) int {
	start := iv.Start
	if other.Start > start {
		start = other.Start
	}
	end := iv.End
	if other.End < end {
		end = other.End
	}
	if end <= start {
		return 0
	}
	return int(end - start)
}

// NightWindow is a daily window that may wrap around midnight,
// e.g. 22:00-06:00.
type NightWindow struct {
	Start ClockTime
	End   ClockTime
}

// Wraps reports whether the window crosses midnight.
func (w NightWindow) Wraps() bool {
	return w.End <= w.Start
}

// segments expands the window into plain intervals covering the working day
// and the spill into the next day, so overlap math never has to reason about
// wrapping.
func (w NightWindow) segments() []Interval {
	if !w.Wraps() {
		return []Interval{
			{Start: w.Start, End: w.End},
			{Start: w.Start + MinutesPerDay, End: w.End + MinutesPerDay},
		}
	}
	return []Interval{
		{Start: 0, End: w.End},
		{Start: w.Start, End: w.End + MinutesPerDay},
		{Start: w.Start + MinutesPerDay, End: w.End + 2*MinutesPerDay},
	}
}

// OverlapMinutes returns how many minutes of iv fall inside the night window,
// including the portion of intervals that run past midnight.
func (w NightWindow) OverlapMinutes(iv Interval) int {
	total := 0
	for _, seg := range w.segments() {
		total += iv.Overlap(seg)
	}
	return total
}
