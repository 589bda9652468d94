package schedule

import (
	"fmt"
	"time"
)

// ShiftConfig carries every regulatory parameter the reconciliation engine
// needs. Overtime tiers, night windows and grace periods vary by jurisdiction
// and employer, so nothing here is ever hard-coded by the engine; the caller
// loads a versioned configuration and passes it in.
type ShiftConfig struct {
	// Version identifies the configuration revision that produced a
	// classification, so recomputations can detect parameter drift.
	Version string

	// StandardShiftMinutes is the regular working time per day (e.g. 480).
	StandardShiftMinutes int

	// Night window for the "nocturnas" overlay, e.g. 22:00-06:00.
	Night NightWindow

	// Tier1LimitMinutes is how much excess beyond the standard shift is
	// charged as recargo 25% before spilling into the next tier.
	Tier1LimitMinutes int
	// Tier2LimitMinutes is how much excess beyond tier 1 is charged as
	// suplementario 50% before the remainder becomes extraordinario 100%.
	Tier2LimitMinutes int

	// Lunch deduction rule: minutes inside the lunch window are not worked
	// time, capped at LunchMinutes per day.
	LunchStart   ClockTime
	LunchMinutes int

	// Nominal day boundaries for late-arrival / early-departure counting.
	NominalStart ClockTime
	NominalEnd   ClockTime
	// GracePeriodMinutes of tolerance before an arrival counts as late or a
	// departure as early.
	GracePeriodMinutes int

	// Rest-day calendar. Work on these days is entirely extraordinario 100%.
	RestWeekdays []time.Weekday
	RestDates    []time.Time

	// DuplicateThresholdMinutes is the window inside which two punches of the
	// same type are considered one physical event.
	DuplicateThresholdMinutes int
}

// Validate fails fast on contract faults. An invalid configuration is a
// caller bug, not a data-quality condition, and is never silently repaired.
func (c *ShiftConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("shift config is required")
	}
	if c.StandardShiftMinutes <= 0 || c.StandardShiftMinutes > MinutesPerDay {
		return fmt.Errorf("standard shift minutes must be in (0, %d], got %d", MinutesPerDay, c.StandardShiftMinutes)
	}
	if c.Tier1LimitMinutes < 0 || c.Tier2LimitMinutes < 0 {
		return fmt.Errorf("overtime tier limits must be non-negative")
	}
	if c.LunchMinutes < 0 {
		return fmt.Errorf("lunch minutes must be non-negative, got %d", c.LunchMinutes)
	}
	if c.GracePeriodMinutes < 0 {
		return fmt.Errorf("grace period minutes must be non-negative, got %d", c.GracePeriodMinutes)
	}
	if c.DuplicateThresholdMinutes < 0 {
		return fmt.Errorf("duplicate threshold minutes must be non-negative, got %d", c.DuplicateThresholdMinutes)
	}
	if c.NominalEnd <= c.NominalStart {
		return fmt.Errorf("nominal end %s must be after nominal start %s", c.NominalEnd, c.NominalStart)
	}
	return nil
}

// LunchWindow returns the configured lunch interval.
func (c *ShiftConfig) LunchWindow() Interval {
	return Interval{Start: c.LunchStart, End: c.LunchStart + ClockTime(c.LunchMinutes)}
}

// IsRestDay reports whether date falls on the configured rest calendar.
func (c *ShiftConfig) IsRestDay(date time.Time) bool {
	for _, wd := range c.RestWeekdays {
		if date.Weekday() == wd {
			return true
		}
	}
	for _, d := range c.RestDates {
		if sameDate(d, date) {
			return true
		}
	}
	return false
}

// ScheduledDays counts the non-rest days in [from, to], both inclusive.
// Used as the attendance-rate denominator.
func (c *ShiftConfig) ScheduledDays(from, to time.Time) int {
	count := 0
	for d := truncateDate(from); !d.After(truncateDate(to)); d = d.AddDate(0, 0, 1) {
		if !c.IsRestDay(d) {
			count++
		}
	}
	return count
}

// DefaultShiftConfig returns the Ecuadorian baseline: 8h shift, 22:00-06:00
// night window, 2h recargo 25% band, 2h suplementario 50% band, one lunch
// hour at 13:00 and Sunday rest.
func DefaultShiftConfig() ShiftConfig {
	return ShiftConfig{
		Version:                   "default-ec-v1",
		StandardShiftMinutes:      8 * 60,
		Night:                     NightWindow{Start: 22 * 60, End: 6 * 60},
		Tier1LimitMinutes:         2 * 60,
		Tier2LimitMinutes:         2 * 60,
		LunchStart:                13 * 60,
		LunchMinutes:              60,
		NominalStart:              8 * 60,
		NominalEnd:                17 * 60,
		GracePeriodMinutes:        10,
		RestWeekdays:              []time.Weekday{time.Sunday},
		DuplicateThresholdMinutes: 5,
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
