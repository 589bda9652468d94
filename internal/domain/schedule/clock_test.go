package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"08:00", 480, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"8am", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseClockTime(c.input)
		if c.wantErr {
			assert.Error(t, err, "input %q", c.input)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestClockTimeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "08:05", ClockTime(485).String())
	// Past-midnight values render as next-day time of day.
	assert.Equal(t, "01:30", ClockTime(MinutesPerDay+90).String())
}

func TestIntervalOverlap(t *testing.T) {
	t.Parallel()

	work := Interval{Start: 480, End: 1080} // 08:00-18:00
	lunch := Interval{Start: 780, End: 840} // 13:00-14:00

	assert.Equal(t, 60, work.Overlap(lunch))
	assert.Equal(t, 60, lunch.Overlap(work))
	assert.Equal(t, 0, work.Overlap(Interval{Start: 1080, End: 1140}))
	assert.Equal(t, 600, work.Duration())
	assert.Equal(t, 0, Interval{Start: 600, End: 480}.Duration())
}

func TestNightWindowOverlap(t *testing.T) {
	t.Parallel()

	night := NightWindow{Start: 22 * 60, End: 6 * 60}
	require.True(t, night.Wraps())

	cases := []struct {
		name string
		iv   Interval
		want int
	}{
		{"pure day shift", Interval{Start: 8 * 60, End: 17 * 60}, 0},
		{"evening into night", Interval{Start: 20 * 60, End: 23 * 60}, 60},
		{"crosses midnight", Interval{Start: 22 * 60, End: 26 * 60}, 240},
		{"full night shift", Interval{Start: 22 * 60, End: 30 * 60}, 480},
		{"early morning", Interval{Start: 4 * 60, End: 8 * 60}, 120},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, night.OverlapMinutes(c.iv))
		})
	}

	dayWindow := NightWindow{Start: 9 * 60, End: 12 * 60}
	assert.False(t, dayWindow.Wraps())
	assert.Equal(t, 180, dayWindow.OverlapMinutes(Interval{Start: 8 * 60, End: 13 * 60}))
}

func TestShiftConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultShiftConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.StandardShiftMinutes = 0
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Tier1LimitMinutes = -1
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.NominalEnd = bad.NominalStart
	assert.Error(t, bad.Validate())

	var nilCfg *ShiftConfig
	assert.Error(t, nilCfg.Validate())
}

func TestRestDayCalendar(t *testing.T) {
	t.Parallel()

	cfg := DefaultShiftConfig()
	cfg.RestDates = []time.Time{time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}

	sunday := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	holiday := time.Date(2025, 5, 1, 15, 30, 0, 0, time.UTC)

	assert.True(t, cfg.IsRestDay(sunday))
	assert.False(t, cfg.IsRestDay(monday))
	assert.True(t, cfg.IsRestDay(holiday))
}

func TestScheduledDays(t *testing.T) {
	t.Parallel()

	cfg := DefaultShiftConfig() // Sundays off
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	// June 2025 has 30 days and 5 Sundays.
	assert.Equal(t, 25, cfg.ScheduledDays(from, to))
	assert.Equal(t, 1, cfg.ScheduledDays(from.AddDate(0, 0, 1), from.AddDate(0, 0, 1)))
	assert.Equal(t, 0, cfg.ScheduledDays(from, from))
}
