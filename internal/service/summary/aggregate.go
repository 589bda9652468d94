package summary

import (
	"fmt"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
	"github.com/HansOr04/testing-sub002/internal/domain/summary"
)

// Accumulator is the associative, commutative fold state over attendance
// records. Partial accumulators built over record subsets merge without
// reprocessing raw punches, which is what allows chunked and incremental
// aggregation. The attendance-rate division happens only at Finalize, never
// inside the fold, so merging stays exact.
type Accumulator struct {
	TotalHours        float64
	Regular           float64
	Recargo25         float64
	Suplementario50   float64
	Extraordinario100 float64
	Nocturnas         float64

	DaysWorked      int
	DaysAbsent      int
	LateArrivals    int
	EarlyDepartures int
}

// Add folds one record into the accumulator. Soft-deleted records are
// ignored; they no longer represent a day.
func (a *Accumulator) Add(rec attendance.Record, cfg *schedule.ShiftConfig) {
	if rec.IsDeleted() {
		return
	}
	if rec.Status == attendance.StatusAbsent {
		a.DaysAbsent++
		return
	}

	a.DaysWorked++
	a.Regular += rec.Hours.Regular
	a.Recargo25 += rec.Hours.Recargo25
	a.Suplementario50 += rec.Hours.Suplementario50
	a.Extraordinario100 += rec.Hours.Extraordinario100
	a.Nocturnas += rec.Hours.Nocturnas
	a.TotalHours += rec.Hours.Worked()

	// Late arrivals and early departures are measured against the shift
	// configuration's nominal boundaries plus grace, never against literal
	// clock times.
	grace := schedule.ClockTime(cfg.GracePeriodMinutes)
	if rec.Entry != nil && schedule.ClockTimeOf(*rec.Entry) > cfg.NominalStart+grace {
		a.LateArrivals++
	}
	if exit := lastExit(rec); exit != nil && schedule.ClockTimeOf(*exit) < cfg.NominalEnd-grace {
		a.EarlyDepartures++
	}
}

// Merge combines two partial accumulators. Merge is associative and
// commutative, and merging with the zero value is the identity.
func (a Accumulator) Merge(b Accumulator) Accumulator {
	return Accumulator{
		TotalHours:        a.TotalHours + b.TotalHours,
		Regular:           a.Regular + b.Regular,
		Recargo25:         a.Recargo25 + b.Recargo25,
		Suplementario50:   a.Suplementario50 + b.Suplementario50,
		Extraordinario100: a.Extraordinario100 + b.Extraordinario100,
		Nocturnas:         a.Nocturnas + b.Nocturnas,
		DaysWorked:        a.DaysWorked + b.DaysWorked,
		DaysAbsent:        a.DaysAbsent + b.DaysAbsent,
		LateArrivals:      a.LateArrivals + b.LateArrivals,
		EarlyDepartures:   a.EarlyDepartures + b.EarlyDepartures,
	}
}

// Finalize renders the accumulator for one group. scheduledDays comes from
// the rest-day calendar over the report range; it is window metadata, not
// fold state.
func (a Accumulator) Finalize(key, label string, scheduledDays int) summary.GroupSummary {
	s := summary.GroupSummary{
		Key:               key,
		Label:             label,
		TotalHours:        attendance.Round2(a.TotalHours),
		Regular:           attendance.Round2(a.Regular),
		Recargo25:         attendance.Round2(a.Recargo25),
		Suplementario50:   attendance.Round2(a.Suplementario50),
		Extraordinario100: attendance.Round2(a.Extraordinario100),
		Nocturnas:         attendance.Round2(a.Nocturnas),
		DaysWorked:        a.DaysWorked,
		DaysAbsent:        a.DaysAbsent,
		ScheduledDays:     scheduledDays,
		LateArrivals:      a.LateArrivals,
		EarlyDepartures:   a.EarlyDepartures,
	}
	if scheduledDays > 0 {
		s.AttendanceRate = attendance.Round2(float64(a.DaysWorked) / float64(scheduledDays) * 100)
	}
	return s
}

// WindowKey labels the sub-window a date falls in. Keys are canonical and
// sort chronologically as plain strings: "2006-01-02" for days, ISO
// "2006-W##" for weeks, "2006-01" for months.
func WindowKey(w summary.Window, date time.Time) string {
	switch w {
	case summary.WindowWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case summary.WindowMonth:
		return date.Format("2006-01")
	default:
		return date.Format("2006-01-02")
	}
}

func lastExit(rec attendance.Record) *time.Time {
	if rec.Exit2 != nil {
		return rec.Exit2
	}
	return rec.Exit
}
