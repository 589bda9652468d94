package reconciliation

import (
	"fmt"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/schedule"
)

// ClassifyHours turns a day's resolved entry/exit pairs into the regulated
// hour buckets. It is pure and idempotent: the same pairs and configuration
// always produce bit-identical buckets.
//
// Data problems (exit before entry, entry without exit) come back as issues,
// never as errors; the only error is a contract fault in the configuration.
// All buckets are rounded to two decimals in a single pass at the end, so
// intermediate arithmetic never compounds rounding error.
func ClassifyHours(date time.Time, pairs []attendance.Pair, cfg *schedule.ShiftConfig) (attendance.HourBuckets, []attendance.Issue, error) {
	if err := cfg.Validate(); err != nil {
		return attendance.HourBuckets{}, nil, fmt.Errorf("classify hours: %w", err)
	}

	var issues []attendance.Issue
	lunchBudget := cfg.LunchMinutes
	workedMin := 0
	nightMin := 0

	for i, p := range pairs {
		if p.Entry == nil && p.Exit == nil {
			continue
		}
		if p.Entry == nil || p.Exit == nil {
			// Zero worked minutes for the incomplete pair; the consistency
			// checker decides whether this is a violation for the record's
			// status.
			issues = append(issues, attendance.Issue{
				Kind:   attendance.IssueIncompletePair,
				Detail: fmt.Sprintf("pair %d has an entry without a matching exit", i+1),
			})
			continue
		}
		if p.Exit.Before(*p.Entry) {
			// Rejected, not classified. The caller keeps whatever buckets
			// the record already carried.
			issues = append(issues, attendance.Issue{
				Kind:   attendance.IssueTimeOrderViolation,
				Detail: fmt.Sprintf("pair %d exit %s precedes entry %s", i+1, p.Exit.Format("15:04"), p.Entry.Format("15:04")),
			})
			continue
		}

		iv := pairInterval(*p.Entry, *p.Exit)
		pairMin := iv.Duration()

		// Lunch deduction: minutes overlapping the lunch window are not
		// worked time, capped at the configured daily budget.
		lunchOverlap := iv.Overlap(cfg.LunchWindow())
		if lunchOverlap > lunchBudget {
			lunchOverlap = lunchBudget
		}
		lunchBudget -= lunchOverlap

		workedMin += pairMin - lunchOverlap
		nightMin += cfg.Night.OverlapMinutes(iv)
	}

	if attendance.HasKind(issues, attendance.IssueTimeOrderViolation) {
		return attendance.HourBuckets{}, issues, nil
	}

	var regularMin, t1Min, t2Min, t3Min int
	if cfg.IsRestDay(date) {
		// Rest-day work is entirely extraordinario 100%, regardless of
		// duration.
		t3Min = workedMin
	} else {
		regularMin = workedMin
		if regularMin > cfg.StandardShiftMinutes {
			regularMin = cfg.StandardShiftMinutes
		}
		excess := workedMin - regularMin
		t1Min = excess
		if t1Min > cfg.Tier1LimitMinutes {
			t1Min = cfg.Tier1LimitMinutes
		}
		excess -= t1Min
		t2Min = excess
		if t2Min > cfg.Tier2LimitMinutes {
			t2Min = cfg.Tier2LimitMinutes
		}
		t3Min = excess - t2Min
	}

	buckets := attendance.HourBuckets{
		Regular:           attendance.Round2(float64(regularMin) / 60),
		Recargo25:         attendance.Round2(float64(t1Min) / 60),
		Suplementario50:   attendance.Round2(float64(t2Min) / 60),
		Extraordinario100: attendance.Round2(float64(t3Min) / 60),
		Nocturnas:         attendance.Round2(float64(nightMin) / 60),
	}
	// The overtime total is derived from the already-rounded tiers so the
	// total == recargo25 + suplementario50 + extraordinario100 identity
	// holds exactly.
	buckets.OvertimeTotal = attendance.Round2(buckets.Recargo25 + buckets.Suplementario50 + buckets.Extraordinario100)

	return buckets, issues, nil
}

// pairInterval maps an entry/exit timestamp pair onto the working day's
// minute axis. An exit on the following calendar day lands past
// MinutesPerDay so night-shift intervals stay contiguous.
func pairInterval(entry, exit time.Time) schedule.Interval {
	start := schedule.ClockTimeOf(entry)
	end := schedule.ClockTimeOf(exit)
	ey, em, ed := entry.Date()
	xy, xm, xd := exit.Date()
	if xy != ey || xm != em || xd != ed {
		end += schedule.MinutesPerDay
	}
	return schedule.NewInterval(start, end)
}
