package reconciliation

import (
	"fmt"
	"sort"
	"time"

	"github.com/HansOr04/testing-sub002/internal/domain/attendance"
	"github.com/HansOr04/testing-sub002/internal/domain/punch"
)

// MatchResult is the outcome of pairing one employee-day's punch events.
type MatchResult struct {
	// Pairs holds at most two ordered entry/exit pairs (split shifts).
	Pairs []attendance.Pair
	// Duplicates are events merged away inside the dedup threshold. They are
	// reported, never silently dropped.
	Duplicates []punch.Event
	// ForReview are events beyond the second pair, flagged for a human
	// instead of being discarded.
	ForReview []punch.Event
	// InferredIDs lists events whose movement type was guessed by position
	// parity. The heuristic is surfaced so ambiguous days reach review.
	InferredIDs []string
	// Matched are the events folded into Pairs, in chronological order.
	Matched []punch.Event
}

// MatchEvents sorts, deduplicates and pairs the unordered punch set of one
// employee-day. thresholdMinutes is the duplicate window: two same-type
// punches closer than this are one physical event, the earliest wins.
//
// Mixed employee or day input is a caller bug and fails fast.
func MatchEvents(events []punch.Event, thresholdMinutes int) (MatchResult, error) {
	if thresholdMinutes < 0 {
		return MatchResult{}, fmt.Errorf("match events: duplicate threshold must be non-negative, got %d", thresholdMinutes)
	}
	if len(events) == 0 {
		return MatchResult{}, nil
	}
	for _, ev := range events {
		if ev.EmployeeID != events[0].EmployeeID {
			return MatchResult{}, fmt.Errorf("match events: mixed employees %s and %s in one group", events[0].EmployeeID, ev.EmployeeID)
		}
	}

	sorted := make([]punch.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var result MatchResult

	// Resolve unknown movement types by position parity: the first unmatched
	// event of the day defaults to ENTRY and the expectation alternates from
	// there.
	typed := make([]punch.Event, 0, len(sorted))
	expected := punch.MovementEntry
	for _, ev := range sorted {
		if ev.Movement != punch.MovementEntry && ev.Movement != punch.MovementExit {
			ev.Movement = expected
			result.InferredIDs = append(result.InferredIDs, ev.ID)
		}
		if ev.Movement == punch.MovementEntry {
			expected = punch.MovementExit
		} else {
			expected = punch.MovementEntry
		}
		typed = append(typed, ev)
	}

	// Merge same-type events inside the threshold. Comparison is against the
	// earliest event of the current run, which makes merging monotonic in
	// the threshold: a larger window never merges fewer events.
	threshold := time.Duration(thresholdMinutes) * time.Minute
	deduped := make([]punch.Event, 0, len(typed))
	for _, ev := range typed {
		if n := len(deduped); n > 0 {
			last := deduped[n-1]
			if last.Movement == ev.Movement && ev.Timestamp.Sub(last.Timestamp) <= threshold {
				result.Duplicates = append(result.Duplicates, ev)
				continue
			}
		}
		deduped = append(deduped, ev)
	}

	// Greedy chronological pairing of alternating ENTRY/EXIT events.
	var pairs []attendance.Pair
	var pairEvents [][]punch.Event
	var open *punch.Event
	for i := range deduped {
		ev := deduped[i]
		if ev.Movement == punch.MovementEntry {
			if open != nil {
				// Entry with no exit before the next entry: close the pair
				// incomplete rather than inventing an exit.
				pairs = append(pairs, attendance.Pair{Entry: &open.Timestamp})
				pairEvents = append(pairEvents, []punch.Event{*open})
			}
			open = &deduped[i]
			continue
		}
		// EXIT
		if open == nil {
			// Exit with no matching entry cannot be paired; a human decides.
			result.ForReview = append(result.ForReview, ev)
			continue
		}
		pairs = append(pairs, attendance.Pair{Entry: &open.Timestamp, Exit: &deduped[i].Timestamp})
		pairEvents = append(pairEvents, []punch.Event{*open, ev})
		open = nil
	}
	if open != nil {
		pairs = append(pairs, attendance.Pair{Entry: &open.Timestamp})
		pairEvents = append(pairEvents, []punch.Event{*open})
	}

	// A day has at most two pairs (split shifts). Anything beyond goes to
	// manual review with its events intact.
	for i, p := range pairs {
		if i < 2 {
			result.Pairs = append(result.Pairs, p)
			result.Matched = append(result.Matched, pairEvents[i]...)
			continue
		}
		result.ForReview = append(result.ForReview, pairEvents[i]...)
	}

	return result, nil
}
