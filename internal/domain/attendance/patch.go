package attendance

import "time"

// Patch is a typed partial update: a known field set with optional new
// values, applied atomically by the persistence collaborator under an
// optimistic version check. It replaces the source system's per-call-site
// string assembly of UPDATE statements.
type Patch struct {
	Entry        *time.Time
	Exit         *time.Time
	Entry2       *time.Time
	Exit2        *time.Time
	LunchMinutes *int
	Hours        *HourBuckets
	Status       *Status
	ManualEntry  *bool
	Notes        *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Entry == nil && p.Exit == nil && p.Entry2 == nil && p.Exit2 == nil &&
		p.LunchMinutes == nil && p.Hours == nil && p.Status == nil &&
		p.ManualEntry == nil && p.Notes == nil
}

// Apply returns a copy of rec with the patched fields replaced. It does not
// touch version or modifier metadata; the caller owns that.
func (p Patch) Apply(rec Record) Record {
	if p.Entry != nil {
		rec.Entry = p.Entry
	}
	if p.Exit != nil {
		rec.Exit = p.Exit
	}
	if p.Entry2 != nil {
		rec.Entry2 = p.Entry2
	}
	if p.Exit2 != nil {
		rec.Exit2 = p.Exit2
	}
	if p.LunchMinutes != nil {
		rec.LunchMinutes = *p.LunchMinutes
	}
	if p.Hours != nil {
		rec.Hours = *p.Hours
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.ManualEntry != nil {
		rec.ManualEntry = *p.ManualEntry
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
	return rec
}
