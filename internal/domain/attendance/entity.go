package attendance

import (
	"math"
	"time"
)

// HourBuckets is the regulated hour breakdown for one employee-day, in
// fractional hours rounded to two decimals. OvertimeTotal is always the sum
// of the three premium tiers. Nocturnas is an overlay for payroll premium
// calculation: night minutes keep their regular/overtime classification and
// are reported here in addition.
type HourBuckets struct {
	Regular           float64
	OvertimeTotal     float64
	Recargo25         float64
	Suplementario50   float64
	Extraordinario100 float64
	Nocturnas         float64
}

// Worked returns the classified worked hours (night overlay excluded).
func (b HourBuckets) Worked() float64 {
	return Round2(b.Regular + b.Recargo25 + b.Suplementario50 + b.Extraordinario100)
}

// HasNegative reports whether any bucket went below zero. Unreachable given
// the classifier, but the consistency checker still verifies it.
func (b HourBuckets) HasNegative() bool {
	return b.Regular < 0 || b.OvertimeTotal < 0 || b.Recargo25 < 0 ||
		b.Suplementario50 < 0 || b.Extraordinario100 < 0 || b.Nocturnas < 0
}

// Clamped returns a copy with every negative bucket raised to zero and the
// overtime total recomputed from the clamped tiers.
func (b HourBuckets) Clamped() HourBuckets {
	c := HourBuckets{
		Regular:           math.Max(0, b.Regular),
		Recargo25:         math.Max(0, b.Recargo25),
		Suplementario50:   math.Max(0, b.Suplementario50),
		Extraordinario100: math.Max(0, b.Extraordinario100),
		Nocturnas:         math.Max(0, b.Nocturnas),
	}
	c.OvertimeTotal = Round2(c.Recargo25 + c.Suplementario50 + c.Extraordinario100)
	return c
}

// Round2 rounds to two decimal places. The classifier applies it exactly
// once per bucket, at the end, so rounding error never compounds.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Pair is one resolved entry/exit pair. Exit may be nil while the day is
// still open or the exit punch never arrived.
type Pair struct {
	Entry *time.Time
	Exit  *time.Time
}

// Complete reports whether both punches are present.
func (p Pair) Complete() bool {
	return p.Entry != nil && p.Exit != nil
}

// Record is one employee's attendance for one calendar day. Split shifts are
// supported through a second entry/exit pair. Records are soft-deleted only,
// and Version backs optimistic concurrency between concurrent updaters.
type Record struct {
	ID         string
	EmployeeID string
	Date       time.Time

	Entry  *time.Time
	Exit   *time.Time
	Entry2 *time.Time
	Exit2  *time.Time

	LunchMinutes int
	Hours        HourBuckets

	Status      Status
	ManualEntry bool
	Notes       string

	// ConfigVersion records which ShiftConfig revision classified the hours.
	ConfigVersion string

	ModifiedBy *string
	ModifiedAt *time.Time
	DeletedAt  *time.Time
	Version    int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pairs returns the populated entry/exit pairs in shift order.
func (r Record) Pairs() []Pair {
	var pairs []Pair
	if r.Entry != nil || r.Exit != nil {
		pairs = append(pairs, Pair{Entry: r.Entry, Exit: r.Exit})
	}
	if r.Entry2 != nil || r.Exit2 != nil {
		pairs = append(pairs, Pair{Entry: r.Entry2, Exit: r.Exit2})
	}
	return pairs
}

// HasIncompletePair reports an entry without its matching exit.
func (r Record) HasIncompletePair() bool {
	for _, p := range r.Pairs() {
		if p.Entry != nil && p.Exit == nil {
			return true
		}
	}
	return false
}

// IsDeleted reports whether the record is soft-deleted.
func (r Record) IsDeleted() bool {
	return r.DeletedAt != nil
}

// Touch records who mutated the record and bumps the version counter.
// Every mutation path must go through here.
func (r *Record) Touch(modifiedBy string, now time.Time) {
	r.ModifiedBy = &modifiedBy
	r.ModifiedAt = &now
	r.Version++
}
