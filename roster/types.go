/*
Package roster provides the core duty-roster engine.

PURPOSE:
  This package contains the types and algorithms for assigning on-call duty
  shifts ("guardias") across a fixed calendar year: classifying days by
  weight, resolving per-person availability windows, replaying workload from
  the assignment store, and distributing weighted workload as evenly as
  possible across the roster.

KEY CONCEPTS IN THIS FILE (types.go):
  - Person/Roster: The fixed, seniority-ordered duty roster
  - DayType: Day classification (regular, pre_holiday, holiday) with weights
  - Tally: Per-person workload counters (counts by type + weighted points)

DESIGN PRINCIPLES:
  1. Re-derivation: calendar state and workload are recomputed from the
     persisted assignment snapshot on every read; nothing is cached
  2. Precision: uses decimal.Decimal for day weights and accumulated points
  3. Injected configuration: the roster and holiday calendar are immutable
     values passed to every component at construction, never globals
  4. Determinism: all tie-breaks fall back to roster order

SEE ALSO:
  - calendar.go: Day classification rules
  - availability.go: Availability window resolution
  - allocator.go: Greedy fair allocation
  - service.go: Orchestration over the store collaborators
*/
package roster

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// PERSON / ROSTER - Fixed seniority-ordered duty list
// =============================================================================

// Person is an immutable roster entry. Name is the unique key used in the
// assignment store and history. Rank 1 fills first (most senior by policy).
// RegistryID is an external service number, informational only.
type Person struct {
	Name       string
	Rank       int
	RegistryID int
}

// Roster is the fixed ordered sequence of persons, set at deployment.
// The slice order is the fill order (ascending seniority rank).
type Roster []Person

// Lookup returns the person with the given name.
func (r Roster) Lookup(name string) (Person, bool) {
	for _, p := range r {
		if p.Name == name {
			return p, true
		}
	}
	return Person{}, false
}

// Contains reports whether name is on the roster.
func (r Roster) Contains(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all roster names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = p.Name
	}
	return names
}

// RankOf returns the seniority rank for name, or a sentinel rank that sorts
// after every real entry for unknown names.
func (r Roster) RankOf(name string) int {
	if p, ok := r.Lookup(name); ok {
		return p.Rank
	}
	return len(r) + 99
}

// =============================================================================
// DAY TYPE - Classification with weighted workload
// =============================================================================

type DayType string

const (
	DayRegular    DayType = "regular"
	DayPreHoliday DayType = "pre_holiday"
	DayHoliday    DayType = "holiday"
)

// Day weights. A holiday shift counts double a regular one.
var (
	weightRegular    = decimal.NewFromFloat(1.0)
	weightPreHoliday = decimal.NewFromFloat(1.5)
	weightHoliday    = decimal.NewFromFloat(2.0)
)

// Weight returns the workload points one shift of this day type is worth.
func (t DayType) Weight() decimal.Decimal {
	switch t {
	case DayHoliday:
		return weightHoliday
	case DayPreHoliday:
		return weightPreHoliday
	default:
		return weightRegular
	}
}

// =============================================================================
// TALLY - Per-person workload counters
// =============================================================================

// Tally accumulates one person's assigned shifts: counts per day type plus
// weighted points. Zero value is a valid empty tally except for Points;
// use NewTally so Points starts at decimal zero.
type Tally struct {
	Regular    int
	PreHoliday int
	Holiday    int
	Total      int
	Points     decimal.Decimal
}

func NewTally() Tally {
	return Tally{Points: decimal.Zero}
}

// Add counts one shift of the given type.
func (t *Tally) Add(dt DayType) {
	switch dt {
	case DayHoliday:
		t.Holiday++
	case DayPreHoliday:
		t.PreHoliday++
	default:
		t.Regular++
	}
	t.Total++
	t.Points = t.Points.Add(dt.Weight())
}

// CountFor returns the count for a single day type.
func (t Tally) CountFor(dt DayType) int {
	switch dt {
	case DayHoliday:
		return t.Holiday
	case DayPreHoliday:
		return t.PreHoliday
	default:
		return t.Regular
	}
}

// zeroTallies returns a tally map with a zero entry for every name.
// Callers never need to guard against missing keys.
func zeroTallies(names []string) map[string]Tally {
	m := make(map[string]Tally, len(names))
	for _, n := range names {
		m[n] = NewTally()
	}
	return m
}
