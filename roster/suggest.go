/*
suggest.go - Single-day suggestion engine

PURPOSE:
  Picks the best candidate for one open day: the least-loaded person among
  those available on that date, counting prior months plus the current
  month's earlier days.

COUNTING:
  Suggestions compare plain day counts, not weighted points. Ties go to the
  earlier roster entry (more senior), which keeps the result deterministic.
*/
package roster

import (
	"time"
)

// Suggest returns the best candidate for (month, day), or ok=false when no
// active person is available that date. excluding removes persons from
// consideration (e.g. someone already covering an adjacent shift).
//
// The caller is responsible for validating (month, day) first; an invalid
// date yields no suggestion.
func Suggest(cal *Calendar, res *Resolver, snaps MonthSnapshots, month time.Month, day int, excluding map[string]bool) (Person, bool) {
	date, valid := cal.DateOf(month, day)
	if !valid {
		return Person{}, false
	}

	var candidates []Person
	for _, p := range res.ActivePersons(date.Format(DateLayout)) {
		if !excluding[p.Name] {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Person{}, false
	}

	names := make([]string, len(candidates))
	for i, p := range candidates {
		names[i] = p.Name
	}
	tallies := CountThrough(cal, snaps, MonthsThrough(month), day, names)

	// Minimum total; strict comparison keeps the first (most senior) on ties.
	best := candidates[0]
	for _, p := range candidates[1:] {
		if tallies[p.Name].Total < tallies[best.Name].Total {
			best = p
		}
	}
	return best, true
}
