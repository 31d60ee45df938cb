/*
availability.go - Per-person availability resolution

PURPOSE:
  Decides whether a person can take a shift on a given date, from their
  AvailabilityRecord. Records bound an inactivity window with raw date
  strings; the resolver is deliberately tolerant of malformed data.

WINDOW RULE:
  - Active            -> available on every date, window ignored
  - Inactive, no bounds -> unavailable on every date (permanent leave)
  - Inactive, bounded   -> unavailable only inside [From, To] inclusive;
                           a missing bound is unbounded on that side
  - No date queried     -> general status: available iff Active

MALFORMED DATES:
  A date that fails to parse (either a bound or the queried date) never
  crashes resolution; it degrades to the negation of Active, as if no date
  had been supplied.

SEE ALSO:
  - store.go: AvailabilityStore owns the persisted records
  - service.go: builds a fresh Resolver from a store snapshot per request
*/
package roster

import (
	"time"
)

// AvailabilityRecord is one person's mutable availability state.
// From/To are kept as raw YYYY-MM-DD strings; empty means unset.
type AvailabilityRecord struct {
	Active bool
	Reason string
	From   string
	To     string
}

// DefaultRecord is the state for a person with no stored record: active.
func DefaultRecord() AvailabilityRecord {
	return AvailabilityRecord{Active: true}
}

// Resolver answers availability questions against an immutable snapshot of
// records. Build a fresh one per operation from the store snapshot.
type Resolver struct {
	roster  Roster
	records map[string]AvailabilityRecord
}

func NewResolver(roster Roster, records map[string]AvailabilityRecord) *Resolver {
	if records == nil {
		records = map[string]AvailabilityRecord{}
	}
	return &Resolver{roster: roster, records: records}
}

// recordFor looks up a person's record. Unknown persons are treated as
// having no record, which IsAvailable resolves fail-open (available).
// Legacy behavior kept on purpose; revisit here if it changes.
func (r *Resolver) recordFor(person string) (AvailabilityRecord, bool) {
	rec, ok := r.records[person]
	return rec, ok
}

// IsAvailable reports whether person can take a shift on date (YYYY-MM-DD).
// An empty date asks for the person's general status.
func (r *Resolver) IsAvailable(person, date string) bool {
	rec, ok := r.recordFor(person)
	if !ok {
		return true
	}
	if rec.Active {
		return true
	}
	// Inactive with no window: never available.
	if rec.From == "" && rec.To == "" {
		return false
	}
	// Windowed inactivity with no queried date reports as unavailable now.
	if date == "" {
		return false
	}

	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return !rec.Active
	}
	if rec.From != "" {
		from, err := time.Parse(DateLayout, rec.From)
		if err != nil {
			return !rec.Active
		}
		if d.Before(from) {
			return true
		}
	}
	if rec.To != "" {
		to, err := time.Parse(DateLayout, rec.To)
		if err != nil {
			return !rec.Active
		}
		if d.After(to) {
			return true
		}
	}
	return false
}

// IsAvailableOn is IsAvailable for a concrete date.
func (r *Resolver) IsAvailableOn(person string, date time.Time) bool {
	return r.IsAvailable(person, date.Format(DateLayout))
}

// ReasonFor returns the stored reason iff the person is unavailable for the
// same inputs.
func (r *Resolver) ReasonFor(person, date string) (string, bool) {
	rec, ok := r.recordFor(person)
	if !ok {
		return "", false
	}
	if r.IsAvailable(person, date) {
		return "", false
	}
	if rec.Reason == "" {
		return "unspecified", true
	}
	return rec.Reason, true
}

// ActivePersons filters the roster, in roster order, by availability on
// date. An empty date filters by general status.
func (r *Resolver) ActivePersons(date string) []Person {
	var active []Person
	for _, p := range r.roster {
		if r.IsAvailable(p.Name, date) {
			active = append(active, p)
		}
	}
	return active
}

// ActiveNames is ActivePersons reduced to names.
func (r *Resolver) ActiveNames(date string) []string {
	persons := r.ActivePersons(date)
	names := make([]string, len(persons))
	for i, p := range persons {
		names[i] = p.Name
	}
	return names
}
