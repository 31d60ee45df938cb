/*
inventory.go - Month inventory: the shared read model

PURPOSE:
  Derives, for one month, every calendar day with its classification,
  current occupant, and availability conflict flag. This is the read model
  every other component builds on: the ledger replays it, the allocator
  scopes over it, the reporter aggregates it.

RE-DERIVATION:
  BuildMonth is recomputed from the store snapshot on every call. At most
  31 iterations, and it removes cache-invalidation bugs entirely.
*/
package roster

import (
	"sort"
	"time"
)

// CalendarDay is one derived day of a month. Assignee is empty when the day
// has no persisted assignment. Available is false (with ConflictReason set)
// when the assignee is not available on the date.
type CalendarDay struct {
	Day            int
	Date           string
	Weekday        time.Weekday
	Type           DayType
	Assignee       string
	Available      bool
	ConflictReason string
}

// MonthInventory maps day number to its derived state.
type MonthInventory map[int]CalendarDay

// Days returns the day numbers in ascending order.
func (inv MonthInventory) Days() []int {
	days := make([]int, 0, len(inv))
	for d := range inv {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// MonthStats summarizes an inventory.
type MonthStats struct {
	Total      int
	Assigned   int
	Pending    int
	Conflicts  int
	Regular    int
	PreHoliday int
	Holiday    int
}

// Stats counts assignments, pending days, conflicts, and day types.
func (inv MonthInventory) Stats() MonthStats {
	var s MonthStats
	s.Total = len(inv)
	for _, d := range inv {
		if d.Assignee != "" {
			s.Assigned++
			if !d.Available {
				s.Conflicts++
			}
		}
		switch d.Type {
		case DayHoliday:
			s.Holiday++
		case DayPreHoliday:
			s.PreHoliday++
		default:
			s.Regular++
		}
	}
	s.Pending = s.Total - s.Assigned
	return s
}

// BuildMonth derives the full inventory for month from the persisted
// assignment snapshot. Deterministic and side-effect-free for a given
// snapshot.
func BuildMonth(cal *Calendar, res *Resolver, month time.Month, assigned map[int]string) MonthInventory {
	inv := make(MonthInventory, cal.DaysIn(month))
	for day := 1; day <= cal.DaysIn(month); day++ {
		date, _ := cal.DateOf(month, day)
		entry := CalendarDay{
			Day:       day,
			Date:      date.Format(DateLayout),
			Weekday:   date.Weekday(),
			Type:      cal.Classify(month, day),
			Assignee:  assigned[day],
			Available: true,
		}
		if entry.Assignee != "" && !res.IsAvailable(entry.Assignee, entry.Date) {
			entry.Available = false
			reason, _ := res.ReasonFor(entry.Assignee, entry.Date)
			entry.ConflictReason = reason
		}
		inv[day] = entry
	}
	return inv
}
