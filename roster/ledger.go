/*
ledger.go - Workload ledger: replaying assignments chronologically

PURPOSE:
  Computes per-person workload counters by replaying the persisted
  assignment snapshots in calendar order. Never persisted on its own,
  which keeps it drift-free by construction.

UPTO-DAY SEMANTICS:
  Within the terminal month of the replay, only days strictly before
  uptoDay count. This answers "what has this person done before today's
  slot", which is what the suggestion engine needs.
*/
package roster

import (
	"time"
)

// MonthSnapshots is the persisted state of several months, keyed by month,
// each a day -> person mapping.
type MonthSnapshots map[time.Month]map[int]string

// CountThrough replays months (in the given order) and tallies assignments
// for the listed persons. uptoDay limits the LAST month in the slice to
// days strictly before it; pass 0 to count every day.
//
// Every listed person gets an entry, zero-valued if they have no
// assignments, so min-selection never has to handle missing keys.
func CountThrough(cal *Calendar, snaps MonthSnapshots, months []time.Month, uptoDay int, persons []string) map[string]Tally {
	tallies := zeroTallies(persons)
	counted := make(map[string]bool, len(persons))
	for _, n := range persons {
		counted[n] = true
	}

	for i, month := range months {
		terminal := i == len(months)-1
		for day, person := range snaps[month] {
			if person == "" || !counted[person] {
				continue
			}
			if terminal && uptoDay > 0 && day >= uptoDay {
				continue
			}
			t := tallies[person]
			t.Add(cal.Classify(month, day))
			tallies[person] = t
		}
	}
	return tallies
}
