/*
allocator.go - Fair allocation of a month's shifts

PURPOSE:
  Distributes a month's days across the eligible roster so weighted
  workload comes out as even as a greedy pass can make it. Two modes share
  one core:

  - Full reallocation: every day of the month is assigned fresh, existing
    assignments are discarded.
  - Fill pending: only unassigned days are filled; the ledger is pre-seeded
    with existing assignments so new ones balance against the status quo.

ALGORITHM:
  1. Active set = union over all days of per-date availability, sorted by
     seniority rank. Empty set is the only hard failure.
  2. Days ordered by weight descending (holidays first), stable day order
     within equal weight.
  3. Per day: candidates available that date; if none, fall back to the
     whole active set so coverage stays at 100%. The fallback is recorded
     in the plan, never silent.
  4. Pick minimum accumulated points, then minimum total days, then roster
     order.

  This is a deterministic greedy heuristic, not an optimal solver.

SEE ALSO:
  - quota.go: the same algorithm in advisory mode, which refuses to force
    anyone and reports unassignable days instead
*/
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationMode distinguishes the two allocator entry points.
type AllocationMode string

const (
	ModeFull        AllocationMode = "full"
	ModeFillPending AllocationMode = "fill_pending"
)

// Equity quality bands for the points spread after allocation.
var (
	equityExcellentBelow = decimal.NewFromInt(2)
	equityGoodBelow      = decimal.NewFromInt(4)
)

// Equity summarizes how even the weighted distribution came out.
type Equity struct {
	MinPoints decimal.Decimal
	MaxPoints decimal.Decimal
	Spread    decimal.Decimal
	Level     string // "excellent" | "good" | "acceptable"
}

func equityFor(tallies map[string]Tally, participants []string) Equity {
	eq := Equity{MinPoints: decimal.Zero, MaxPoints: decimal.Zero, Spread: decimal.Zero}
	for i, name := range participants {
		pts := tallies[name].Points
		if i == 0 {
			eq.MinPoints, eq.MaxPoints = pts, pts
			continue
		}
		if pts.LessThan(eq.MinPoints) {
			eq.MinPoints = pts
		}
		if pts.GreaterThan(eq.MaxPoints) {
			eq.MaxPoints = pts
		}
	}
	eq.Spread = eq.MaxPoints.Sub(eq.MinPoints)
	switch {
	case eq.Spread.LessThan(equityExcellentBelow):
		eq.Level = "excellent"
	case eq.Spread.LessThan(equityGoodBelow):
		eq.Level = "good"
	default:
		eq.Level = "acceptable"
	}
	return eq
}

// FallbackDay records a day where nobody eligible was available on the
// specific date and the allocator assigned from the full active set anyway.
type FallbackDay struct {
	Day  int
	Date string
	Type DayType
}

// AllocationPlan is the ephemeral result of one allocation run. The caller
// either commits Assignments to the store or discards the plan.
type AllocationPlan struct {
	ID           string
	Month        time.Month
	Mode         AllocationMode
	Assignments  map[int]string // final full month mapping
	Filled       []int          // days assigned by this run, ascending
	Participants []string       // seniority order
	Tallies      map[string]Tally
	Equity       Equity
	Fallbacks    []FallbackDay
	TotalPoints  decimal.Decimal
	IdealPoints  decimal.Decimal // per participant
}

// AllocateMonth assigns every day of month fresh, ignoring any existing
// assignments in current.
func AllocateMonth(cal *Calendar, res *Resolver, month time.Month, current map[int]string) (*AllocationPlan, error) {
	return allocate(cal, res, month, current, ModeFull)
}

// FillPending assigns only the days of month that have no assignment in
// current, balancing new assignments against the existing workload.
func FillPending(cal *Calendar, res *Resolver, month time.Month, current map[int]string) (*AllocationPlan, error) {
	return allocate(cal, res, month, current, ModeFillPending)
}

type scopedDay struct {
	day  int
	date string
	typ  DayType
}

func allocate(cal *Calendar, res *Resolver, month time.Month, current map[int]string, mode AllocationMode) (*AllocationPlan, error) {
	participants := monthParticipants(cal, res, month)
	if len(participants) == 0 {
		return nil, fmt.Errorf("allocate %s: %w", month, ErrNoEligiblePersons)
	}

	plan := &AllocationPlan{
		ID:           uuid.NewString(),
		Month:        month,
		Mode:         mode,
		Assignments:  map[int]string{},
		Participants: participants,
		Tallies:      zeroTallies(participants),
		TotalPoints:  decimal.Zero,
		IdealPoints:  decimal.Zero,
	}

	inSet := make(map[string]bool, len(participants))
	for _, n := range participants {
		inSet[n] = true
	}

	var scope []scopedDay
	for day := 1; day <= cal.DaysIn(month); day++ {
		date, _ := cal.DateOf(month, day)
		typ := cal.Classify(month, day)
		occupant := current[day]

		if mode == ModeFillPending && occupant != "" {
			// Seed the ledger with the status quo; persons outside the
			// eligible set still occupy their days but don't compete.
			plan.Assignments[day] = occupant
			if inSet[occupant] {
				t := plan.Tallies[occupant]
				t.Add(typ)
				plan.Tallies[occupant] = t
			}
			continue
		}
		scope = append(scope, scopedDay{day: day, date: date.Format(DateLayout), typ: typ})
	}

	// Heaviest days first; stable keeps ascending day order within a weight.
	sort.SliceStable(scope, func(i, j int) bool {
		return scope[i].typ.Weight().GreaterThan(scope[j].typ.Weight())
	})

	for _, sd := range scope {
		candidates := availableOf(res, participants, sd.date)
		if len(candidates) == 0 {
			// Nobody is available on this date: trade availability for
			// coverage and pick from the full active set.
			candidates = participants
			plan.Fallbacks = append(plan.Fallbacks, FallbackDay{Day: sd.day, Date: sd.date, Type: sd.typ})
		}

		chosen := leastLoaded(plan.Tallies, candidates)
		plan.Assignments[sd.day] = chosen
		plan.Filled = append(plan.Filled, sd.day)
		t := plan.Tallies[chosen]
		t.Add(sd.typ)
		plan.Tallies[chosen] = t
	}
	sort.Ints(plan.Filled)

	for _, n := range participants {
		plan.TotalPoints = plan.TotalPoints.Add(plan.Tallies[n].Points)
	}
	plan.IdealPoints = plan.TotalPoints.Div(decimal.NewFromInt(int64(len(participants))))
	plan.Equity = equityFor(plan.Tallies, participants)
	return plan, nil
}

// monthParticipants is the union, over every day of the month, of persons
// available that date, sorted by seniority rank ascending.
func monthParticipants(cal *Calendar, res *Resolver, month time.Month) []string {
	seen := map[string]bool{}
	var names []string
	for day := 1; day <= cal.DaysIn(month); day++ {
		date, _ := cal.DateOf(month, day)
		for _, p := range res.ActivePersons(date.Format(DateLayout)) {
			if !seen[p.Name] {
				seen[p.Name] = true
				names = append(names, p.Name)
			}
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return res.roster.RankOf(names[i]) < res.roster.RankOf(names[j])
	})
	return names
}

func availableOf(res *Resolver, names []string, date string) []string {
	var out []string
	for _, n := range names {
		if res.IsAvailable(n, date) {
			out = append(out, n)
		}
	}
	return out
}

// leastLoaded picks the candidate with minimum points, then minimum total
// days. Strict comparisons keep the earliest candidate (seniority order)
// on full ties.
func leastLoaded(tallies map[string]Tally, candidates []string) string {
	best := candidates[0]
	for _, n := range candidates[1:] {
		bt, nt := tallies[best], tallies[n]
		if nt.Points.LessThan(bt.Points) ||
			(nt.Points.Equal(bt.Points) && nt.Total < bt.Total) {
			best = n
		}
	}
	return best
}
