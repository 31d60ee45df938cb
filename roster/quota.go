/*
quota.go - Quota preview: simulation without commit

PURPOSE:
  Re-runs the full-reallocation algorithm against a month without writing
  anything, then diffs the simulated outcome against the real assignments
  to tell each person how many shifts of each type they would gain or lose
  under a perfectly rebalanced month.

POLICY DIFFERENCE FROM THE ALLOCATOR:
  The committing allocator falls back to the full active set when nobody is
  available on a date, because a committed roster must cover every day. The
  preview is advisory, so it refuses to force anyone: such days land in an
  explicit unassignable bucket instead. The two policies are intentionally
  kept distinct.
*/
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Balance classifications for a projected quota against the ideal share.
const (
	QuotaBalanced  = "balanced"
	QuotaNeedsMore = "needs_more"
	QuotaHasExtra  = "has_extra"
)

var quotaBalancedBand = decimal.NewFromFloat(0.5)

// TallyDelta is the per-type difference between projected and current.
type TallyDelta struct {
	Regular    int
	PreHoliday int
	Holiday    int
	Total      int
}

// QuotaEntry is one person's row in the preview.
type QuotaEntry struct {
	Current   Tally
	Suggested TallyDelta
	Projected Tally
	Balance   string
}

// UnassignableQuota collects days no active person could cover.
type UnassignableQuota struct {
	Tally Tally
	Days  []FallbackDay
}

// QuotaPreview is the full simulation result for a month.
type QuotaPreview struct {
	Month        time.Month
	TotalDays    int
	AssignedDays int
	PendingDays  int
	Participants []string // seniority order
	IdealDays    decimal.Decimal
	IdealPoints  decimal.Decimal
	Entries      map[string]QuotaEntry
	Unassignable *UnassignableQuota // nil when every day found someone
}

// SimulateQuotas previews a full reallocation of month against the current
// snapshot. Pure: never touches the store.
func SimulateQuotas(cal *Calendar, res *Resolver, month time.Month, current map[int]string) (*QuotaPreview, error) {
	participants := monthParticipants(cal, res, month)
	if len(participants) == 0 {
		return nil, fmt.Errorf("simulate %s: %w", month, ErrNoEligiblePersons)
	}

	inSet := make(map[string]bool, len(participants))
	for _, n := range participants {
		inSet[n] = true
	}

	// Current state, before simulating.
	before := zeroTallies(participants)
	assigned := 0
	var scope []scopedDay
	for day := 1; day <= cal.DaysIn(month); day++ {
		date, _ := cal.DateOf(month, day)
		typ := cal.Classify(month, day)
		if occupant := current[day]; occupant != "" {
			assigned++
			if inSet[occupant] {
				t := before[occupant]
				t.Add(typ)
				before[occupant] = t
			}
		}
		scope = append(scope, scopedDay{day: day, date: date.Format(DateLayout), typ: typ})
	}

	sort.SliceStable(scope, func(i, j int) bool {
		return scope[i].typ.Weight().GreaterThan(scope[j].typ.Weight())
	})

	// Fresh simulated reallocation of the entire month, no fallback.
	after := zeroTallies(participants)
	var unassignable *UnassignableQuota
	for _, sd := range scope {
		candidates := availableOf(res, participants, sd.date)
		if len(candidates) == 0 {
			if unassignable == nil {
				unassignable = &UnassignableQuota{Tally: NewTally()}
			}
			unassignable.Tally.Add(sd.typ)
			unassignable.Days = append(unassignable.Days, FallbackDay{Day: sd.day, Date: sd.date, Type: sd.typ})
			continue
		}
		chosen := leastLoaded(after, candidates)
		t := after[chosen]
		t.Add(sd.typ)
		after[chosen] = t
	}

	n := decimal.NewFromInt(int64(len(participants)))
	totalPoints := decimal.Zero
	for _, name := range participants {
		totalPoints = totalPoints.Add(after[name].Points)
	}

	preview := &QuotaPreview{
		Month:        month,
		TotalDays:    cal.DaysIn(month),
		AssignedDays: assigned,
		PendingDays:  cal.DaysIn(month) - assigned,
		Participants: participants,
		IdealDays:    decimal.NewFromInt(int64(cal.DaysIn(month))).Div(n),
		IdealPoints:  totalPoints.Div(n),
		Entries:      make(map[string]QuotaEntry, len(participants)),
		Unassignable: unassignable,
	}

	for _, name := range participants {
		cur, proj := before[name], after[name]
		diff := decimal.NewFromInt(int64(proj.Total)).Sub(preview.IdealDays)
		balance := QuotaBalanced
		switch {
		case diff.Abs().LessThan(quotaBalancedBand):
			balance = QuotaBalanced
		case diff.IsNegative():
			balance = QuotaNeedsMore
		default:
			balance = QuotaHasExtra
		}
		preview.Entries[name] = QuotaEntry{
			Current: cur,
			Suggested: TallyDelta{
				Regular:    proj.Regular - cur.Regular,
				PreHoliday: proj.PreHoliday - cur.PreHoliday,
				Holiday:    proj.Holiday - cur.Holiday,
				Total:      proj.Total - cur.Total,
			},
			Projected: proj,
			Balance:   balance,
		}
	}
	return preview, nil
}
