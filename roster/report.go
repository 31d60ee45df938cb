/*
report.go - Distribution reporter: drift from proportional fairness

PURPOSE:
  Diagnostic view of how each person's cumulative assignments track the
  ideal proportional share. It never assigns anything; it only measures.

IDEAL SHARE:
  For each month, ideal = daysInMonth / count(persons active across that
  month's days). Ideal shares accumulate month over month, and each
  person's cumulative actual is classified against the cumulative ideal.
*/
package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// Drift classifications for cumulative actual vs cumulative ideal.
const (
	DriftBalanced = "balanced"
	DriftAhead    = "ahead"
	DriftBehind   = "behind"
)

var driftBalancedBand = decimal.NewFromFloat(0.5)

// PersonDistribution is one person's row for one month of the report.
type PersonDistribution struct {
	MonthActual      int
	MonthIdeal       decimal.Decimal
	CumulativeActual int
	CumulativeIdeal  decimal.Decimal
	Diff             decimal.Decimal
	Status           string
	Active           bool
}

// MonthDistribution is the report for one month.
type MonthDistribution struct {
	Month         time.Month
	TotalDays     int
	ActivePersons int
	IdealShare    decimal.Decimal
	Persons       map[string]PersonDistribution
}

// Distribution computes the per-month fairness report across months, in
// calendar order. With activeOnly, only currently-active persons get rows;
// otherwise the whole roster does. Pure function of the snapshots.
func Distribution(cal *Calendar, res *Resolver, snaps MonthSnapshots, months []time.Month, activeOnly bool) []MonthDistribution {
	var considered []string
	if activeOnly {
		considered = res.ActiveNames("")
	} else {
		considered = res.roster.Names()
	}

	cumActual := map[string]int{}
	cumIdeal := map[string]decimal.Decimal{}
	for _, n := range res.roster.Names() {
		cumIdeal[n] = decimal.Zero
	}

	var out []MonthDistribution
	for _, month := range months {
		monthActual := map[string]int{}
		for _, person := range snaps[month] {
			if person == "" {
				continue
			}
			monthActual[person]++
			cumActual[person]++
		}

		activeSet := map[string]bool{}
		for day := 1; day <= cal.DaysIn(month); day++ {
			date, _ := cal.DateOf(month, day)
			for _, p := range res.ActivePersons(date.Format(DateLayout)) {
				activeSet[p.Name] = true
			}
		}

		ideal := decimal.Zero
		if len(activeSet) > 0 {
			ideal = decimal.NewFromInt(int64(cal.DaysIn(month))).
				Div(decimal.NewFromInt(int64(len(activeSet))))
		}
		for name := range activeSet {
			if _, ok := cumIdeal[name]; ok {
				cumIdeal[name] = cumIdeal[name].Add(ideal)
			}
		}

		md := MonthDistribution{
			Month:         month,
			TotalDays:     cal.DaysIn(month),
			ActivePersons: len(activeSet),
			IdealShare:    ideal,
			Persons:       make(map[string]PersonDistribution, len(considered)),
		}
		for _, name := range considered {
			diff := decimal.NewFromInt(int64(cumActual[name])).Sub(cumIdeal[name])
			status := DriftBalanced
			switch {
			case diff.Abs().LessThan(driftBalancedBand):
				status = DriftBalanced
			case diff.IsPositive():
				status = DriftAhead
			default:
				status = DriftBehind
			}
			md.Persons[name] = PersonDistribution{
				MonthActual:      monthActual[name],
				MonthIdeal:       ideal,
				CumulativeActual: cumActual[name],
				CumulativeIdeal:  cumIdeal[name],
				Diff:             diff,
				Status:           status,
				Active:           res.IsAvailable(name, ""),
			}
		}
		out = append(out, md)
	}
	return out
}
