package roster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centinela/guardia-engine/roster"
)

func TestDistribution_IdealShareSplitsMonth(t *testing.T) {
	// GIVEN: Three active persons, an empty January
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)

	report := roster.Distribution(cal, res, roster.MonthSnapshots{},
		[]time.Month{time.January}, true)

	require.Len(t, report, 1)
	md := report[0]
	assert.Equal(t, 31, md.TotalDays)
	assert.Equal(t, 3, md.ActivePersons)
	assert.InDelta(t, 31.0/3.0, md.IdealShare.InexactFloat64(), 0.001)
}

func TestDistribution_AheadAndBehind(t *testing.T) {
	// GIVEN: ALPHA took every day of January, the others none
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)
	days := map[int]string{}
	for d := 1; d <= 31; d++ {
		days[d] = "ALPHA"
	}
	snaps := roster.MonthSnapshots{time.January: days}

	report := roster.Distribution(cal, res, snaps, []time.Month{time.January}, true)
	require.Len(t, report, 1)

	alpha := report[0].Persons["ALPHA"]
	assert.Equal(t, 31, alpha.CumulativeActual)
	assert.Equal(t, roster.DriftAhead, alpha.Status)

	bravo := report[0].Persons["BRAVO"]
	assert.Equal(t, 0, bravo.CumulativeActual)
	assert.Equal(t, roster.DriftBehind, bravo.Status)
}

func TestDistribution_BalancedBand(t *testing.T) {
	// GIVEN: One active person assigned the full month
	// THEN: Actual equals ideal exactly, diff zero, balanced
	cal := newTestCalendar()
	solo := roster.Roster{{Name: "ALPHA", Rank: 1}}
	res := roster.NewResolver(solo, nil)
	days := map[int]string{}
	for d := 1; d <= 31; d++ {
		days[d] = "ALPHA"
	}

	report := roster.Distribution(cal, res, roster.MonthSnapshots{time.January: days},
		[]time.Month{time.January}, true)
	require.Len(t, report, 1)

	alpha := report[0].Persons["ALPHA"]
	assert.True(t, alpha.Diff.IsZero())
	assert.Equal(t, roster.DriftBalanced, alpha.Status)
}

func TestDistribution_CumulativeAcrossMonths(t *testing.T) {
	// GIVEN: ALPHA works only January, nothing in February
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)
	days := map[int]string{}
	for d := 1; d <= 31; d++ {
		days[d] = "ALPHA"
	}
	snaps := roster.MonthSnapshots{time.January: days}

	report := roster.Distribution(cal, res, snaps,
		[]time.Month{time.January, time.February}, true)
	require.Len(t, report, 2)

	// THEN: February's row still carries January's surplus
	feb := report[1].Persons["ALPHA"]
	assert.Equal(t, 0, feb.MonthActual)
	assert.Equal(t, 31, feb.CumulativeActual)
	assert.Equal(t, roster.DriftAhead, feb.Status)
}

func TestDistribution_Idempotent(t *testing.T) {
	// GIVEN: Identical snapshots
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)
	snaps := roster.MonthSnapshots{
		time.January:  {5: "ALPHA", 6: "BRAVO"},
		time.February: {2: "CHARLIE"},
	}
	months := []time.Month{time.January, time.February}

	// THEN: The report is a pure function of its inputs
	first := roster.Distribution(cal, res, snaps, months, true)
	second := roster.Distribution(cal, res, snaps, months, true)
	assert.Equal(t, first, second)
}

func TestDistribution_InactiveRowsOnlyWhenRequested(t *testing.T) {
	// GIVEN: BRAVO on permanent leave
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), map[string]roster.AvailabilityRecord{
		"BRAVO": {Active: false},
	})

	activeOnly := roster.Distribution(cal, res, roster.MonthSnapshots{},
		[]time.Month{time.January}, true)
	_, ok := activeOnly[0].Persons["BRAVO"]
	assert.False(t, ok)

	full := roster.Distribution(cal, res, roster.MonthSnapshots{},
		[]time.Month{time.January}, false)
	row, ok := full[0].Persons["BRAVO"]
	require.True(t, ok)
	assert.False(t, row.Active)
}
