package roster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centinela/guardia-engine/roster"
)

func TestSuggest_PicksLeastLoaded(t *testing.T) {
	// GIVEN: ALPHA has 2 prior shifts, BRAVO 0, CHARLIE 1
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)
	snaps := roster.MonthSnapshots{
		time.January: {5: "ALPHA", 6: "ALPHA", 7: "CHARLIE"},
	}

	// WHEN: Suggesting for February 10
	p, ok := roster.Suggest(cal, res, snaps, time.February, 10, nil)

	// THEN: BRAVO, the least loaded
	require.True(t, ok)
	assert.Equal(t, "BRAVO", p.Name)
}

func TestSuggest_TieGoesToSeniority(t *testing.T) {
	// GIVEN: Everyone at zero
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)

	p, ok := roster.Suggest(cal, res, roster.MonthSnapshots{}, time.February, 10, nil)

	require.True(t, ok)
	assert.Equal(t, "ALPHA", p.Name)
}

func TestSuggest_CountsOnlyDaysBeforeTheSlot(t *testing.T) {
	// GIVEN: ALPHA's only shift in February is ON day 10 and after
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)
	snaps := roster.MonthSnapshots{
		time.February: {10: "BRAVO", 11: "BRAVO", 5: "ALPHA", 6: "CHARLIE"},
	}

	// WHEN: Suggesting for February 10
	p, ok := roster.Suggest(cal, res, snaps, time.February, 10, nil)

	// THEN: BRAVO's day-10+ shifts don't count against them
	require.True(t, ok)
	assert.Equal(t, "BRAVO", p.Name)
}

func TestSuggest_SkipsUnavailableAndExcluded(t *testing.T) {
	// GIVEN: ALPHA inactive on the slot date, BRAVO explicitly excluded
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), map[string]roster.AvailabilityRecord{
		"ALPHA": {Active: false, From: "2026-02-10", To: "2026-02-10"},
	})

	p, ok := roster.Suggest(cal, res, roster.MonthSnapshots{}, time.February, 10,
		map[string]bool{"BRAVO": true})

	require.True(t, ok)
	assert.Equal(t, "CHARLIE", p.Name)
}

func TestSuggest_NoCandidates(t *testing.T) {
	// GIVEN: Everyone on permanent leave
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), map[string]roster.AvailabilityRecord{
		"ALPHA":   {Active: false},
		"BRAVO":   {Active: false},
		"CHARLIE": {Active: false},
	})

	_, ok := roster.Suggest(cal, res, roster.MonthSnapshots{}, time.February, 10, nil)
	assert.False(t, ok)
}

func TestSuggest_InvalidDate(t *testing.T) {
	cal := newTestCalendar()
	res := roster.NewResolver(testRoster(), nil)

	_, ok := roster.Suggest(cal, res, roster.MonthSnapshots{}, time.February, 30, nil)
	assert.False(t, ok)
}
