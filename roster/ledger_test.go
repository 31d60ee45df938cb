package roster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/centinela/guardia-engine/roster"
)

func TestCountThrough_TalliesByDayType(t *testing.T) {
	// GIVEN: January assignments on a regular day (5th), a Friday (2nd)
	//        and a Saturday (3rd)
	cal := newTestCalendar()
	snaps := roster.MonthSnapshots{
		time.January: {5: "ALPHA", 2: "ALPHA", 3: "BRAVO"},
	}

	// WHEN: Counting all of January
	tallies := roster.CountThrough(cal, snaps, []time.Month{time.January}, 0, []string{"ALPHA", "BRAVO"})

	// THEN: ALPHA has 1 regular + 1 pre_holiday = 2.5 points
	assert.Equal(t, 1, tallies["ALPHA"].Regular)
	assert.Equal(t, 1, tallies["ALPHA"].PreHoliday)
	assert.Equal(t, 2, tallies["ALPHA"].Total)
	assert.Equal(t, "2.5", tallies["ALPHA"].Points.String())

	assert.Equal(t, 1, tallies["BRAVO"].Holiday)
	assert.Equal(t, "2", tallies["BRAVO"].Points.String())
}

func TestCountThrough_UptoDayLimitsTerminalMonth(t *testing.T) {
	// GIVEN: January fully counted, March counted only before day 10
	cal := newTestCalendar()
	snaps := roster.MonthSnapshots{
		time.January: {5: "ALPHA"},
		time.March:   {9: "ALPHA", 10: "ALPHA", 11: "ALPHA"},
	}

	tallies := roster.CountThrough(cal, snaps,
		[]time.Month{time.January, time.March}, 10, []string{"ALPHA"})

	// THEN: Jan 5 and Mar 9 count; Mar 10 and 11 do not
	assert.Equal(t, 2, tallies["ALPHA"].Total)
}

func TestCountThrough_ZeroEntriesGuaranteed(t *testing.T) {
	// GIVEN: No assignments at all
	cal := newTestCalendar()

	tallies := roster.CountThrough(cal, roster.MonthSnapshots{},
		[]time.Month{time.January}, 0, []string{"ALPHA", "BRAVO"})

	// THEN: Every listed person has a zero entry
	assert.Len(t, tallies, 2)
	assert.Equal(t, 0, tallies["ALPHA"].Total)
	assert.True(t, tallies["BRAVO"].Points.IsZero())
}

func TestCountThrough_IgnoresUnlistedPersons(t *testing.T) {
	cal := newTestCalendar()
	snaps := roster.MonthSnapshots{
		time.January: {5: "OUTSIDER", 6: "ALPHA"},
	}

	tallies := roster.CountThrough(cal, snaps, []time.Month{time.January}, 0, []string{"ALPHA"})

	assert.Len(t, tallies, 1)
	assert.Equal(t, 1, tallies["ALPHA"].Total)
}
