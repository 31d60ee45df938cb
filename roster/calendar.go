/*
calendar.go - Day classification for a fixed calendar year

PURPOSE:
  Pure classification of calendar days into regular / pre_holiday / holiday,
  given the fixed national holiday set for the modeled year.

CLASSIFICATION RULES (priority order):
  1. Saturday or Sunday            -> holiday
  2. Date in the fixed holiday set -> holiday
  3. Friday                        -> pre_holiday
  4. Mon-Thu whose next calendar day is a holiday -> pre_holiday
  5. Otherwise                     -> regular

LENIENCY:
  Classify returns regular for an invalid (month, day) pair instead of
  failing. Callers that need validation use DateOf first.

SEE ALSO:
  - types.go: DayType and weights
  - config package: holiday set and year are injected from configuration
*/
package roster

import (
	"time"
)

// DateLayout is the wire format for dates throughout the system.
const DateLayout = "2006-01-02"

// Calendar classifies days of one fixed year against a holiday set.
// Immutable after construction; safe for concurrent use.
type Calendar struct {
	year     int
	holidays map[string]struct{}
}

// NewCalendar builds a calendar for year with the given holiday dates.
// Holidays outside year are accepted and simply never match.
func NewCalendar(year int, holidays []time.Time) *Calendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Format(DateLayout)] = struct{}{}
	}
	return &Calendar{year: year, holidays: set}
}

// Year returns the modeled year.
func (c *Calendar) Year() int { return c.year }

// DaysIn returns the number of days in month for the calendar year.
func (c *Calendar) DaysIn(month time.Month) int {
	return time.Date(c.year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf resolves (month, day) to a concrete date. ok is false when day is
// out of range for the month.
func (c *Calendar) DateOf(month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	if day < 1 || day > c.DaysIn(month) {
		return time.Time{}, false
	}
	return time.Date(c.year, month, day, 0, 0, 0, 0, time.UTC), true
}

// IsHoliday reports whether date is in the fixed holiday set.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidays[date.Format(DateLayout)]
	return ok
}

// Classify maps (month, day) to its day type. Invalid dates classify as
// regular rather than failing.
func (c *Calendar) Classify(month time.Month, day int) DayType {
	date, ok := c.DateOf(month, day)
	if !ok {
		return DayRegular
	}

	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return DayHoliday
	}
	if c.IsHoliday(date) {
		return DayHoliday
	}
	if wd == time.Friday {
		return DayPreHoliday
	}
	// Mon-Thu immediately before a holiday counts as pre-holiday.
	if c.IsHoliday(date.AddDate(0, 0, 1)) {
		return DayPreHoliday
	}
	return DayRegular
}

// MonthsThrough returns January..month in calendar order.
func MonthsThrough(month time.Month) []time.Month {
	months := make([]time.Month, 0, int(month))
	for m := time.January; m <= month; m++ {
		months = append(months, m)
	}
	return months
}

// AllMonths returns the twelve months in calendar order.
func AllMonths() []time.Month {
	return MonthsThrough(time.December)
}
