/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - roster/: Domain types these map from
*/
package api

import (
	"sort"
	"time"

	"github.com/centinela/guardia-engine/roster"
)

// =============================================================================
// ERROR RESPONSE
// =============================================================================

// ErrorResponse is the JSON shape of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// MONTH / DAY TYPES
// =============================================================================

// DayDTO is one calendar day of a month view.
type DayDTO struct {
	Day            int    `json:"day"`
	Date           string `json:"date"`
	Weekday        string `json:"weekday"`
	Type           string `json:"type"`
	Assignee       string `json:"assignee,omitempty"`
	Available      bool   `json:"available"`
	ConflictReason string `json:"conflict_reason,omitempty"`
}

// MonthStatsDTO summarizes a month.
type MonthStatsDTO struct {
	Total      int `json:"total_days"`
	Assigned   int `json:"assigned"`
	Pending    int `json:"pending"`
	Conflicts  int `json:"conflicts"`
	Regular    int `json:"regular"`
	PreHoliday int `json:"pre_holiday"`
	Holiday    int `json:"holiday"`
}

// MonthDTO is the full month view.
type MonthDTO struct {
	Month string        `json:"month"`
	Year  int           `json:"year"`
	Days  []DayDTO      `json:"days"`
	Stats MonthStatsDTO `json:"stats"`
}

func toMonthDTO(year int, v *roster.MonthView) MonthDTO {
	days := v.Days.Days()
	dtos := make([]DayDTO, len(days))
	for i, n := range days {
		d := v.Days[n]
		dtos[i] = DayDTO{
			Day:            d.Day,
			Date:           d.Date,
			Weekday:        d.Weekday.String(),
			Type:           string(d.Type),
			Assignee:       d.Assignee,
			Available:      d.Available,
			ConflictReason: d.ConflictReason,
		}
	}
	return MonthDTO{
		Month: monthName(v.Month),
		Year:  year,
		Days:  dtos,
		Stats: MonthStatsDTO{
			Total:      v.Stats.Total,
			Assigned:   v.Stats.Assigned,
			Pending:    v.Stats.Pending,
			Conflicts:  v.Stats.Conflicts,
			Regular:    v.Stats.Regular,
			PreHoliday: v.Stats.PreHoliday,
			Holiday:    v.Stats.Holiday,
		},
	}
}

// =============================================================================
// ASSIGNMENT TYPES
// =============================================================================

// AssignRequest is the body of a manual assignment.
type AssignRequest struct {
	Person string `json:"person"`
	Force  bool   `json:"force,omitempty"`
}

// SelfAssignRequest is the body of a self-service claim.
type SelfAssignRequest struct {
	Person string `json:"person"`
}

// AssignmentDTO reports a committed assignment.
type AssignmentDTO struct {
	Month    string `json:"month"`
	Day      int    `json:"day"`
	Person   string `json:"person"`
	Previous string `json:"previous,omitempty"`
	Type     string `json:"type"`
	Forced   bool   `json:"forced,omitempty"`
}

func toAssignmentDTO(r *roster.AssignResult) AssignmentDTO {
	return AssignmentDTO{
		Month:    monthName(r.Month),
		Day:      r.Day,
		Person:   r.Person,
		Previous: r.Previous,
		Type:     string(r.Type),
		Forced:   r.Forced,
	}
}

// RemoveDTO reports a cleared day.
type RemoveDTO struct {
	Month  string `json:"month"`
	Day    int    `json:"day"`
	Person string `json:"person"`
}

// ResetDTO reports a cleared month.
type ResetDTO struct {
	Month   string   `json:"month"`
	Removed int      `json:"removed"`
	Persons []string `json:"persons"`
}

// ValidationDTO is the outcome of a dry-run assignment check.
type ValidationDTO struct {
	Valid  bool   `json:"valid"`
	Person string `json:"person"`
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// SuggestionDTO carries the engine's pick for a day.
type SuggestionDTO struct {
	Found  bool     `json:"found"`
	Person string   `json:"person,omitempty"`
	Date   string   `json:"date"`
	Active []string `json:"active_persons,omitempty"`
}

// =============================================================================
// AVAILABILITY TYPES
// =============================================================================

// AvailabilityRequest is the body of an availability update.
type AvailabilityRequest struct {
	Active bool   `json:"active"`
	Reason string `json:"reason,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// AvailabilityDTO is one person's availability state.
type AvailabilityDTO struct {
	Person       string `json:"person"`
	Rank         int    `json:"rank"`
	RegistryID   int    `json:"registry_id"`
	Active       bool   `json:"active"`
	AvailableNow bool   `json:"available_now"`
	Reason       string `json:"reason,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
}

func toAvailabilityDTOs(statuses map[string]roster.AvailabilityStatus) []AvailabilityDTO {
	dtos := make([]AvailabilityDTO, 0, len(statuses))
	for person, st := range statuses {
		dtos = append(dtos, AvailabilityDTO{
			Person:       person,
			Rank:         st.Rank,
			RegistryID:   st.RegistryID,
			Active:       st.Record.Active,
			AvailableNow: st.AvailableNow,
			Reason:       st.Record.Reason,
			From:         st.Record.From,
			To:           st.Record.To,
		})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Rank < dtos[j].Rank })
	return dtos
}

// PersonDTO is one roster member.
type PersonDTO struct {
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	RegistryID int    `json:"registry_id"`
}

// =============================================================================
// ALLOCATION TYPES
// =============================================================================

// TallyDTO is a per-person duty count breakdown.
type TallyDTO struct {
	Regular    int     `json:"regular"`
	PreHoliday int     `json:"pre_holiday"`
	Holiday    int     `json:"holiday"`
	Total      int     `json:"total"`
	Points     float64 `json:"points"`
}

func toTallyDTO(t roster.Tally) TallyDTO {
	return TallyDTO{
		Regular:    t.Regular,
		PreHoliday: t.PreHoliday,
		Holiday:    t.Holiday,
		Total:      t.Total,
		Points:     t.Points.InexactFloat64(),
	}
}

// EquityDTO summarizes the fairness of a plan.
type EquityDTO struct {
	MinPoints float64 `json:"min_points"`
	MaxPoints float64 `json:"max_points"`
	Spread    float64 `json:"spread"`
	Level     string  `json:"level"`
}

// FallbackDayDTO is a day assigned under relaxed availability.
type FallbackDayDTO struct {
	Day  int    `json:"day"`
	Date string `json:"date"`
	Type string `json:"type"`
}

// PlanDTO is an allocation plan (preview or committed).
type PlanDTO struct {
	ID           string              `json:"id"`
	Month        string              `json:"month"`
	Mode         string              `json:"mode"`
	Committed    bool                `json:"committed"`
	Assignments  map[int]string      `json:"assignments"`
	Filled       []int               `json:"filled"`
	Participants []string            `json:"participants"`
	Tallies      map[string]TallyDTO `json:"tallies"`
	Equity       EquityDTO           `json:"equity"`
	Fallbacks    []FallbackDayDTO    `json:"fallbacks,omitempty"`
	TotalPoints  float64             `json:"total_points"`
	IdealPoints  float64             `json:"ideal_points"`
}

func toPlanDTO(p *roster.AllocationPlan, committed bool) PlanDTO {
	tallies := make(map[string]TallyDTO, len(p.Tallies))
	for person, t := range p.Tallies {
		tallies[person] = toTallyDTO(t)
	}
	fallbacks := make([]FallbackDayDTO, len(p.Fallbacks))
	for i, f := range p.Fallbacks {
		fallbacks[i] = FallbackDayDTO{Day: f.Day, Date: f.Date, Type: string(f.Type)}
	}
	return PlanDTO{
		ID:           p.ID,
		Month:        monthName(p.Month),
		Mode:         string(p.Mode),
		Committed:    committed,
		Assignments:  p.Assignments,
		Filled:       p.Filled,
		Participants: p.Participants,
		Tallies:      tallies,
		Equity: EquityDTO{
			MinPoints: p.Equity.MinPoints.InexactFloat64(),
			MaxPoints: p.Equity.MaxPoints.InexactFloat64(),
			Spread:    p.Equity.Spread.InexactFloat64(),
			Level:     p.Equity.Level,
		},
		Fallbacks:   fallbacks,
		TotalPoints: p.TotalPoints.InexactFloat64(),
		IdealPoints: p.IdealPoints.InexactFloat64(),
	}
}

// =============================================================================
// QUOTA TYPES
// =============================================================================

// TallyDeltaDTO is the simulated extra duties for one person.
type TallyDeltaDTO struct {
	Regular    int `json:"regular"`
	PreHoliday int `json:"pre_holiday"`
	Holiday    int `json:"holiday"`
	Total      int `json:"total"`
}

// QuotaEntryDTO is one person's row of the quota preview.
type QuotaEntryDTO struct {
	Person    string        `json:"person"`
	Current   TallyDTO      `json:"current"`
	Suggested TallyDeltaDTO `json:"suggested"`
	Projected TallyDTO      `json:"projected"`
	Balance   string        `json:"balance"`
}

// UnassignableDTO collects days no one could cover in the simulation.
type UnassignableDTO struct {
	Tally TallyDTO         `json:"tally"`
	Days  []FallbackDayDTO `json:"days"`
}

// QuotaPreviewDTO is the full quota simulation response.
type QuotaPreviewDTO struct {
	Month        string           `json:"month"`
	TotalDays    int              `json:"total_days"`
	AssignedDays int              `json:"assigned_days"`
	PendingDays  int              `json:"pending_days"`
	Participants int              `json:"participants"`
	IdealDays    float64          `json:"ideal_days"`
	IdealPoints  float64          `json:"ideal_points"`
	Entries      []QuotaEntryDTO  `json:"entries"`
	Unassignable *UnassignableDTO `json:"unassignable,omitempty"`
}

func toQuotaPreviewDTO(q *roster.QuotaPreview) QuotaPreviewDTO {
	entries := make([]QuotaEntryDTO, 0, len(q.Entries))
	for _, person := range q.Participants {
		e, ok := q.Entries[person]
		if !ok {
			continue
		}
		entries = append(entries, QuotaEntryDTO{
			Person:  person,
			Current: toTallyDTO(e.Current),
			Suggested: TallyDeltaDTO{
				Regular:    e.Suggested.Regular,
				PreHoliday: e.Suggested.PreHoliday,
				Holiday:    e.Suggested.Holiday,
				Total:      e.Suggested.Total,
			},
			Projected: toTallyDTO(e.Projected),
			Balance:   e.Balance,
		})
	}
	dto := QuotaPreviewDTO{
		Month:        monthName(q.Month),
		TotalDays:    q.TotalDays,
		AssignedDays: q.AssignedDays,
		PendingDays:  q.PendingDays,
		Participants: len(q.Participants),
		IdealDays:    q.IdealDays.InexactFloat64(),
		IdealPoints:  q.IdealPoints.InexactFloat64(),
		Entries:      entries,
	}
	if q.Unassignable != nil {
		days := make([]FallbackDayDTO, len(q.Unassignable.Days))
		for i, d := range q.Unassignable.Days {
			days[i] = FallbackDayDTO{Day: d.Day, Date: d.Date, Type: string(d.Type)}
		}
		dto.Unassignable = &UnassignableDTO{
			Tally: toTallyDTO(q.Unassignable.Tally),
			Days:  days,
		}
	}
	return dto
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// DistributionRowDTO is one person's fairness row for a month.
type DistributionRowDTO struct {
	Person           string  `json:"person"`
	Active           bool    `json:"active"`
	MonthActual      int     `json:"month_actual"`
	MonthIdeal       float64 `json:"month_ideal"`
	CumulativeActual int     `json:"cumulative_actual"`
	CumulativeIdeal  float64 `json:"cumulative_ideal"`
	Diff             float64 `json:"diff"`
	Status           string  `json:"status"`
}

// DistributionMonthDTO is one month of the fairness report.
type DistributionMonthDTO struct {
	Month         string               `json:"month"`
	TotalDays     int                  `json:"total_days"`
	ActivePersons int                  `json:"active_persons"`
	IdealShare    float64              `json:"ideal_share"`
	Rows          []DistributionRowDTO `json:"rows"`
}

func toDistributionDTOs(report []roster.MonthDistribution, order roster.Roster) []DistributionMonthDTO {
	out := make([]DistributionMonthDTO, len(report))
	for i, md := range report {
		rows := make([]DistributionRowDTO, 0, len(md.Persons))
		for _, member := range order {
			p, ok := md.Persons[member.Name]
			if !ok {
				continue
			}
			rows = append(rows, DistributionRowDTO{
				Person:           member.Name,
				Active:           p.Active,
				MonthActual:      p.MonthActual,
				MonthIdeal:       p.MonthIdeal.InexactFloat64(),
				CumulativeActual: p.CumulativeActual,
				CumulativeIdeal:  p.CumulativeIdeal.InexactFloat64(),
				Diff:             p.Diff.InexactFloat64(),
				Status:           p.Status,
			})
		}
		out[i] = DistributionMonthDTO{
			Month:         monthName(md.Month),
			TotalDays:     md.TotalDays,
			ActivePersons: md.ActivePersons,
			IdealShare:    md.IdealShare.InexactFloat64(),
			Rows:          rows,
		}
	}
	return out
}

// PersonStatsDTO is the full-year view for one person.
type PersonStatsDTO struct {
	Person string                    `json:"person"`
	Active bool                      `json:"active"`
	Totals TallyDTO                  `json:"totals"`
	Months map[string]PersonMonthDTO `json:"months"`
}

// PersonMonthDTO is one month of a person's statistics.
type PersonMonthDTO struct {
	Tally TallyDTO       `json:"tally"`
	Days  []PersonDayDTO `json:"days"`
}

// PersonDayDTO is one assigned day in a person's statistics.
type PersonDayDTO struct {
	Day     int    `json:"day"`
	Date    string `json:"date"`
	Type    string `json:"type"`
	Weekday string `json:"weekday"`
}

func toPersonStatsDTO(st *roster.PersonYearStats) PersonStatsDTO {
	months := make(map[string]PersonMonthDTO, len(st.Months))
	for month, ms := range st.Months {
		days := make([]PersonDayDTO, len(ms.Days))
		for i, d := range ms.Days {
			days[i] = PersonDayDTO{
				Day:     d.Day,
				Date:    d.Date,
				Type:    string(d.Type),
				Weekday: d.Weekday.String(),
			}
		}
		months[monthName(month)] = PersonMonthDTO{Tally: toTallyDTO(ms.Tally), Days: days}
	}
	return PersonStatsDTO{
		Person: st.Person,
		Active: st.Active,
		Totals: toTallyDTO(st.Totals),
		Months: months,
	}
}

// AnnualMonthDTO is one month's coverage row.
type AnnualMonthDTO struct {
	Month    string `json:"month"`
	Total    int    `json:"total_days"`
	Assigned int    `json:"assigned"`
	Pending  int    `json:"pending"`
}

// AnnualPersonDTO is one person's yearly totals.
type AnnualPersonDTO struct {
	Person   string         `json:"person"`
	Total    int            `json:"total"`
	PerMonth map[string]int `json:"per_month"`
}

// AnnualReportDTO is the year-wide coverage report.
type AnnualReportDTO struct {
	Year         int               `json:"year"`
	TotalDays    int               `json:"total_days"`
	AssignedDays int               `json:"assigned_days"`
	PendingDays  int               `json:"pending_days"`
	Coverage     float64           `json:"coverage_pct"`
	Months       []AnnualMonthDTO  `json:"months"`
	Persons      []AnnualPersonDTO `json:"persons"`
}

func toAnnualReportDTO(year int, r *roster.AnnualReport, order roster.Roster) AnnualReportDTO {
	months := make([]AnnualMonthDTO, 0, len(r.Months))
	for _, m := range roster.AllMonths() {
		mc := r.Months[m]
		months = append(months, AnnualMonthDTO{
			Month:    monthName(m),
			Total:    mc.Total,
			Assigned: mc.Assigned,
			Pending:  mc.Pending,
		})
	}
	persons := make([]AnnualPersonDTO, 0, len(order))
	for _, p := range order {
		perMonth := make(map[string]int, len(r.PerPerson[p.Name]))
		for m, n := range r.PerPerson[p.Name] {
			perMonth[monthName(m)] = n
		}
		persons = append(persons, AnnualPersonDTO{
			Person:   p.Name,
			Total:    r.TotalsByName[p.Name],
			PerMonth: perMonth,
		})
	}
	return AnnualReportDTO{
		Year:         year,
		TotalDays:    r.TotalDays,
		AssignedDays: r.AssignedDays,
		PendingDays:  r.PendingDays,
		Coverage:     r.Coverage.InexactFloat64(),
		Months:       months,
		Persons:      persons,
	}
}

// =============================================================================
// HISTORY / INFO TYPES
// =============================================================================

// HistoryEventDTO is one audit trail entry.
type HistoryEventDTO struct {
	ID     string         `json:"id"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
	At     string         `json:"at"`
}

func toHistoryDTOs(events []roster.HistoryEvent) []HistoryEventDTO {
	dtos := make([]HistoryEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = HistoryEventDTO{
			ID:     ev.ID,
			Action: string(ev.Action),
			Fields: ev.Fields,
			At:     ev.At.Format(time.RFC3339),
		}
	}
	return dtos
}

// InfoDTO describes the configured engine.
type InfoDTO struct {
	Year       int      `json:"year"`
	RosterSize int      `json:"roster_size"`
	Active     int      `json:"active"`
	Inactive   int      `json:"inactive"`
	Persons    []string `json:"persons"`
	Weights    struct {
		Regular    float64 `json:"regular"`
		PreHoliday float64 `json:"pre_holiday"`
		Holiday    float64 `json:"holiday"`
	} `json:"weights"`
}
