/*
service.go - Orchestration over the store collaborators

PURPOSE:
  Wires the pure engine pieces (calendar, resolver, inventory, ledger,
  allocator, reporter) to the persisted stores and exposes the operations
  the transport layer calls 1:1.

CONCURRENCY:
  Each operation reads a snapshot, computes in memory, and (for committing
  operations) writes the result back as one atomic SetMonth. Committing
  calls against the same month are serialized with a per-month mutex;
  reads go straight to the last-committed snapshot.

HISTORY:
  Every state-changing operation emits a history event. Sink failures are
  logged at Warn and discarded; they never fail the operation.
*/
package roster

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the engine facade handed to the transport layer.
type Service struct {
	cal          *Calendar
	roster       Roster
	assignments  AssignmentStore
	availability AvailabilityStore
	history      HistorySink
	log          *zap.Logger

	mu         sync.Mutex // guards monthLocks
	monthLocks map[time.Month]*sync.Mutex
	availMu    sync.Mutex // serializes availability writes
}

// NewService builds a service around the injected configuration and stores.
func NewService(cal *Calendar, roster Roster, assignments AssignmentStore, availability AvailabilityStore, history HistorySink, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cal:          cal,
		roster:       roster,
		assignments:  assignments,
		availability: availability,
		history:      history,
		log:          log,
		monthLocks:   make(map[time.Month]*sync.Mutex),
	}
}

// Calendar exposes the injected calendar (year, day classification).
func (s *Service) Calendar() *Calendar { return s.cal }

// Roster exposes the injected roster.
func (s *Service) Roster() Roster { return s.roster }

func (s *Service) lockMonth(month time.Month) func() {
	s.mu.Lock()
	l, ok := s.monthLocks[month]
	if !ok {
		l = &sync.Mutex{}
		s.monthLocks[month] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// resolver builds a fresh availability resolver from the current store
// snapshot.
func (s *Service) resolver(ctx context.Context) (*Resolver, error) {
	records, err := s.availability.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewResolver(s.roster, records), nil
}

func (s *Service) snapshots(ctx context.Context, months []time.Month) (MonthSnapshots, error) {
	snaps := make(MonthSnapshots, len(months))
	for _, m := range months {
		days, err := s.assignments.GetMonth(ctx, m)
		if err != nil {
			return nil, err
		}
		snaps[m] = days
	}
	return snaps, nil
}

// record emits a history event; failures are logged and discarded.
func (s *Service) record(ctx context.Context, action HistoryAction, fields map[string]any) {
	ev := HistoryEvent{
		ID:     uuid.NewString(),
		Action: action,
		Fields: fields,
		At:     time.Now().UTC(),
	}
	if err := s.history.Record(ctx, ev); err != nil {
		s.log.Warn("history sink failed, event discarded",
			zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *Service) validDate(month time.Month, day int) (time.Time, error) {
	date, ok := s.cal.DateOf(month, day)
	if !ok {
		return time.Time{}, &InvalidInputError{Field: "day", Value: strconv.Itoa(day)}
	}
	return date, nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// MonthView is a month's inventory plus its summary stats.
type MonthView struct {
	Month time.Month
	Days  MonthInventory
	Stats MonthStats
}

// BuildMonth derives the full read model for month.
func (s *Service) BuildMonth(ctx context.Context, month time.Month) (*MonthView, error) {
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	assigned, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	inv := BuildMonth(s.cal, res, month, assigned)
	return &MonthView{Month: month, Days: inv, Stats: inv.Stats()}, nil
}

// ClassifyDay exposes the calendar classifier.
func (s *Service) ClassifyDay(month time.Month, day int) DayType {
	return s.cal.Classify(month, day)
}

// ActivePersons lists roster persons available on date ("" = general
// status), in roster order.
func (s *Service) ActivePersons(ctx context.Context, date string) ([]Person, error) {
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	return res.ActivePersons(date), nil
}

// AvailabilityStatus enriches a record with the derived general status.
type AvailabilityStatus struct {
	Record       AvailabilityRecord
	AvailableNow bool
	Rank         int
	RegistryID   int
}

// AvailabilityAll returns every roster person's record and current status.
// Persons with no stored record show the default (active) record.
func (s *Service) AvailabilityAll(ctx context.Context) (map[string]AvailabilityStatus, error) {
	records, err := s.availability.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	res := NewResolver(s.roster, records)
	out := make(map[string]AvailabilityStatus, len(s.roster))
	for _, p := range s.roster {
		rec, ok := records[p.Name]
		if !ok {
			rec = DefaultRecord()
		}
		out[p.Name] = AvailabilityStatus{
			Record:       rec,
			AvailableNow: res.IsAvailable(p.Name, ""),
			Rank:         p.Rank,
			RegistryID:   p.RegistryID,
		}
	}
	return out, nil
}

// SetAvailability replaces a person's availability record.
func (s *Service) SetAvailability(ctx context.Context, person string, rec AvailabilityRecord) error {
	if !s.roster.Contains(person) {
		return &NotFoundError{Kind: "person", Key: person}
	}
	s.availMu.Lock()
	defer s.availMu.Unlock()
	if err := s.availability.SetOne(ctx, person, rec); err != nil {
		return err
	}
	s.record(ctx, ActionAvailabilityChange, map[string]any{
		"person": person,
		"active": rec.Active,
		"reason": rec.Reason,
		"from":   rec.From,
		"to":     rec.To,
	})
	return nil
}

// ValidationResult is the outcome of a dry-run assignment check.
type ValidationResult struct {
	Valid  bool
	Person string
	Date   string
	Reason string
}

// ValidateAssignment checks whether person could be assigned on
// (month, day) without writing anything.
func (s *Service) ValidateAssignment(ctx context.Context, month time.Month, day int, person string) (*ValidationResult, error) {
	if !s.roster.Contains(person) {
		return nil, &NotFoundError{Kind: "person", Key: person}
	}
	date, err := s.validDate(month, day)
	if err != nil {
		return nil, err
	}
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	result := &ValidationResult{
		Person: person,
		Date:   date.Format(DateLayout),
		Valid:  res.IsAvailableOn(person, date),
	}
	if !result.Valid {
		result.Reason, _ = res.ReasonFor(person, result.Date)
	}
	return result, nil
}

// SuggestionResult carries a suggestion or, when none exists, the persons
// who were active on the date (always empty in that case by construction,
// kept for the transport to render a helpful message).
type SuggestionResult struct {
	Found  bool
	Person string
	Date   string
	Active []string
}

// Suggest picks the least-loaded available person for (month, day).
func (s *Service) Suggest(ctx context.Context, month time.Month, day int, excluding []string) (*SuggestionResult, error) {
	date, err := s.validDate(month, day)
	if err != nil {
		return nil, err
	}
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots(ctx, MonthsThrough(month))
	if err != nil {
		return nil, err
	}
	excl := make(map[string]bool, len(excluding))
	for _, n := range excluding {
		excl[n] = true
	}
	result := &SuggestionResult{Date: date.Format(DateLayout)}
	if p, ok := Suggest(s.cal, res, snaps, month, day, excl); ok {
		result.Found = true
		result.Person = p.Name
	} else {
		result.Active = res.ActiveNames(result.Date)
	}
	return result, nil
}

// =============================================================================
// ASSIGNMENT OPERATIONS
// =============================================================================

// AssignResult reports a committed single-day assignment.
type AssignResult struct {
	Month    time.Month
	Day      int
	Person   string
	Previous string
	Type     DayType
	Forced   bool
}

// Assign writes person onto (month, day). An availability conflict blocks
// the write unless force is set; a forced bypass is flagged on the result
// and recorded in history.
func (s *Service) Assign(ctx context.Context, month time.Month, day int, person string, force bool) (*AssignResult, error) {
	if !s.roster.Contains(person) {
		return nil, &NotFoundError{Kind: "person", Key: person}
	}
	date, err := s.validDate(month, day)
	if err != nil {
		return nil, err
	}
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	available := res.IsAvailableOn(person, date)
	if !available && !force {
		reason, _ := res.ReasonFor(person, date.Format(DateLayout))
		return nil, &AvailabilityConflictError{Person: person, Date: date.Format(DateLayout), Reason: reason}
	}

	unlock := s.lockMonth(month)
	defer unlock()

	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	next := copyDays(current)
	previous := next[day]
	next[day] = person
	if err := s.assignments.SetMonth(ctx, month, next); err != nil {
		return nil, err
	}

	forced := force && !available
	s.record(ctx, ActionAssign, map[string]any{
		"month":  month.String(),
		"day":    day,
		"before": previous,
		"after":  person,
		"forced": forced,
	})
	return &AssignResult{
		Month:    month,
		Day:      day,
		Person:   person,
		Previous: previous,
		Type:     s.cal.Classify(month, day),
		Forced:   forced,
	}, nil
}

// SelfAssign lets a person claim an open day. No force path: the person
// must be available and the day must be free.
func (s *Service) SelfAssign(ctx context.Context, month time.Month, day int, person string) (*AssignResult, error) {
	if !s.roster.Contains(person) {
		return nil, &NotFoundError{Kind: "person", Key: person}
	}
	date, err := s.validDate(month, day)
	if err != nil {
		return nil, err
	}
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	if !res.IsAvailableOn(person, date) {
		reason, _ := res.ReasonFor(person, date.Format(DateLayout))
		return nil, &AvailabilityConflictError{Person: person, Date: date.Format(DateLayout), Reason: reason}
	}

	unlock := s.lockMonth(month)
	defer unlock()

	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if occupant := current[day]; occupant != "" {
		return nil, ErrDayOccupied
	}
	next := copyDays(current)
	next[day] = person
	if err := s.assignments.SetMonth(ctx, month, next); err != nil {
		return nil, err
	}

	s.record(ctx, ActionSelfAssign, map[string]any{
		"month":  month.String(),
		"day":    day,
		"person": person,
		"date":   date.Format(DateLayout),
	})
	return &AssignResult{
		Month:  month,
		Day:    day,
		Person: person,
		Type:   s.cal.Classify(month, day),
	}, nil
}

// RemoveResult reports a cleared assignment.
type RemoveResult struct {
	Month  time.Month
	Day    int
	Person string
}

// Remove clears the assignment on (month, day).
func (s *Service) Remove(ctx context.Context, month time.Month, day int) (*RemoveResult, error) {
	if _, err := s.validDate(month, day); err != nil {
		return nil, err
	}

	unlock := s.lockMonth(month)
	defer unlock()

	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	previous := current[day]
	if previous == "" {
		return nil, ErrDayUnassigned
	}
	next := copyDays(current)
	delete(next, day)
	if err := s.assignments.SetMonth(ctx, month, next); err != nil {
		return nil, err
	}

	s.record(ctx, ActionRemove, map[string]any{
		"month":  month.String(),
		"day":    day,
		"person": previous,
	})
	return &RemoveResult{Month: month, Day: day, Person: previous}, nil
}

// ResetResult reports a cleared month.
type ResetResult struct {
	Month   time.Month
	Removed int
	Persons []string
}

// ResetMonth clears every assignment in month.
func (s *Service) ResetMonth(ctx context.Context, month time.Month) (*ResetResult, error) {
	unlock := s.lockMonth(month)
	defer unlock()

	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	affected := map[string]bool{}
	for _, person := range current {
		if person != "" {
			affected[person] = true
		}
	}
	if err := s.assignments.SetMonth(ctx, month, map[int]string{}); err != nil {
		return nil, err
	}

	persons := make([]string, 0, len(affected))
	for p := range affected {
		persons = append(persons, p)
	}
	sort.Strings(persons)

	s.record(ctx, ActionResetMonth, map[string]any{
		"month":   month.String(),
		"removed": len(current),
		"persons": persons,
	})
	return &ResetResult{Month: month, Removed: len(current), Persons: persons}, nil
}

// =============================================================================
// ALLOCATION OPERATIONS
// =============================================================================

// AllocateMonth runs a full reallocation of month. With commit, the plan's
// assignments replace the month atomically; otherwise the plan is a
// preview and nothing is written.
func (s *Service) AllocateMonth(ctx context.Context, month time.Month, commit bool) (*AllocationPlan, error) {
	return s.runAllocation(ctx, month, commit, ModeFull)
}

// FillPending assigns only the unassigned days of month, balanced against
// the existing assignments. Same commit semantics as AllocateMonth.
func (s *Service) FillPending(ctx context.Context, month time.Month, commit bool) (*AllocationPlan, error) {
	return s.runAllocation(ctx, month, commit, ModeFillPending)
}

func (s *Service) runAllocation(ctx context.Context, month time.Month, commit bool, mode AllocationMode) (*AllocationPlan, error) {
	if commit {
		unlock := s.lockMonth(month)
		defer unlock()
	}

	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	var plan *AllocationPlan
	if mode == ModeFull {
		plan, err = AllocateMonth(s.cal, res, month, current)
	} else {
		plan, err = FillPending(s.cal, res, month, current)
	}
	if err != nil {
		return nil, err
	}

	if commit {
		if err := s.assignments.SetMonth(ctx, month, plan.Assignments); err != nil {
			return nil, err
		}
		action := ActionAllocateMonth
		if mode == ModeFillPending {
			action = ActionFillPending
		}
		s.record(ctx, action, map[string]any{
			"month":        month.String(),
			"plan_id":      plan.ID,
			"filled":       len(plan.Filled),
			"participants": plan.Participants,
			"spread":       plan.Equity.Spread.InexactFloat64(),
			"fallbacks":    len(plan.Fallbacks),
		})
	}
	return plan, nil
}

// Quotas simulates a full reallocation of month without committing and
// diffs it against the current assignments.
func (s *Service) Quotas(ctx context.Context, month time.Month) (*QuotaPreview, error) {
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.assignments.GetMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return SimulateQuotas(s.cal, res, month, current)
}

// =============================================================================
// REPORTING OPERATIONS
// =============================================================================

// Distribution computes the fairness report. With month set, only that
// month's breakdown is returned (still cumulative from January).
func (s *Service) Distribution(ctx context.Context, month *time.Month, activeOnly bool) ([]MonthDistribution, error) {
	res, err := s.resolver(ctx)
	months := AllMonths()
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots(ctx, months)
	if err != nil {
		return nil, err
	}
	report := Distribution(s.cal, res, snaps, months, activeOnly)
	if month == nil {
		return report, nil
	}
	for _, md := range report {
		if md.Month == *month {
			return []MonthDistribution{md}, nil
		}
	}
	return nil, &NotFoundError{Kind: "month", Key: month.String()}
}

// PersonDayStat is one assigned day in a person's statistics.
type PersonDayStat struct {
	Day     int
	Date    string
	Type    DayType
	Weekday time.Weekday
}

// PersonMonthStats is one month of a person's statistics.
type PersonMonthStats struct {
	Tally Tally
	Days  []PersonDayStat
}

// PersonYearStats is the full-year view for one person.
type PersonYearStats struct {
	Person string
	Active bool
	Totals Tally
	Months map[time.Month]PersonMonthStats
}

// PersonStats aggregates one person's assignments across the year.
func (s *Service) PersonStats(ctx context.Context, person string) (*PersonYearStats, error) {
	if !s.roster.Contains(person) {
		return nil, &NotFoundError{Kind: "person", Key: person}
	}
	res, err := s.resolver(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots(ctx, AllMonths())
	if err != nil {
		return nil, err
	}

	stats := &PersonYearStats{
		Person: person,
		Active: res.IsAvailable(person, ""),
		Totals: NewTally(),
		Months: map[time.Month]PersonMonthStats{},
	}
	for _, month := range AllMonths() {
		ms := PersonMonthStats{Tally: NewTally()}
		days := make([]int, 0)
		for day, assignee := range snaps[month] {
			if assignee == person {
				days = append(days, day)
			}
		}
		sort.Ints(days)
		for _, day := range days {
			typ := s.cal.Classify(month, day)
			date, _ := s.cal.DateOf(month, day)
			ms.Tally.Add(typ)
			stats.Totals.Add(typ)
			ms.Days = append(ms.Days, PersonDayStat{
				Day:     day,
				Date:    date.Format(DateLayout),
				Type:    typ,
				Weekday: date.Weekday(),
			})
		}
		if ms.Tally.Total > 0 {
			stats.Months[month] = ms
		}
	}
	return stats, nil
}

// MonthCoverage is one month's row of the annual report.
type MonthCoverage struct {
	Total    int
	Assigned int
	Pending  int
}

// AnnualReport summarizes coverage across the whole year.
type AnnualReport struct {
	TotalDays    int
	AssignedDays int
	PendingDays  int
	Coverage     decimal.Decimal // percentage, 0..100
	Months       map[time.Month]MonthCoverage
	PerPerson    map[string]map[time.Month]int
	TotalsByName map[string]int
}

// Annual computes the year-wide coverage report.
func (s *Service) Annual(ctx context.Context) (*AnnualReport, error) {
	snaps, err := s.snapshots(ctx, AllMonths())
	if err != nil {
		return nil, err
	}
	report := &AnnualReport{
		Months:       map[time.Month]MonthCoverage{},
		PerPerson:    map[string]map[time.Month]int{},
		TotalsByName: map[string]int{},
	}
	for _, month := range AllMonths() {
		total := s.cal.DaysIn(month)
		assigned := 0
		for _, person := range snaps[month] {
			if person == "" {
				continue
			}
			assigned++
			if report.PerPerson[person] == nil {
				report.PerPerson[person] = map[time.Month]int{}
			}
			report.PerPerson[person][month]++
			report.TotalsByName[person]++
		}
		report.Months[month] = MonthCoverage{Total: total, Assigned: assigned, Pending: total - assigned}
		report.TotalDays += total
		report.AssignedDays += assigned
	}
	report.PendingDays = report.TotalDays - report.AssignedDays
	report.Coverage = decimal.Zero
	if report.TotalDays > 0 {
		report.Coverage = decimal.NewFromInt(int64(report.AssignedDays)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(report.TotalDays))).
			Round(1)
	}
	return report, nil
}

// History returns the most recent history events, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]HistoryEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.history.Recent(ctx, limit)
}

func copyDays(days map[int]string) map[int]string {
	next := make(map[int]string, len(days)+1)
	for d, p := range days {
		next[d] = p
	}
	return next
}
