/*
store.go - Persistence interfaces for the external collaborators

PURPOSE:
  Defines the contracts between the engine and its three external
  collaborators: the assignment store, the availability store, and the
  history sink. The engine is format-agnostic over these operations.

DISCIPLINE:
  Committing operations follow read full snapshot -> compute -> write full
  replacement. SetMonth is an atomic replace: concurrent readers either see
  the previous month mapping or the new one, never a partial write. The
  Service serializes committing calls per month on top of this.

HISTORY:
  The history sink is fire-and-forget. A failing sink never fails the
  operation that triggered it; the Service logs and discards the error.

IMPLEMENTATIONS:
  - store/sqlite: production store, all three interfaces
  - roster/store: in-memory store for tests and dev
*/
package roster

import (
	"context"
	"time"
)

// AssignmentStore persists the day -> person mapping per month.
type AssignmentStore interface {
	// GetMonth returns the current mapping for month. Days with no
	// assignment are absent from the map.
	GetMonth(ctx context.Context, month time.Month) (map[int]string, error)

	// SetMonth atomically replaces the entire mapping for month.
	SetMonth(ctx context.Context, month time.Month, days map[int]string) error
}

// AvailabilityStore persists one AvailabilityRecord per person.
type AvailabilityStore interface {
	GetAll(ctx context.Context) (map[string]AvailabilityRecord, error)
	SetOne(ctx context.Context, person string, rec AvailabilityRecord) error
}

// =============================================================================
// HISTORY - Append-only audit trail of state-changing operations
// =============================================================================

type HistoryAction string

const (
	ActionAssign             HistoryAction = "assign"
	ActionSelfAssign         HistoryAction = "self_assign"
	ActionRemove             HistoryAction = "remove"
	ActionResetMonth         HistoryAction = "reset_month"
	ActionAllocateMonth      HistoryAction = "allocate_month"
	ActionFillPending        HistoryAction = "fill_pending"
	ActionAvailabilityChange HistoryAction = "availability_change"
)

// HistoryEvent records one state-changing operation.
type HistoryEvent struct {
	ID     string
	Action HistoryAction
	Fields map[string]any
	At     time.Time
}

// HistorySink receives history events. Failures must be tolerated by
// callers; the sink is never consulted for decisions.
type HistorySink interface {
	Record(ctx context.Context, ev HistoryEvent) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]HistoryEvent, error)
}
