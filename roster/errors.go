/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The transport layer maps these onto HTTP statuses via the Is* helpers.

ERROR CATEGORIES:
  1. Input errors       - unknown person/month, out-of-range day, bad dates
  2. Allocation errors  - no eligible person exists for a month
  3. Assignment errors  - availability conflicts, occupied/unassigned days

PROPAGATION:
  Every error carries enough structure to render a specific message.
  Nothing is silently swallowed except HistorySink failures, which the
  Service logs and discards.
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed or out-of-range input,
	// rejected before any computation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoEligiblePersons is returned by the allocator when the active set
	// for a month is empty. This is the allocator's only hard failure.
	ErrNoEligiblePersons = errors.New("no eligible persons")

	// ErrAvailabilityConflict is returned when an assignment targets a person
	// unavailable on that date and force was not set.
	ErrAvailabilityConflict = errors.New("person not available")

	// ErrNotFound is returned when a referenced person, month or day entry
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDayOccupied is returned by self-assignment when the day already has
	// an occupant.
	ErrDayOccupied = errors.New("day already assigned")

	// ErrDayUnassigned is returned when removing a day that has no assignment.
	ErrDayUnassigned = errors.New("day has no assignment")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError identifies which field was invalid.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// AvailabilityConflictError reports why an assignment was blocked.
type AvailabilityConflictError struct {
	Person string
	Date   string
	Reason string
}

func (e *AvailabilityConflictError) Error() string {
	return fmt.Sprintf("%s is not available on %s: %s", e.Person, e.Date, e.Reason)
}

func (e *AvailabilityConflictError) Unwrap() error { return ErrAvailabilityConflict }

// NotFoundError identifies the missing entity.
type NotFoundError struct {
	Kind string // "person", "month", "day"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDayOccupied) ||
		errors.Is(err, ErrDayUnassigned) ||
		errors.Is(err, ErrNoEligiblePersons)
}

// IsConflict returns true if the error indicates that the day's current
// state blocks the operation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAvailabilityConflict) ||
		errors.Is(err, ErrDayOccupied) ||
		errors.Is(err, ErrDayUnassigned)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
