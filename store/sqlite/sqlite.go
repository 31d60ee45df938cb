/*
Package sqlite provides a SQLite-backed implementation of the roster stores.

PURPOSE:
  Implements roster.AssignmentStore, roster.AvailabilityStore and
  roster.HistorySink on a single SQLite database. The same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  assignments:  one row per assigned day, PRIMARY KEY (month, day)
  availability: one row per roster person
  history:      append-only audit trail, fields stored as JSON

WRITE MODEL:
  SetMonth replaces a month's rows inside one transaction (delete + insert),
  matching the engine's compute-then-replace commit model. There are no
  partial updates to a month.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/guardias.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definitions
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/centinela/guardia-engine/roster"
)

// Store implements all roster storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and sidesteps
	// SQLite's single-writer lock contention.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Assignments (one row per assigned day)
	CREATE TABLE IF NOT EXISTS assignments (
		month INTEGER NOT NULL,
		day INTEGER NOT NULL,
		person TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (month, day)
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_person
		ON assignments(person);

	-- Availability (one row per roster person)
	CREATE TABLE IF NOT EXISTS availability (
		person TEXT PRIMARY KEY,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		reason TEXT NOT NULL DEFAULT '',
		from_date TEXT NOT NULL DEFAULT '',
		to_date TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	-- History (append-only audit trail)
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		fields_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_created_at
		ON history(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_history_action
		ON history(action);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ASSIGNMENT STORE (roster.AssignmentStore interface)
// =============================================================================

// GetMonth returns the day -> person map for month.
func (s *Store) GetMonth(ctx context.Context, month time.Month) (map[int]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT day, person FROM assignments WHERE month = ?", int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	days := make(map[int]string)
	for rows.Next() {
		var day int
		var person string
		if err := rows.Scan(&day, &person); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		days[day] = person
	}
	return days, rows.Err()
}

// SetMonth replaces the whole month atomically.
func (s *Store) SetMonth(ctx context.Context, month time.Month, days map[int]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM assignments WHERE month = ?", int(month)); err != nil {
		return fmt.Errorf("failed to clear month: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for day, person := range days {
		if person == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO assignments (month, day, person, updated_at) VALUES (?, ?, ?, ?)",
			int(month), day, person, now); err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// AVAILABILITY STORE (roster.AvailabilityStore interface)
// =============================================================================

// GetAll returns every stored availability record keyed by person.
func (s *Store) GetAll(ctx context.Context) (map[string]roster.AvailabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT person, active, reason, from_date, to_date FROM availability")
	if err != nil {
		return nil, fmt.Errorf("failed to query availability: %w", err)
	}
	defer rows.Close()

	records := make(map[string]roster.AvailabilityRecord)
	for rows.Next() {
		var person string
		var rec roster.AvailabilityRecord
		if err := rows.Scan(&person, &rec.Active, &rec.Reason, &rec.From, &rec.To); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		records[person] = rec
	}
	return records, rows.Err()
}

// SetOne upserts a person's availability record.
func (s *Store) SetOne(ctx context.Context, person string, rec roster.AvailabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO availability (person, active, reason, from_date, to_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(person) DO UPDATE SET
			active = excluded.active,
			reason = excluded.reason,
			from_date = excluded.from_date,
			to_date = excluded.to_date,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		person, rec.Active, rec.Reason, rec.From, rec.To,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// HISTORY SINK (roster.HistorySink interface)
// =============================================================================

// Record appends a history event. Append-only.
func (s *Store) Record(ctx context.Context, ev roster.HistoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fieldsJSON, err := json.Marshal(ev.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode history fields: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO history (id, action, fields_json, created_at) VALUES (?, ?, ?, ?)",
		ev.ID, string(ev.Action), string(fieldsJSON), ev.At.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append history event: %w", err)
	}
	return nil
}

// Recent returns the newest history events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]roster.HistoryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, action, fields_json, created_at FROM history ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var events []roster.HistoryEvent
	for rows.Next() {
		var ev roster.HistoryEvent
		var action, fieldsJSON, createdAt string
		if err := rows.Scan(&ev.ID, &action, &fieldsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history event: %w", err)
		}
		ev.Action = roster.HistoryAction(action)
		if fieldsJSON != "" {
			if err := json.Unmarshal([]byte(fieldsJSON), &ev.Fields); err != nil {
				return nil, fmt.Errorf("failed to decode history fields for event %s: %w", ev.ID, err)
			}
		}
		if ev.At, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to decode history timestamp for event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
