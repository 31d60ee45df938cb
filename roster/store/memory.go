// Package store provides store implementations for the roster engine.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/centinela/guardia-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements roster.AssignmentStore, roster.AvailabilityStore and
// roster.HistorySink in process memory. All reads return copies.
type Memory struct {
	mu           sync.RWMutex
	assignments  map[time.Month]map[int]string
	availability map[string]roster.AvailabilityRecord
	history      []roster.HistoryEvent // newest first
}

func NewMemory() *Memory {
	return &Memory{
		assignments:  make(map[time.Month]map[int]string),
		availability: make(map[string]roster.AvailabilityRecord),
	}
}

func (m *Memory) GetMonth(_ context.Context, month time.Month) (map[int]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[int]string, len(m.assignments[month]))
	for day, person := range m.assignments[month] {
		out[day] = person
	}
	return out, nil
}

func (m *Memory) SetMonth(_ context.Context, month time.Month, days map[int]string) error {
	next := make(map[int]string, len(days))
	for day, person := range days {
		if person == "" {
			continue
		}
		next[day] = person
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[month] = next
	return nil
}

func (m *Memory) GetAll(_ context.Context) (map[string]roster.AvailabilityRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]roster.AvailabilityRecord, len(m.availability))
	for person, rec := range m.availability {
		out[person] = rec
	}
	return out, nil
}

func (m *Memory) SetOne(_ context.Context, person string, rec roster.AvailabilityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.availability[person] = rec
	return nil
}

func (m *Memory) Record(_ context.Context, ev roster.HistoryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append([]roster.HistoryEvent{ev}, m.history...)
	return nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]roster.HistoryEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]roster.HistoryEvent, limit)
	copy(out, m.history[:limit])
	return out, nil
}
