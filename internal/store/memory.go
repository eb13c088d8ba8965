package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process store with the same behaviour as Store, for local
// development and tests.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
	audits  []AuditRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) FindCandidateEntries(_ context.Context, ownerID uuid.UUID, from, to time.Time) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, e := range m.entries {
		if e.OwnerID != ownerID || e.CreatedAt.Before(from) || e.CreatedAt.After(to) {
			continue
		}
		out = append(out, copyEntry(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) CreateEntry(_ context.Context, e NewEntry) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp := e.Response
	entry := Entry{
		ID:        uuid.New(),
		OwnerID:   e.OwnerID,
		ProjectID: e.ProjectID,
		Content:   e.Content,
		Response:  &resp,
		Source:    e.Source,
		SourceRef: e.SourceRef,
		CreatedAt: e.CreatedAt,
	}
	m.entries = append(m.entries, entry)
	return entry.ID, nil
}

// AddEntry stores e as-is, e.g. a manually authored prompt awaiting a reply.
func (m *Memory) AddEntry(e Entry) Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Source == "" {
		e.Source = "manual"
	}
	m.entries = append(m.entries, copyEntry(e))
	return e
}

func (m *Memory) UpdateEntryResponse(_ context.Context, id uuid.UUID, response string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].ID == id {
			resp := response
			m.entries[i].Response = &resp
			return nil
		}
	}
	return fmt.Errorf("update entry %s: %w", id, ErrNotFound)
}

func (m *Memory) GetEntry(_ context.Context, id uuid.UUID) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.ID == id {
			c := copyEntry(e)
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountEntries(_ context.Context, ownerID uuid.UUID, source string, hasResponse *bool) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, e := range m.entries {
		if e.OwnerID != ownerID || e.Source != source {
			continue
		}
		if hasResponse != nil && (e.Response != nil) != *hasResponse {
			continue
		}
		n++
	}
	return n, nil
}

func (m *Memory) WriteAuditRecord(_ context.Context, rec AuditRecord) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec = withAuditDefaults(rec)
	m.audits = append(m.audits, rec)
	return rec.ID, nil
}

func (m *Memory) ListAuditRecords(_ context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]AuditRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AuditRecord
	// Walk backwards so records written in the same instant stay newest first.
	for i := len(m.audits) - 1; i >= 0; i-- {
		r := m.audits[i]
		if r.OwnerID != ownerID {
			continue
		}
		if projectID != nil && r.ProjectID != *projectID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Entries returns a snapshot of every stored entry in insertion order.
func (m *Memory) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = copyEntry(e)
	}
	return out
}

func (m *Memory) Close() {}

func copyEntry(e Entry) Entry {
	if e.Response != nil {
		r := *e.Response
		e.Response = &r
	}
	return e
}
