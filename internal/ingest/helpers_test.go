package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyStore wraps the in-memory store and fails selected calls.
type flakyStore struct {
	*store.Memory

	failCreateAt int // 1-based CreateEntry call to fail; 0 disables
	creates      int
	failFind     error
	failAudit    error
	audits       int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Memory: store.NewMemory()}
}

func (s *flakyStore) CreateEntry(ctx context.Context, e store.NewEntry) (uuid.UUID, error) {
	s.creates++
	if s.failCreateAt != 0 && s.creates == s.failCreateAt {
		return uuid.Nil, errors.New("connection reset")
	}
	return s.Memory.CreateEntry(ctx, e)
}

func (s *flakyStore) FindCandidateEntries(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]store.Entry, error) {
	if s.failFind != nil {
		return nil, s.failFind
	}
	return s.Memory.FindCandidateEntries(ctx, ownerID, from, to)
}

func (s *flakyStore) WriteAuditRecord(ctx context.Context, rec store.AuditRecord) (uuid.UUID, error) {
	s.audits++
	if s.failAudit != nil {
		return uuid.Nil, s.failAudit
	}
	return s.Memory.WriteAuditRecord(ctx, rec)
}

// fakeArchiver records saves in memory.
type fakeArchiver struct {
	err   error
	saved []string
}

func (a *fakeArchiver) Save(_ context.Context, projectID, ownerID uuid.UUID, fileName string, _ []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	p := projectID.String() + "/" + ownerID.String() + "/" + fileName
	a.saved = append(a.saved, p)
	return p, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *recordingPublisher) Publish(subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, data)
	return p.err
}

func jsonl(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}
