package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

// CandidateFinder loads an owner's entries created within [from, to].
type CandidateFinder interface {
	FindCandidateEntries(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]store.Entry, error)
}

// Store is everything the importer needs from persistence.
type Store interface {
	CandidateFinder
	CreateEntry(ctx context.Context, e store.NewEntry) (uuid.UUID, error)
	UpdateEntryResponse(ctx context.Context, id uuid.UUID, response string) error
	GetEntry(ctx context.Context, id uuid.UUID) (*store.Entry, error)
	WriteAuditRecord(ctx context.Context, rec store.AuditRecord) (uuid.UUID, error)
	CountEntries(ctx context.Context, ownerID uuid.UUID, source string, hasResponse *bool) (int, error)
	ListAuditRecords(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]store.AuditRecord, error)
}

// Archiver keeps the original uploaded bytes and returns where they went.
type Archiver interface {
	Save(ctx context.Context, projectID, ownerID uuid.UUID, fileName string, content []byte) (string, error)
}

// Publisher emits import events. *hermes.Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// Request is a single transcript import.
type Request struct {
	OwnerID   uuid.UUID
	ProjectID uuid.UUID
	FileName  string
	Content   []byte
	SizeBytes int64 // defaults to len(Content)
}

// Outcome is the result of Import. Errors holds one message per pair that
// could not be processed.
type Outcome struct {
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Skipped      int       `json:"skipped"`
	Errors       []string  `json:"errors"`
	PairsFound   int       `json:"pairs_found"`
	LinesSkipped int       `json:"lines_skipped"`
	ArchivePath  string    `json:"archive_path"`
	AuditID      uuid.UUID `json:"audit_id"`
}

// Stats counts an owner's imported entries.
type Stats struct {
	Total           int `json:"total"`
	WithResponse    int `json:"with_response"`
	MissingResponse int `json:"missing_response"`
}
