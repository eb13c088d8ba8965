package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SourceTranscriptImport marks entries created by the transcript importer.
const SourceTranscriptImport = "transcript_import"

var ErrNotFound = errors.New("not found")

// Entry is a stored prompt. A nil Response means it is still awaiting a reply.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Content   string    `json:"content"`
	Response  *string   `json:"response"`
	Source    string    `json:"source"`
	SourceRef string    `json:"source_ref"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry holds the fields for CreateEntry.
type NewEntry struct {
	OwnerID   uuid.UUID
	ProjectID uuid.UUID
	Content   string
	Response  string
	Source    string
	SourceRef string
	CreatedAt time.Time
}

// AuditRecord summarises one import call.
type AuditRecord struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	ProjectID     uuid.UUID `json:"project_id"`
	FileName      string    `json:"file_name"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	ArchivePath   string    `json:"archive_path"`
	Created       int       `json:"created"`
	Updated       int       `json:"updated"`
	Skipped       int       `json:"skipped"`
	ErrorCount    int       `json:"error_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func withAuditDefaults(rec AuditRecord) AuditRecord {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}
