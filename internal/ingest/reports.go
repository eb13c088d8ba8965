package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

// Stats counts the owner's imported entries, split by whether they have a response.
func (im *Importer) Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error) {
	yes, no := true, false

	with, err := im.store.CountEntries(ctx, ownerID, store.SourceTranscriptImport, &yes)
	if err != nil {
		return Stats{}, fmt.Errorf("count answered entries: %w", err)
	}
	without, err := im.store.CountEntries(ctx, ownerID, store.SourceTranscriptImport, &no)
	if err != nil {
		return Stats{}, fmt.Errorf("count unanswered entries: %w", err)
	}

	return Stats{
		Total:           with + without,
		WithResponse:    with,
		MissingResponse: without,
	}, nil
}

// Entry returns one of the owner's entries. Entries owned by someone else
// are reported as store.ErrNotFound.
func (im *Importer) Entry(ctx context.Context, ownerID, id uuid.UUID) (*store.Entry, error) {
	e, err := im.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return e, nil
}

// History lists the owner's import audits, most recent first. A non-nil
// projectID restricts it to that project.
func (im *Importer) History(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]store.AuditRecord, error) {
	recs, err := im.store.ListAuditRecords(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list import audits: %w", err)
	}
	if recs == nil {
		recs = []store.AuditRecord{}
	}
	return recs, nil
}
