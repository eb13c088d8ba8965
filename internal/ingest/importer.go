package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/hermes"
	"github.com/MikeSquared-Agency/promptvault/internal/observability"
	"github.com/MikeSquared-Agency/promptvault/internal/store"
	"github.com/MikeSquared-Agency/promptvault/internal/transcript"
)

var ErrInvalidRequest = errors.New("invalid import request")

type pairResult int

const (
	pairCreated pairResult = iota
	pairUpdated
	pairSkipped
)

// Importer runs transcript imports.
type Importer struct {
	store     Store
	archiver  Archiver
	resolver  *Resolver
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// New creates an importer. publisher and metrics may be nil.
func New(s Store, a Archiver, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Importer {
	return &Importer{
		store:     s,
		archiver:  a,
		resolver:  NewResolver(s),
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Import archives the transcript, rebuilds its prompt/reply pairs and stores
// each one unless it was already imported. Failures on individual pairs are
// collected in Outcome.Errors. Archive and audit failures abort the call; an
// audit failure happens after the pairs have been written and does not undo them.
func (im *Importer) Import(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()

	if err := validate(req); err != nil {
		return nil, err
	}
	if req.SizeBytes == 0 {
		req.SizeBytes = int64(len(req.Content))
	}

	log := im.logger.With("owner", req.OwnerID, "project", req.ProjectID, "file", req.FileName)

	archivePath, err := im.archiver.Save(ctx, req.ProjectID, req.OwnerID, req.FileName, req.Content)
	if err != nil {
		im.observeFailure(start)
		return nil, fmt.Errorf("archive transcript: %w", err)
	}

	parsed := transcript.Parse(req.Content)
	for _, s := range parsed.Skipped {
		log.Debug("skipped transcript line", "line", s.Line, "reason", s.Reason)
	}
	pairs := transcript.ExtractPairs(parsed.Records)

	log.Info("importing transcript",
		"records", len(parsed.Records),
		"lines_skipped", len(parsed.Skipped),
		"pairs", len(pairs),
		"archive_path", archivePath,
	)

	out := &Outcome{
		Errors:       []string{},
		PairsFound:   len(pairs),
		LinesSkipped: len(parsed.Skipped),
		ArchivePath:  archivePath,
	}

	for i, p := range pairs {
		res, err := im.importPair(ctx, req, p)
		if err != nil {
			log.Warn("pair import failed", "pair", i+1, "source_id", p.SourceID, "error", err)
			out.Errors = append(out.Errors, fmt.Sprintf("pair %d (source %s): %v", i+1, p.SourceID, err))
			continue
		}
		switch res {
		case pairCreated:
			out.Created++
		case pairUpdated:
			out.Updated++
		case pairSkipped:
			out.Skipped++
		}
	}

	auditID, err := im.store.WriteAuditRecord(ctx, store.AuditRecord{
		OwnerID:       req.OwnerID,
		ProjectID:     req.ProjectID,
		FileName:      req.FileName,
		FileSizeBytes: req.SizeBytes,
		ArchivePath:   archivePath,
		Created:       out.Created,
		Updated:       out.Updated,
		Skipped:       out.Skipped,
		ErrorCount:    len(out.Errors),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		log.Error("import audit write failed after entries were stored",
			"created", out.Created,
			"updated", out.Updated,
			"error", err,
		)
		im.observeFailure(start)
		return nil, fmt.Errorf("write import audit: %w", err)
	}
	out.AuditID = auditID

	status := "ok"
	if len(out.Errors) > 0 {
		status = "partial"
	}
	if im.metrics != nil {
		im.metrics.ObserveImport(status, out.Created, out.Updated, out.Skipped, len(out.Errors), out.LinesSkipped, time.Since(start))
	}
	im.publishCompleted(req, out)

	log.Info("transcript imported",
		"status", status,
		"created", out.Created,
		"updated", out.Updated,
		"skipped", out.Skipped,
		"errors", len(out.Errors),
		"audit_id", auditID,
	)
	return out, nil
}

func (im *Importer) importPair(ctx context.Context, req Request, p transcript.Pair) (pairResult, error) {
	existing, err := im.resolver.Find(ctx, req.OwnerID, transcript.Normalize(p.Prompt), p.OccurredAt)
	if err != nil {
		return 0, fmt.Errorf("find existing entry: %w", err)
	}

	if existing == nil {
		_, err := im.store.CreateEntry(ctx, store.NewEntry{
			OwnerID:   req.OwnerID,
			ProjectID: req.ProjectID,
			Content:   p.Prompt,
			Response:  p.Reply,
			Source:    store.SourceTranscriptImport,
			SourceRef: p.SourceID,
			CreatedAt: p.OccurredAt,
		})
		if err != nil {
			return 0, fmt.Errorf("create entry: %w", err)
		}
		return pairCreated, nil
	}

	if existing.Response != nil {
		return pairSkipped, nil
	}

	if err := im.store.UpdateEntryResponse(ctx, existing.ID, p.Reply); err != nil {
		return 0, fmt.Errorf("update entry %s: %w", existing.ID, err)
	}
	return pairUpdated, nil
}

func (im *Importer) publishCompleted(req Request, out *Outcome) {
	if im.publisher == nil {
		return
	}
	evt := hermes.ImportCompleted{
		AuditID:     out.AuditID.String(),
		OwnerID:     req.OwnerID.String(),
		ProjectID:   req.ProjectID.String(),
		FileName:    req.FileName,
		ArchivePath: out.ArchivePath,
		Created:     out.Created,
		Updated:     out.Updated,
		Skipped:     out.Skipped,
		Errors:      len(out.Errors),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := im.publisher.Publish(hermes.SubjectImportCompleted, evt); err != nil {
		im.logger.Warn("failed to publish import completed", "audit_id", out.AuditID, "error", err)
	}
}

func (im *Importer) observeFailure(start time.Time) {
	if im.metrics != nil {
		im.metrics.Imports.WithLabelValues("failed").Inc()
		im.metrics.ImportDuration.Observe(float64(time.Since(start).Milliseconds()))
	}
}

func validate(req Request) error {
	switch {
	case req.OwnerID == uuid.Nil:
		return fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	case req.ProjectID == uuid.Nil:
		return fmt.Errorf("%w: project is required", ErrInvalidRequest)
	case req.FileName == "":
		return fmt.Errorf("%w: file name is required", ErrInvalidRequest)
	}
	return nil
}
