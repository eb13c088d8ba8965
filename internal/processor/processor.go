package processor

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/promptvault/internal/hermes"
	"github.com/MikeSquared-Agency/promptvault/internal/ingest"
)

// Importer runs a transcript import.
type Importer interface {
	Import(ctx context.Context, req ingest.Request) (*ingest.Outcome, error)
}

// Processor imports transcripts delivered over NATS.
type Processor struct {
	importer Importer
	logger   *slog.Logger
}

func New(im Importer, logger *slog.Logger) *Processor {
	return &Processor{importer: im, logger: logger}
}

// HandleTranscriptUploaded is the NATS handler for promptvault.transcript.uploaded.
// Results are reported by the importer's completion event; failures here are
// only logged because there is no caller to return them to.
func (p *Processor) HandleTranscriptUploaded(subject string, data []byte) {
	ctx := context.Background()

	var evt hermes.TranscriptUploaded
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse transcript upload event", "subject", subject, "error", err)
		return
	}

	ownerID, err := uuid.Parse(evt.OwnerID)
	if err != nil {
		p.logger.Error("invalid owner id", "owner_id", evt.OwnerID, "error", err)
		return
	}
	projectID, err := uuid.Parse(evt.ProjectID)
	if err != nil {
		p.logger.Error("invalid project id", "project_id", evt.ProjectID, "error", err)
		return
	}

	p.logger.Info("processing uploaded transcript",
		"owner", ownerID,
		"project", projectID,
		"file", evt.FileName,
		"bytes", len(evt.Content),
	)

	out, err := p.importer.Import(ctx, ingest.Request{
		OwnerID:   ownerID,
		ProjectID: projectID,
		FileName:  evt.FileName,
		Content:   evt.Content,
	})
	if err != nil {
		p.logger.Error("transcript import failed", "file", evt.FileName, "error", err)
		return
	}

	p.logger.Info("uploaded transcript processed",
		"file", evt.FileName,
		"created", out.Created,
		"updated", out.Updated,
		"skipped", out.Skipped,
		"errors", len(out.Errors),
	)
}
