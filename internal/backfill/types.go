package backfill

import (
	"time"

	"github.com/google/uuid"
)

// Config holds the backfill command configuration.
type Config struct {
	Dir        string    // directory walked for *.jsonl transcripts
	SingleFile string    // process a single file only
	OwnerID    uuid.UUID // owner every imported entry is scoped to
	ProjectID  uuid.UUID
	Since      time.Time // skip files last modified before this; zero disables
	DryRun     bool      // parse and count pairs without storing anything
	StatePath  string    // resumable progress file
}

// FileSummary is the per-file result of a run.
type FileSummary struct {
	Path         string
	PairsFound   int
	Created      int
	Updated      int
	Skipped      int
	Errors       int
	LinesSkipped int
}
