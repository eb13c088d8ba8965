package backfill

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/promptvault/internal/archive"
	"github.com/MikeSquared-Agency/promptvault/internal/ingest"
)

// Importer is the part of the ingest engine a backfill drives.
type Importer interface {
	Import(ctx context.Context, req ingest.Request) (*ingest.Outcome, error)
}

// Runner imports every transcript under a directory, one file at a time.
type Runner struct {
	cfg      Config
	importer Importer
	logger   *slog.Logger
}

// NewRunner creates a backfill runner.
func NewRunner(cfg Config, im Importer, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		importer: im,
		logger:   logger,
	}
}

// Run imports all pending files. Files already listed in the state file are
// skipped, so an interrupted run picks up where it stopped. A file that fails
// to import is recorded in the state and left pending for the next run.
func (r *Runner) Run(ctx context.Context) ([]FileSummary, error) {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	var pending []string
	for _, path := range files {
		if !state.IsProcessed(path) {
			pending = append(pending, path)
		}
	}
	state.FilesRemaining = len(pending)

	r.logger.Info("files discovered",
		"total", len(files),
		"pending", len(pending),
		"dry_run", r.cfg.DryRun,
	)

	var summaries []FileSummary
	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		sum, err := r.processFile(ctx, path)
		if err != nil {
			r.logger.Warn("backfill file failed", "path", path, "error", err)
			state.AddError(fmt.Sprintf("%s: %v", path, err))
		} else {
			summaries = append(summaries, sum)
			if !r.cfg.DryRun {
				state.MarkProcessed(path)
				state.PairsCreated += sum.Created
				state.PairsUpdated += sum.Updated
				state.PairsSkipped += sum.Skipped
			}
		}
		state.FilesRemaining--

		if r.cfg.DryRun {
			continue
		}
		if err := state.Save(); err != nil {
			return summaries, fmt.Errorf("save state: %w", err)
		}
	}

	r.logger.Info("backfill complete",
		"files", len(summaries),
		"created", state.PairsCreated,
		"updated", state.PairsUpdated,
		"skipped", state.PairsSkipped,
		"errors", len(state.Errors),
	)
	return summaries, nil
}

func (r *Runner) processFile(ctx context.Context, path string) (FileSummary, error) {
	sum := FileSummary{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return sum, fmt.Errorf("read: %w", err)
	}

	if r.cfg.DryRun {
		p := ingest.Preview(content)
		sum.PairsFound = len(p.Pairs)
		sum.LinesSkipped = len(p.SkippedLines)
		r.logger.Info("dry run", "path", path, "pairs", sum.PairsFound, "lines_skipped", sum.LinesSkipped)
		return sum, nil
	}

	out, err := r.importer.Import(ctx, ingest.Request{
		OwnerID:   r.cfg.OwnerID,
		ProjectID: r.cfg.ProjectID,
		FileName:  filepath.Base(path),
		Content:   content,
	})
	if err != nil {
		return sum, err
	}

	sum.PairsFound = out.PairsFound
	sum.Created = out.Created
	sum.Updated = out.Updated
	sum.Skipped = out.Skipped
	sum.Errors = len(out.Errors)
	sum.LinesSkipped = out.LinesSkipped

	r.logger.Info("file imported",
		"path", path,
		"created", out.Created,
		"updated", out.Updated,
		"skipped", out.Skipped,
		"errors", len(out.Errors),
	)
	return sum, nil
}

// discoverFiles returns the transcripts to consider, sorted by path.
func (r *Runner) discoverFiles() ([]string, error) {
	if r.cfg.SingleFile != "" {
		path := archive.ExpandHome(r.cfg.SingleFile)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("single file not found: %s", path)
		}
		return []string{path}, nil
	}

	dir := archive.ExpandHome(r.cfg.Dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		if !r.cfg.Since.IsZero() {
			fi, err := d.Info()
			if err != nil || fi.ModTime().Before(r.cfg.Since) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
