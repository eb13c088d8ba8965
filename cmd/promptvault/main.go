package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/MikeSquared-Agency/promptvault/internal/api"
	"github.com/MikeSquared-Agency/promptvault/internal/archive"
	"github.com/MikeSquared-Agency/promptvault/internal/backfill"
	"github.com/MikeSquared-Agency/promptvault/internal/config"
	"github.com/MikeSquared-Agency/promptvault/internal/hermes"
	"github.com/MikeSquared-Agency/promptvault/internal/ingest"
	"github.com/MikeSquared-Agency/promptvault/internal/observability"
	"github.com/MikeSquared-Agency/promptvault/internal/processor"
	"github.com/MikeSquared-Agency/promptvault/internal/store"
)

type closableStore interface {
	ingest.Store
	Close()
}

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	app := &cli.App{
		Name:   "promptvault",
		Usage:  "Transcript ingestion for the prompt vault",
		Action: func(c *cli.Context) error { return serve(c.Context, cfg) },
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and NATS consumer",
				Action: func(c *cli.Context) error { return serve(c.Context, cfg) },
			},
			{
				Name:   "backfill",
				Usage:  "Import every transcript under a directory",
				Action: func(c *cli.Context) error { return runBackfill(c, cfg) },
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory to walk for *.jsonl transcripts",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Import a single transcript instead of a directory",
					},
					&cli.StringFlag{
						Name:     "owner",
						Usage:    "Owner UUID the entries belong to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "project",
						Usage:    "Project UUID the transcripts were uploaded to",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:   "since",
						Usage:  "Skip files last modified before this time (RFC3339)",
						Layout: time.RFC3339,
					},
					&cli.StringFlag{
						Name:  "state",
						Usage: "Path to the resumable state file",
						Value: backfill.DefaultStatePath,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Count pairs without writing anything",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("promptvault failed", "error", err)
		os.Exit(1)
	}
}

func serve(parent context.Context, cfg config.Config) error {
	slog.Info("promptvault starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	arch := archive.New(cfg.ArchiveDir)
	slog.Info("archive ready", "root", arch.Root())

	// NATS/Hermes (optional)
	var publisher ingest.Publisher
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		c, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer c.Close()
		hermesClient = c
		publisher = c
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without events")
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	importer := ingest.New(db, arch, publisher, metrics, slog.Default())

	if hermesClient != nil {
		proc := processor.New(importer, slog.Default())
		if err := hermesClient.Subscribe(hermes.SubjectTranscriptUploaded, proc.HandleTranscriptUploaded); err != nil {
			return fmt.Errorf("subscribe to transcript uploads: %w", err)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.APIToken, importer, cfg.MaxUploadBytes)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("promptvault ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}
	slog.Info("promptvault stopped")
	return nil
}

func runBackfill(c *cli.Context, cfg config.Config) error {
	owner, err := uuid.Parse(c.String("owner"))
	if err != nil {
		return fmt.Errorf("invalid --owner: %w", err)
	}
	project, err := uuid.Parse(c.String("project"))
	if err != nil {
		return fmt.Errorf("invalid --project: %w", err)
	}
	if c.String("dir") == "" && c.String("file") == "" {
		return errors.New("one of --dir or --file is required")
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	bcfg := backfill.Config{
		Dir:        c.String("dir"),
		SingleFile: c.String("file"),
		OwnerID:    owner,
		ProjectID:  project,
		DryRun:     c.Bool("dry-run"),
		StatePath:  c.String("state"),
	}
	if since := c.Timestamp("since"); since != nil {
		bcfg.Since = *since
	}

	importer := ingest.New(db, archive.New(cfg.ArchiveDir), nil, nil, slog.Default())
	_, err = backfill.NewRunner(bcfg, importer, slog.Default()).Run(ctx)
	return err
}

func openStore(ctx context.Context, cfg config.Config) (closableStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory store")
		return store.NewMemory(), nil
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	slog.Info("database connected")
	return db, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
