package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the Postgres-backed entry and import-audit store.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prompt_entries (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			project_id UUID NOT NULL,
			content TEXT NOT NULL,
			response TEXT,
			source TEXT NOT NULL DEFAULT 'manual',
			source_ref TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_entries_owner_created ON prompt_entries (owner_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_entries_owner_source ON prompt_entries (owner_id, source);`,
		`CREATE TABLE IF NOT EXISTS import_audits (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			project_id UUID NOT NULL,
			file_name TEXT NOT NULL,
			file_size_bytes BIGINT NOT NULL,
			archive_path TEXT NOT NULL,
			created_count INT NOT NULL,
			updated_count INT NOT NULL,
			skipped_count INT NOT NULL,
			error_count INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_import_audits_owner_created ON import_audits (owner_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}
