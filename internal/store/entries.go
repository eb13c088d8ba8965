package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `id, owner_id, project_id, content, response, source, source_ref, created_at`

// FindCandidateEntries returns the owner's entries created within [from, to],
// oldest first.
func (s *Store) FindCandidateEntries(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM prompt_entries
		WHERE owner_id = $1 AND created_at BETWEEN $2 AND $3
		ORDER BY created_at, id`,
		ownerID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query candidate entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

// CreateEntry inserts an entry and returns its ID.
func (s *Store) CreateEntry(ctx context.Context, e NewEntry) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO prompt_entries (id, owner_id, project_id, content, response, source, source_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, e.OwnerID, e.ProjectID, e.Content, e.Response, e.Source, e.SourceRef, e.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// UpdateEntryResponse sets the response of an entry, leaving everything else untouched.
func (s *Store) UpdateEntryResponse(ctx context.Context, id uuid.UUID, response string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE prompt_entries SET response = $1 WHERE id = $2`, response, id)
	if err != nil {
		return fmt.Errorf("update entry response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetEntry fetches an entry by ID.
func (s *Store) GetEntry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM prompt_entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CountEntries counts the owner's entries with the given source. A non-nil
// hasResponse restricts the count to entries with or without a response.
func (s *Store) CountEntries(ctx context.Context, ownerID uuid.UUID, source string, hasResponse *bool) (int, error) {
	query := `SELECT count(*) FROM prompt_entries WHERE owner_id = $1 AND source = $2`
	if hasResponse != nil {
		if *hasResponse {
			query += ` AND response IS NOT NULL`
		} else {
			query += ` AND response IS NULL`
		}
	}

	var n int
	if err := s.pool.QueryRow(ctx, query, ownerID, source).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.OwnerID, &e.ProjectID, &e.Content, &e.Response, &e.Source, &e.SourceRef, &e.CreatedAt)
	return e, err
}
