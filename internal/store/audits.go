package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// WriteAuditRecord persists an import audit record. ID and CreatedAt are
// assigned when zero.
func (s *Store) WriteAuditRecord(ctx context.Context, rec AuditRecord) (uuid.UUID, error) {
	rec = withAuditDefaults(rec)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_audits (id, owner_id, project_id, file_name, file_size_bytes, archive_path,
			created_count, updated_count, skipped_count, error_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.OwnerID, rec.ProjectID, rec.FileName, rec.FileSizeBytes, rec.ArchivePath,
		rec.Created, rec.Updated, rec.Skipped, rec.ErrorCount, rec.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert import audit: %w", err)
	}
	return rec.ID, nil
}

// ListAuditRecords returns the owner's import audits, most recent first,
// optionally restricted to one project.
func (s *Store) ListAuditRecords(ctx context.Context, ownerID uuid.UUID, projectID *uuid.UUID) ([]AuditRecord, error) {
	query := `
		SELECT id, owner_id, project_id, file_name, file_size_bytes, archive_path,
			created_count, updated_count, skipped_count, error_count, created_at
		FROM import_audits
		WHERE owner_id = $1`
	args := []any{ownerID}
	if projectID != nil {
		query += ` AND project_id = $2`
		args = append(args, *projectID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import audits: %w", err)
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var r AuditRecord
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.ProjectID, &r.FileName, &r.FileSizeBytes, &r.ArchivePath,
			&r.Created, &r.Updated, &r.Skipped, &r.ErrorCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import audit: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
