package database

import (
	"context"
	"database/sql"
	"fmt"

	"todoscan/internal/models"
)

// ExportRepository persists scan snapshots.
type ExportRepository struct {
	db *sql.DB
}

// NewExportRepository creates a repository over an open export database.
func NewExportRepository(db *sql.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// SaveScan writes one scan and all its entries in a single transaction and
// returns the new scan ID.
func (r *ExportRepository) SaveScan(ctx context.Context, result *models.ScanResult) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (root, files_scanned, files_skipped) VALUES (?, ?, ?)`,
		result.Root, result.FilesScanned, result.FilesSkipped)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (scan_id, file_path, start_line, end_line, task, priority, due, assignee, done)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range result.Entries {
		var due sql.NullString
		if e.Due != nil {
			due = sql.NullString{String: e.DueString(), Valid: true}
		}
		var assignee sql.NullString
		if e.Assignee != "" {
			assignee = sql.NullString{String: e.Assignee, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			scanID, e.FilePath, e.StartLine, e.EndLine,
			e.Task, e.Priority.String(), due, assignee, e.Done); err != nil {
			return 0, fmt.Errorf("failed to insert entry %s: %w", e.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return scanID, nil
}

// CountEntries returns the number of entries stored for a scan.
func (r *ExportRepository) CountEntries(ctx context.Context, scanID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE scan_id = ?`, scanID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// LatestScanID returns the most recent scan ID, or 0 when none exist.
func (r *ExportRepository) LatestScanID(ctx context.Context) (int64, error) {
	var id sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM scans`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to query latest scan: %w", err)
	}
	if !id.Valid {
		return 0, nil
	}
	return id.Int64, nil
}
