package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/printscript/snippet-manager/internal/apperror"
	"github.com/printscript/snippet-manager/internal/model"
	"github.com/printscript/snippet-manager/internal/repository"
)

var _ repository.StatusRepository = (*DB)(nil)

// statusKey names a status row in error messages and NotFound ids.
func statusKey(snippetID, userEmail string) string {
	return snippetID + "/" + userEmail
}

// InsertStatus stores a new status row. The composite primary key on
// (snippet_id, user_email) rejects a second row for the same pair.
func (db *DB) InsertStatus(ctx context.Context, status *model.SnippetStatus) error {
	status.UpdatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO snippet_statuses (snippet_id, user_email, status, updated_at)
		 VALUES (?, ?, ?, ?)`,
		status.SnippetID,
		status.UserEmail,
		string(status.Status),
		status.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting status %s: %w", statusKey(status.SnippetID, status.UserEmail), err)
	}

	return nil
}

// UpdateStatus persists a changed review state for an existing row.
func (db *DB) UpdateStatus(ctx context.Context, status *model.SnippetStatus) error {
	status.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippet_statuses
		 SET status = ?, updated_at = ?
		 WHERE snippet_id = ? AND user_email = ?`,
		string(status.Status),
		status.UpdatedAt,
		status.SnippetID,
		status.UserEmail,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating status %s: %w", statusKey(status.SnippetID, status.UserEmail), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet status", statusKey(status.SnippetID, status.UserEmail))
	}

	return nil
}

// DeleteStatus removes a status row. Used by the create workflow as a
// compensating action when the blob write fails.
func (db *DB) DeleteStatus(ctx context.Context, snippetID, userEmail string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippet_statuses WHERE snippet_id = ? AND user_email = ?`,
		snippetID,
		userEmail,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting status %s: %w", statusKey(snippetID, userEmail), err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet status", statusKey(snippetID, userEmail))
	}

	return nil
}

// GetStatus retrieves the status row for a (snippet, user) pair.
// Returns apperror.ErrNotFound if the snippet was never shared with the user.
func (db *DB) GetStatus(ctx context.Context, snippetID, userEmail string) (*model.SnippetStatus, error) {
	var status model.SnippetStatus
	var raw string

	err := db.conn.QueryRowContext(ctx,
		`SELECT snippet_id, user_email, status, updated_at
		 FROM snippet_statuses
		 WHERE snippet_id = ? AND user_email = ?`,
		snippetID,
		userEmail,
	).Scan(
		&status.SnippetID,
		&status.UserEmail,
		&raw,
		&status.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet status", statusKey(snippetID, userEmail))
		}
		return nil, fmt.Errorf("sqlite: getting status %s: %w", statusKey(snippetID, userEmail), err)
	}

	status.Status = model.Status(raw)
	return &status, nil
}
