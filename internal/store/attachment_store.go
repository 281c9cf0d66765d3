package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// PutAttachment inserts an attachment. Blobs are immutable once written,
// so a replace only ever swaps the whole payload.
func (s *SQLiteStore) PutAttachment(ctx context.Context, a model.Attachment) (model.Attachment, error) {
	if a.TodoID == "" {
		return model.Attachment{}, fmt.Errorf("attachment must reference a todo")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO attachments (id, todo_id, name, type, blob, thumb, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TodoID, a.Name, a.Type, a.Blob, a.Thumb, a.CreatedAt,
	)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("putting attachment %s: %w", a.ID, err)
	}
	return a, nil
}

// GetAttachment retrieves a single attachment by ID.
func (s *SQLiteStore) GetAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM attachments WHERE id = ?", id)
	a, err := scanAttachment(row)
	if err != nil {
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return &a, nil
}

// DeleteAttachment removes an attachment by ID.
func (s *SQLiteStore) DeleteAttachment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM attachments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting attachment %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("attachment %s not found", id)
	}
	return nil
}

// ClearAttachments removes every attachment.
func (s *SQLiteStore) ClearAttachments(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM attachments"); err != nil {
		return fmt.Errorf("clearing attachments: %w", err)
	}
	return nil
}

// ListAttachments returns every attachment.
func (s *SQLiteStore) ListAttachments(ctx context.Context) ([]model.Attachment, error) {
	return s.queryAttachments(ctx, "SELECT * FROM attachments")
}

// ListAttachmentsForTodo returns a todo's attachments via the owning-todo
// index. The indexed field is never updated in place, so the index is
// safe to trust.
func (s *SQLiteStore) ListAttachmentsForTodo(ctx context.Context, todoID string) ([]model.Attachment, error) {
	return s.queryAttachments(ctx,
		"SELECT * FROM attachments WHERE todo_id = ?", todoID)
}

func (s *SQLiteStore) queryAttachments(ctx context.Context, query string, args ...interface{}) ([]model.Attachment, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// scanAttachment scans one attachment row.
func scanAttachment(row interface{ Scan(dest ...interface{}) error }) (model.Attachment, error) {
	var a model.Attachment
	err := row.Scan(&a.ID, &a.TodoID, &a.Name, &a.Type, &a.Blob, &a.Thumb, &a.CreatedAt)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("scanning attachment row: %w", err)
	}
	return a, nil
}
