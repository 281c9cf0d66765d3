package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// PutVoiceMemo inserts or replaces a voice memo.
func (s *SQLiteStore) PutVoiceMemo(ctx context.Context, memo model.VoiceMemo) (model.VoiceMemo, error) {
	if memo.ID == "" {
		memo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if memo.CreatedAt.IsZero() {
		memo.CreatedAt = now
	}
	memo.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO voice_memos (
			id, title, project_id, show_in_inbox, blob, duration, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		memo.ID, memo.Title, memo.ProjectID, boolToInt(memo.ShowInInbox),
		memo.Blob, memo.Duration, memo.CreatedAt, memo.UpdatedAt,
	)
	if err != nil {
		return model.VoiceMemo{}, fmt.Errorf("putting voice memo %s: %w", memo.ID, err)
	}
	return memo, nil
}

// GetVoiceMemo retrieves a single voice memo by ID.
func (s *SQLiteStore) GetVoiceMemo(ctx context.Context, id string) (*model.VoiceMemo, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM voice_memos WHERE id = ?", id)
	memo, err := scanVoiceMemo(row)
	if err != nil {
		return nil, fmt.Errorf("getting voice memo %s: %w", id, err)
	}
	return &memo, nil
}

// DeleteVoiceMemo removes a voice memo by ID.
func (s *SQLiteStore) DeleteVoiceMemo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM voice_memos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting voice memo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("voice memo %s not found", id)
	}
	return nil
}

// ListVoiceMemos returns every voice memo, newest first.
func (s *SQLiteStore) ListVoiceMemos(ctx context.Context) ([]model.VoiceMemo, error) {
	return s.queryVoiceMemos(ctx,
		"SELECT * FROM voice_memos ORDER BY created_at DESC")
}

// ListVoiceMemosByProject returns the voice memos of one project.
func (s *SQLiteStore) ListVoiceMemosByProject(ctx context.Context, projectID string) ([]model.VoiceMemo, error) {
	return s.queryVoiceMemos(ctx,
		"SELECT * FROM voice_memos WHERE project_id = ? ORDER BY created_at DESC", projectID)
}

// ListVoiceMemosForInbox returns memos that belong in the Inbox: those
// without a project plus those flagged to surface there.
func (s *SQLiteStore) ListVoiceMemosForInbox(ctx context.Context) ([]model.VoiceMemo, error) {
	return s.queryVoiceMemos(ctx,
		"SELECT * FROM voice_memos WHERE project_id IS NULL OR show_in_inbox = 1 ORDER BY created_at DESC")
}

func (s *SQLiteStore) queryVoiceMemos(ctx context.Context, query string, args ...interface{}) ([]model.VoiceMemo, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying voice memos: %w", err)
	}
	defer rows.Close()

	var memos []model.VoiceMemo
	for rows.Next() {
		memo, err := scanVoiceMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}
	return memos, rows.Err()
}

// scanVoiceMemo scans one voice memo row.
func scanVoiceMemo(row interface{ Scan(dest ...interface{}) error }) (model.VoiceMemo, error) {
	var (
		memo           model.VoiceMemo
		projectID      *string
		showInInboxInt int
	)

	err := row.Scan(
		&memo.ID, &memo.Title, &projectID, &showInInboxInt,
		&memo.Blob, &memo.Duration, &memo.CreatedAt, &memo.UpdatedAt,
	)
	if err != nil {
		return model.VoiceMemo{}, fmt.Errorf("scanning voice memo row: %w", err)
	}

	memo.ProjectID = projectID
	memo.ShowInInbox = showInInboxInt != 0
	return memo, nil
}
