package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// PutBinEntry stores a soft-delete snapshot. Retention and purge policy
// live in the lifecycle engine, not here.
func (s *SQLiteStore) PutBinEntry(ctx context.Context, entry model.BinEntry) (model.BinEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.DeletedAt.IsZero() {
		entry.DeletedAt = time.Now().UTC()
	}
	if len(entry.Item) == 0 {
		entry.Item = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bin (id, kind, item, deleted_at)
		VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Kind, string(entry.Item), entry.DeletedAt,
	)
	if err != nil {
		return model.BinEntry{}, fmt.Errorf("putting bin entry %s: %w", entry.ID, err)
	}
	return entry, nil
}

// GetBinEntry retrieves a single bin entry by ID.
func (s *SQLiteStore) GetBinEntry(ctx context.Context, id string) (*model.BinEntry, error) {
	var (
		entry model.BinEntry
		item  string
	)
	err := s.db.QueryRowxContext(ctx, "SELECT * FROM bin WHERE id = ?", id).
		Scan(&entry.ID, &entry.Kind, &item, &entry.DeletedAt)
	if err != nil {
		return nil, fmt.Errorf("getting bin entry %s: %w", id, err)
	}
	entry.Item = []byte(item)
	return &entry, nil
}

// DeleteBinEntry removes a bin entry by ID.
func (s *SQLiteStore) DeleteBinEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM bin WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting bin entry %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("bin entry %s not found", id)
	}
	return nil
}

// ListBin returns every bin entry, oldest first.
func (s *SQLiteStore) ListBin(ctx context.Context) ([]model.BinEntry, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM bin ORDER BY deleted_at")
	if err != nil {
		return nil, fmt.Errorf("querying bin: %w", err)
	}
	defer rows.Close()

	var entries []model.BinEntry
	for rows.Next() {
		var (
			entry model.BinEntry
			item  string
		)
		if err := rows.Scan(&entry.ID, &entry.Kind, &item, &entry.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning bin row: %w", err)
		}
		entry.Item = []byte(item)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
