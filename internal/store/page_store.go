package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// PutChecklistPage inserts or replaces a checklist page. An empty Order
// slot is assigned one past the project's current maximum.
func (s *SQLiteStore) PutChecklistPage(ctx context.Context, page model.ChecklistPage) (model.ChecklistPage, error) {
	if page.ProjectID == "" {
		return model.ChecklistPage{}, fmt.Errorf("checklist page must reference a project")
	}
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = time.Now().UTC()
	}
	if page.Order == 0 {
		var maxOrder int
		_ = s.db.GetContext(ctx, &maxOrder,
			"SELECT COALESCE(MAX(sort_order), 0) FROM checklist_pages WHERE project_id = ?",
			page.ProjectID)
		page.Order = maxOrder + 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO checklist_pages (id, project_id, name, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		page.ID, page.ProjectID, page.Name, page.Order, page.CreatedAt,
	)
	if err != nil {
		return model.ChecklistPage{}, fmt.Errorf("putting checklist page %s: %w", page.ID, err)
	}
	return page, nil
}

// GetChecklistPage retrieves a single page by ID.
func (s *SQLiteStore) GetChecklistPage(ctx context.Context, id string) (*model.ChecklistPage, error) {
	var page model.ChecklistPage
	err := s.db.QueryRowxContext(ctx,
		"SELECT * FROM checklist_pages WHERE id = ?", id).
		Scan(&page.ID, &page.ProjectID, &page.Name, &page.Order, &page.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting checklist page %s: %w", id, err)
	}
	return &page, nil
}

// DeleteChecklistPage removes a page. Todos on the page stay in the
// project but lose their page placement.
func (s *SQLiteStore) DeleteChecklistPage(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET page_id = NULL WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("detaching todos from page %s: %w", id, err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM checklist_pages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist page %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("checklist page %s not found", id)
	}

	return tx.Commit()
}

// ListChecklistPages returns a project's pages in order.
func (s *SQLiteStore) ListChecklistPages(ctx context.Context, projectID string) ([]model.ChecklistPage, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM checklist_pages WHERE project_id = ? ORDER BY sort_order", projectID)
	if err != nil {
		return nil, fmt.Errorf("querying checklist pages: %w", err)
	}
	defer rows.Close()

	var pages []model.ChecklistPage
	for rows.Next() {
		var page model.ChecklistPage
		if err := rows.Scan(&page.ID, &page.ProjectID, &page.Name, &page.Order, &page.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning checklist page row: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}
