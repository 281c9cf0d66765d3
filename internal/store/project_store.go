package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// PutProject inserts or replaces a project. An empty SortOrder is assigned
// one past the current numeric maximum among siblings.
func (s *SQLiteStore) PutProject(ctx context.Context, project model.Project) (model.Project, error) {
	if strings.TrimSpace(project.Name) == "" {
		return model.Project{}, fmt.Errorf("project name must not be empty")
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if project.Type == "" {
		project.Type = model.ProjectTypeDefault
	}
	if project.SortOrder == "" {
		project.SortOrder = strconv.Itoa(s.nextProjectSortOrder(ctx))
	}

	// Upsert via ON CONFLICT, not INSERT OR REPLACE: REPLACE deletes the
	// existing row first, and with foreign keys on that delete would
	// cascade away the project's checklist pages on every update.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (
			id, name, type, parent_id, sort_order,
			show_in_inbox, protected, use_suggestions, enable_qty_units,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			parent_id = excluded.parent_id,
			sort_order = excluded.sort_order,
			show_in_inbox = excluded.show_in_inbox,
			protected = excluded.protected,
			use_suggestions = excluded.use_suggestions,
			enable_qty_units = excluded.enable_qty_units,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		project.ID, project.Name, project.Type, project.ParentID, project.SortOrder,
		boolToInt(project.ShowInInbox), boolToInt(project.Protected),
		boolToInt(project.UseSuggestions), boolToInt(project.EnableQtyUnits),
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("putting project %s: %w", project.ID, err)
	}
	return project, nil
}

// nextProjectSortOrder returns one past the largest numeric sort key.
// Legacy string/date keys are ignored for the maximum.
func (s *SQLiteStore) nextProjectSortOrder(ctx context.Context) int {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, "SELECT sort_order FROM projects"); err != nil {
		return 1
	}
	max := 0
	for _, k := range keys {
		if n, err := strconv.Atoi(k); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}

// GetProject retrieves a single project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM projects WHERE id = ?", id)
	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &project, nil
}

// ListProjects returns all projects sorted by sort key. Sorting happens in
// Go so mixed numeric and legacy string keys compare sanely.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM projects")
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return model.CompareSortOrder(projects[i].SortOrder, projects[j].SortOrder) < 0
	})
	return projects, nil
}

// ListChildProjects returns the direct children of a project.
func (s *SQLiteStore) ListChildProjects(ctx context.Context, parentID string) ([]model.Project, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM projects WHERE parent_id = ?", parentID)
	if err != nil {
		return nil, fmt.Errorf("querying child projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project and, recursively, its descendants.
// Each deleted project's checklist pages go with it; owned todos are
// moved to the Inbox rather than destroyed. Protected projects refuse
// deletion anywhere in the subtree.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	ids, err := s.collectSubtree(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, pid := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET project_id = ?, page_id = NULL, updated_at = ? WHERE project_id = ?",
			InboxSentinel, now, pid); err != nil {
			return fmt.Errorf("moving todos of project %s to inbox: %w", pid, err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM checklist_pages WHERE project_id = ?", pid); err != nil {
			return fmt.Errorf("deleting pages of project %s: %w", pid, err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM projects WHERE id = ?", pid); err != nil {
			return fmt.Errorf("deleting project %s: %w", pid, err)
		}
	}

	return tx.Commit()
}

// collectSubtree walks the project tree from id and returns the subtree's
// ids leaves-first, validating protection along the way.
func (s *SQLiteStore) collectSubtree(ctx context.Context, id string) ([]string, error) {
	root, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if root.Protected {
		return nil, fmt.Errorf("deleting project %s: %w", id, ErrProtected)
	}

	children, err := s.ListChildProjects(ctx, id)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, child := range children {
		sub, err := s.collectSubtree(ctx, child.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub...)
	}
	return append(ids, id), nil
}

// scanProject scans one project row.
func scanProject(row interface{ Scan(dest ...interface{}) error }) (model.Project, error) {
	var (
		p              model.Project
		parentID       *string
		showInInboxInt int
		protectedInt   int
		suggestionsInt int
		qtyUnitsInt    int
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &parentID, &p.SortOrder,
		&showInInboxInt, &protectedInt, &suggestionsInt, &qtyUnitsInt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("scanning project row: %w", err)
	}

	p.ParentID = parentID
	p.ShowInInbox = showInInboxInt != 0
	p.Protected = protectedInt != 0
	p.UseSuggestions = suggestionsInt != 0
	p.EnableQtyUnits = qtyUnitsInt != 0
	return p, nil
}
