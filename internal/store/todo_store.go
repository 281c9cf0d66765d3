package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ptran/checkmate/internal/model"
)

// projectToDB converts the public nil-means-inbox representation to the
// persisted sentinel. Every write path goes through this.
func projectToDB(projectID *string) string {
	if projectID == nil || *projectID == "" {
		return InboxSentinel
	}
	return *projectID
}

// projectFromDB converts a persisted project reference back to the public
// representation. NULL is tolerated for rows the sentinel migration never
// reached.
func projectFromDB(projectID *string) *string {
	if projectID == nil || *projectID == "" || *projectID == InboxSentinel {
		return nil
	}
	return projectID
}

// PutTodo inserts or replaces a todo. An empty ID gets a fresh UUID, a
// zero CreatedAt is stamped, and UpdatedAt is always set to now. The
// stored value is returned.
func (s *SQLiteStore) PutTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if strings.TrimSpace(todo.Title) == "" {
		return model.Todo{}, fmt.Errorf("todo title must not be empty")
	}
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.UpdatedAt = now
	if todo.Priority == "" {
		todo.Priority = model.PriorityP2
	}

	details, err := json.Marshal(todo.RecurrenceDetails)
	if err != nil {
		return model.Todo{}, fmt.Errorf("marshaling recurrence details for todo %s: %w", todo.ID, err)
	}

	// Upsert via ON CONFLICT, not INSERT OR REPLACE: REPLACE deletes the
	// existing row first, and with foreign keys on that delete would
	// cascade away the todo's attachments on every update.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO todos (
			id, title, notes, priority, due_date,
			completed, completed_at, project_id,
			archived, archived_at, archived_from_project_id,
			show_in_inbox, sort_order, protected,
			recurrence_type, recurrence_details, recurrence_end_type,
			recurrence_end_value, recurrence_count,
			series_id, is_recurring_instance, page_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			notes = excluded.notes,
			priority = excluded.priority,
			due_date = excluded.due_date,
			completed = excluded.completed,
			completed_at = excluded.completed_at,
			project_id = excluded.project_id,
			archived = excluded.archived,
			archived_at = excluded.archived_at,
			archived_from_project_id = excluded.archived_from_project_id,
			show_in_inbox = excluded.show_in_inbox,
			sort_order = excluded.sort_order,
			protected = excluded.protected,
			recurrence_type = excluded.recurrence_type,
			recurrence_details = excluded.recurrence_details,
			recurrence_end_type = excluded.recurrence_end_type,
			recurrence_end_value = excluded.recurrence_end_value,
			recurrence_count = excluded.recurrence_count,
			series_id = excluded.series_id,
			is_recurring_instance = excluded.is_recurring_instance,
			page_id = excluded.page_id,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		todo.ID, todo.Title, todo.Notes, todo.Priority, todo.DueDate,
		boolToInt(todo.Completed), todo.CompletedAt, projectToDB(todo.ProjectID),
		boolToInt(todo.Archived), todo.ArchivedAt, todo.ArchivedFromProjectID,
		boolToInt(todo.ShowInInbox), todo.Order, boolToInt(todo.Protected),
		todo.RecurrenceType, string(details), todo.RecurrenceEndType,
		todo.RecurrenceEndValue, todo.RecurrenceCount,
		todo.SeriesID, boolToInt(todo.IsRecurringInstance), todo.PageID,
		todo.CreatedAt, todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("putting todo %s: %w", todo.ID, err)
	}
	return todo, nil
}

// GetTodo retrieves a single todo by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*model.Todo, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM todos WHERE id = ?", id)
	todo, err := scanTodo(row)
	if err != nil {
		return nil, fmt.Errorf("getting todo %s: %w", id, err)
	}
	return &todo, nil
}

// DeleteTodo removes a todo and its attachments in one transaction.
// Protected todos refuse deletion.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	todo, err := s.GetTodo(ctx, id)
	if err != nil {
		return err
	}
	if todo.Protected {
		return fmt.Errorf("deleting todo %s: %w", id, ErrProtected)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM attachments WHERE todo_id = ?", id); err != nil {
		return fmt.Errorf("deleting attachments of todo %s: %w", id, err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("todo %s not found", id)
	}

	return tx.Commit()
}

// ListActiveTodos returns every non-archived todo.
func (s *SQLiteStore) ListActiveTodos(ctx context.Context) ([]model.Todo, error) {
	return s.queryTodos(ctx, "SELECT * FROM todos WHERE archived = 0")
}

// ListArchivedTodos returns every archived todo.
func (s *SQLiteStore) ListArchivedTodos(ctx context.Context) ([]model.Todo, error) {
	return s.queryTodos(ctx, "SELECT * FROM todos WHERE archived = 1")
}

// ListTodosByProject returns the non-archived todos of one project.
// A nil projectID selects the Inbox.
func (s *SQLiteStore) ListTodosByProject(ctx context.Context, projectID *string) ([]model.Todo, error) {
	return s.queryTodos(ctx,
		"SELECT * FROM todos WHERE archived = 0 AND project_id = ?",
		projectToDB(projectID))
}

// ListTodosBySeries returns every todo sharing a recurrence series id.
func (s *SQLiteStore) ListTodosBySeries(ctx context.Context, seriesID string) ([]model.Todo, error) {
	return s.queryTodos(ctx,
		"SELECT * FROM todos WHERE series_id = ?", seriesID)
}

func (s *SQLiteStore) queryTodos(ctx context.Context, query string, args ...interface{}) ([]model.Todo, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	var todos []model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// scanTodo scans one todo row, translating the inbox sentinel back to nil.
func scanTodo(row interface{ Scan(dest ...interface{}) error }) (model.Todo, error) {
	var (
		todo           model.Todo
		dueDate        *time.Time
		completedAt    *time.Time
		archivedAt     *time.Time
		projectID      *string
		archivedFrom   *string
		pageID         *string
		completedInt   int
		archivedInt    int
		showInInboxInt int
		protectedInt   int
		recInstanceInt int
		detailsJSON    string
	)

	err := row.Scan(
		&todo.ID, &todo.Title, &todo.Notes, &todo.Priority, &dueDate,
		&completedInt, &completedAt, &projectID,
		&archivedInt, &archivedAt, &archivedFrom,
		&showInInboxInt, &todo.Order, &protectedInt,
		&todo.RecurrenceType, &detailsJSON, &todo.RecurrenceEndType,
		&todo.RecurrenceEndValue, &todo.RecurrenceCount,
		&todo.SeriesID, &recInstanceInt, &pageID,
		&todo.CreatedAt, &todo.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}

	todo.DueDate = dueDate
	todo.CompletedAt = completedAt
	todo.ArchivedAt = archivedAt
	todo.ProjectID = projectFromDB(projectID)
	todo.ArchivedFromProjectID = projectFromDB(archivedFrom)
	todo.PageID = pageID
	todo.Completed = completedInt != 0
	todo.Archived = archivedInt != 0
	todo.ShowInInbox = showInInboxInt != 0
	todo.Protected = protectedInt != 0
	todo.IsRecurringInstance = recInstanceInt != 0

	if detailsJSON != "" {
		if err := json.Unmarshal([]byte(detailsJSON), &todo.RecurrenceDetails); err != nil {
			return model.Todo{}, fmt.Errorf("unmarshaling recurrence details: %w", err)
		}
	}

	return todo, nil
}
