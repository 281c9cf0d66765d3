// Package order implements the manual+priority ordering shared by every
// todo listing: priority rank first, then the manual rank within the
// (project, priority) bucket, then creation time.
package order

import (
	"context"
	"sort"

	"github.com/ptran/checkmate/internal/model"
)

// Repository is the slice of the store the engine needs. The engine never
// touches the database directly.
type Repository interface {
	ListTodosByProject(ctx context.Context, projectID *string) ([]model.Todo, error)
	PutTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
}

// Compare orders two todos: priority rank ascending (urgent first), then
// manual order, then creation time, then id so the order is total.
func Compare(a, b *model.Todo) int {
	ra, rb := model.PriorityRank(a.Priority), model.PriorityRank(b.Priority)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if a.Order != b.Order {
		if a.Order < b.Order {
			return -1
		}
		return 1
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// Sort sorts todos in place using Compare.
func Sort(todos []model.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return Compare(&todos[i], &todos[j]) < 0
	})
}

// MaxOrderFor returns the maximum manual order among todos of the given
// priority, or -1 if the bucket is empty. Callers pass a collection
// already filtered to one project.
func MaxOrderFor(todos []model.Todo, priority string) int {
	max := -1
	for i := range todos {
		if todos[i].Priority == priority && todos[i].Order > max {
			max = todos[i].Order
		}
	}
	return max
}

// Engine assigns bucket-relative manual orders through the repository.
type Engine struct {
	repo Repository
}

// NewEngine returns an ordering engine over the given repository.
func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// PlaceAtEnd returns the todo moved to the destination project with its
// manual order set one past the destination bucket's current maximum.
// The caller persists the result. Used by move, restore, create, and
// priority-change flows so items land at the visual end of the bucket.
func (e *Engine) PlaceAtEnd(ctx context.Context, todo model.Todo, projectID *string) (model.Todo, error) {
	bucket, err := e.repo.ListTodosByProject(ctx, projectID)
	if err != nil {
		return model.Todo{}, err
	}
	todo.ProjectID = projectID
	todo.Order = MaxOrderFor(bucket, todo.Priority) + 1
	return todo, nil
}

// ReorderBucket writes order = index for a user-produced drag order over
// one (project, priority) bucket, normalizing ranks to 0..n-1. Ids that
// do not belong to the bucket are skipped; stale UI state must not
// corrupt other buckets. Todos whose rank is unchanged are not rewritten.
func (e *Engine) ReorderBucket(ctx context.Context, projectID *string, priority string, orderedIDs []string) error {
	todos, err := e.repo.ListTodosByProject(ctx, projectID)
	if err != nil {
		return err
	}

	bucket := make(map[string]model.Todo, len(todos))
	for _, t := range todos {
		if t.Priority == priority {
			bucket[t.ID] = t
		}
	}

	rank := 0
	for _, id := range orderedIDs {
		todo, ok := bucket[id]
		if !ok {
			continue
		}
		if todo.Order != rank {
			todo.Order = rank
			if _, err := e.repo.PutTodo(ctx, todo); err != nil {
				return err
			}
		}
		rank++
	}
	return nil
}
